package main

import (
	"os"

	"github.com/superbank-dev/superbank/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
