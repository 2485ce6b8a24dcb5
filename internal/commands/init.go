package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/config"
)

func newInitCommand() *cobra.Command {
	var baseURL string
	var userID string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Super Bank workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, baseURL, userID)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the transaction service (required)")
	_ = cmd.MarkFlagRequired("base-url")
	cmd.Flags().StringVar(&userID, "user", "", "user ID to ingest transactions for (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runInit(dir, baseURL, userID string) error {
	// Create directory structure.
	dirs := []string{
		"logs",
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write superbank.yaml.
	cfg := config.Default(baseURL, userID)
	if err := config.Save(filepath.Join(dir, "superbank.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := "exports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	fmt.Printf("Initialized Super Bank workspace at %s\n", dir)
	return nil
}
