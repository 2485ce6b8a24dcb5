package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/export"
	"github.com/superbank-dev/superbank/internal/filter"
)

func newExportCommand() *cobra.Command {
	var outPath string
	var criteria filter.Criteria

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the unified view as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			rows := filter.Apply(s.rows(), criteria)

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.WriteRows(w, s.builder.Header(), rows); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", len(rows), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&criteria.Search, "search", "", "case-insensitive substring search")
	cmd.Flags().StringVar(&criteria.DateFrom, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&criteria.DateTo, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&criteria.Bank, "bank", "", "exact bank display name")
	cmd.Flags().StringSliceVar(&criteria.TagFilters, "tags", nil, "tag names, matched if the row carries any")

	return cmd
}
