package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/filter"
	"github.com/superbank-dev/superbank/internal/model"
)

func newListCommand() *cobra.Command {
	var criteria filter.Criteria

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions in the unified view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			rows := filter.Apply(s.rows(), criteria)
			printRows(cmd.OutOrStdout(), s.builder.Header(), rows)
			fmt.Fprintf(cmd.OutOrStdout(), "%d transaction(s)\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&criteria.Search, "search", "", "case-insensitive substring search")
	cmd.Flags().StringVar(&criteria.SearchField, "search-field", filter.SearchAll, "column to search, or 'all'")
	cmd.Flags().StringVar(&criteria.DateFrom, "from", "", "earliest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&criteria.DateTo, "to", "", "latest date, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&criteria.Bank, "bank", "", "exact bank display name")
	cmd.Flags().StringVar(&criteria.Account, "account", "", "exact account number or ID")
	cmd.Flags().StringVar(&criteria.DrCr, "drcr", "", "DR or CR")
	cmd.Flags().StringSliceVar(&criteria.TagFilters, "tags", nil, "tag names, matched if the row carries any")
	cmd.Flags().BoolVar(&criteria.TaggedOnly, "tagged", false, "only rows with at least one tag")
	cmd.Flags().BoolVar(&criteria.UntaggedOnly, "untagged", false, "only rows without tags")
	cmd.MarkFlagsMutuallyExclusive("tagged", "untagged")

	return cmd
}

// printRows renders the unified view as an aligned table.
func printRows(w io.Writer, header []string, rows []model.CanonicalRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(header))
		for i, col := range header {
			cells[i] = row.Column(col)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}
