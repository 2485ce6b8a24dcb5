package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/stats"
)

func newSummaryCommand() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Aggregate totals by bank, account, or tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groupBy := stats.GroupBy(by)
			switch groupBy {
			case stats.GroupByBank, stats.GroupByAccount, stats.GroupByTag:
			default:
				return fmt.Errorf("unknown grouping %q (want bank, account, or tag)", by)
			}

			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			buckets := stats.Aggregate(s.rows(), groupBy)

			labels := make([]string, 0, len(buckets))
			for label := range buckets {
				labels = append(labels, label)
			}
			sort.Strings(labels)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			fmt.Fprintln(tw, "Group\tTxns\tCredit\tDebit\tBalance\tTagged\tUntagged")
			for _, label := range labels {
				st := buckets[label]
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%d\n",
					st.Label, st.TotalTransactions,
					st.TotalCredit.StringFixed(2), st.TotalDebit.StringFixed(2),
					st.Balance().StringFixed(2), st.Tagged, st.Untagged)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "bank", "grouping key: bank, account, or tag")

	return cmd
}
