package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/model"
	"github.com/superbank-dev/superbank/internal/oplog"
	"github.com/superbank-dev/superbank/internal/store"
	"github.com/superbank-dev/superbank/internal/tagops"
)

func newTagCommand() *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag operations",
	}
	tagCmd.AddCommand(newTagListCommand())
	tagCmd.AddCommand(newTagBulkCommand("apply", tagops.ModeApply))
	tagCmd.AddCommand(newTagBulkCommand("remove", tagops.ModeRemove))
	tagCmd.AddCommand(newTagHistoryCommand())
	return tagCmd
}

func newTagListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			tags, err := s.client.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing tags: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "Name\tColor\tID")
			for _, t := range tags {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Color, t.ID)
			}
			return nil
		},
	}
}

func newTagBulkCommand(use string, mode tagops.Mode) *cobra.Command {
	var tagNames []string
	var ids []string
	var match string
	var retries int

	short := "Apply tags to a set of transactions"
	if mode == tagops.ModeRemove {
		short = "Remove tags from a set of transactions"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			return runTagBulk(cmd, s, mode, tagNames, ids, match, retries)
		},
	}

	cmd.Flags().StringSliceVar(&tagNames, "tag", nil, "tag name (repeatable, required)")
	_ = cmd.MarkFlagRequired("tag")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "explicit transaction IDs")
	cmd.Flags().StringVar(&match, "match", "", "free-text match over transaction fields")
	cmd.Flags().IntVar(&retries, "retry", 0, "retry the failed subset up to N more times")
	cmd.MarkFlagsOneRequired("ids", "match")
	cmd.MarkFlagsMutuallyExclusive("ids", "match")

	return cmd
}

func runTagBulk(cmd *cobra.Command, s *session, mode tagops.Mode, tagNames, ids []string, match string, retries int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	tags, err := resolveTags(ctx, s, mode, tagNames)
	if err != nil {
		return err
	}

	mgr := tagops.NewManager(s.client, s.txs, s.bankNames, s.log)
	matched, err := mgr.Begin(mode, tags, ids, match)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		fmt.Fprintln(out, "No transactions matched.")
		return nil
	}
	fmt.Fprintf(out, "Matched %d transaction(s)\n", len(matched))

	result, err := mgr.Apply(ctx)
	if err != nil {
		return fmt.Errorf("bulk %s: %w", mode, err)
	}
	logOp(s, mgr, string(mode), tagNames, result)
	report(out, result)

	for attempt := 0; attempt < retries && mgr.State() == tagops.StatePartiallyFailed; attempt++ {
		fmt.Fprintf(out, "Retrying %d failed transaction(s)...\n", len(mgr.Failures()))
		result, err = mgr.Retry(ctx)
		if err != nil {
			return fmt.Errorf("retrying bulk %s: %w", mode, err)
		}
		logOp(s, mgr, "retry", tagNames, result)
		report(out, result)
	}

	if mgr.State() == tagops.StatePartiallyFailed {
		return fmt.Errorf("%d transaction(s) still failed; re-run with --retry", len(mgr.Failures()))
	}
	return nil
}

// resolveTags turns tag names into tag records. Applying creates missing
// tags; removing requires them to exist and suggests the closest known name
// when they do not.
func resolveTags(ctx context.Context, s *session, mode tagops.Mode, names []string) ([]model.Tag, error) {
	if mode == tagops.ModeApply {
		tags := make([]model.Tag, 0, len(names))
		for _, name := range names {
			tag, err := store.Ensure(ctx, s.client, name)
			if err != nil {
				return nil, fmt.Errorf("ensuring tag %q: %w", name, err)
			}
			tags = append(tags, tag)
		}
		return tags, nil
	}

	known, err := s.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := store.FindByName(known, name)
		if !ok {
			if suggestion, found := store.Closest(name, known); found {
				return nil, fmt.Errorf("unknown tag %q (did you mean %q?)", name, suggestion)
			}
			return nil, fmt.Errorf("unknown tag %q", name)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func logOp(s *session, mgr *tagops.Manager, action string, tagNames []string, result model.BulkTagResult) {
	entries := make([]oplog.Entry, 0, len(tagNames))
	for _, name := range tagNames {
		entries = append(entries, oplog.Entry{
			Timestamp:   time.Now().UTC(),
			OperationID: mgr.OperationID(),
			Action:      action,
			TagName:     name,
			Succeeded:   result.Successful,
			Failed:      len(result.Failed),
		})
	}
	if err := oplog.Append(".", entries); err != nil {
		s.log.Warn().Err(err).Msg("failed to write operation log")
	}
}

func report(out io.Writer, result model.BulkTagResult) {
	fmt.Fprintf(out, "%d succeeded, %d failed\n", result.Successful, len(result.Failed))
	for _, f := range result.Failed {
		fmt.Fprintf(out, "  %s: %s\n", f.ID, f.Error)
	}
}

func newTagHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the bulk tag operation log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := oplog.Read(".")
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No operations recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintln(tw, "Time\tOperation\tAction\tTag\tSucceeded\tFailed")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
					e.Timestamp.Format(time.RFC3339), e.OperationID, e.Action,
					e.TagName, e.Succeeded, e.Failed)
			}
			return nil
		},
	}
}
