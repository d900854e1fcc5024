package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jowharshamshiri/refac/internal/config"
	"github.com/jowharshamshiri/refac/internal/history"
)

// NewHistoryCommand builds the "history" subcommand, a thin reader over the
// run-history store every refac invocation records to.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past refac runs",
	}
	cmd.AddCommand(newHistoryListCommand())
	return cmd
}

func newHistoryListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List recorded runs, most recent first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runHistoryList,
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs to show (0 = unlimited)")
	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	home, err := config.Home()
	if err != nil {
		return err
	}
	store, err := history.Open(history.DefaultPath(home))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-20s %s -> %-15s edits=%d renames=%d failed=%d  [%s]\n",
			e.StartedAt.Format(time.RFC3339), e.Root, e.Pattern, e.Substitute,
			e.Edits, e.Renames, e.Failed, e.RunID)
	}
	return nil
}
