package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := appCtx.Store.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s: %d/%d ok, %d failed, %s\n",
					r.RunID, r.Reciter, r.Succeeded, r.Requested, r.Failed, r.Elapsed.Round(time.Millisecond))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")

	return cmd
}
