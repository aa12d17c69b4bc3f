package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"vocab-exam/internal/quiz"
)

var historyWrong bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent results, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistoryStore(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ReadHistory(cmd.Context())
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No results yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Finished\tBook\tType\tScore\tTime\tAuto\tCode")
		fmt.Fprintln(w, "--------\t----\t----\t-----\t----\t----\t----")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d (%.1f%%)\t%s\t%s\t%s\n",
				entry.FinishedAt.Local().Format(time.DateTime),
				entry.Config.BookKey,
				entry.Config.ExamType,
				entry.Summary.Correct, entry.Summary.Total, entry.Summary.Accuracy,
				quiz.FormatDuration(time.Duration(entry.Summary.TimeSpentMs)*time.Millisecond),
				yesNo(entry.Summary.AutoSubmitted),
				entry.VerificationCode,
			)
		}
		w.Flush()

		if historyWrong {
			for _, entry := range entries {
				if len(entry.WrongCardIDs) == 0 {
					continue
				}
				fmt.Fprintf(out, "\n%s missed %d:\n", entry.FinishedAt.Local().Format(time.DateTime), len(entry.WrongCardIDs))
				fmt.Fprintf(out, "  %s\n", strings.Join(entry.WrongCardIDs, "\n  "))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyWrong, "wrong", false, "also list the missed cards of each result")
	rootCmd.AddCommand(historyCmd)
}
