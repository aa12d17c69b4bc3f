package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vocab-exam/internal/vocab"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the supported word books",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Book\tChapters\tDerivatives")
		fmt.Fprintln(w, "----\t--------\t-----------")
		for _, book := range vocab.BookKeys() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", book, yesNo(book.HasChapters()), yesNo(book.SupportsDerivatives()))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(booksCmd)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
