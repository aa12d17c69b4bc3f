package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocab-exam/internal/vocab"
)

var (
	topicsBook    string
	topicsChapter string
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List chapters or topics of a book",
	Long: `List the selectable topics of a book. For the etymology book without
--chapter the chapters are listed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := vocab.ParseBookKey(topicsBook)
		if err != nil {
			return err
		}
		repo := newRepository(appConfig)
		out := cmd.OutOrStdout()

		if book.HasChapters() && topicsChapter == "" {
			chapters, err := repo.ListChapters(cmd.Context(), book)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Chapters of %s:\n", book)
			for _, chapter := range chapters {
				fmt.Fprintf(out, "- %s\n", chapter)
			}
			return nil
		}

		topics, err := repo.ListTopics(cmd.Context(), book, topicsChapter)
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Fprintln(out, "No topics found.")
			return nil
		}
		for _, topic := range topics {
			fmt.Fprintf(out, "- %s\n", topic)
		}
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&topicsBook, "book", "", "book key: etymology, basic or advanced")
	topicsCmd.Flags().StringVar(&topicsChapter, "chapter", "", "chapter (etymology only)")
	_ = topicsCmd.MarkFlagRequired("book")
	rootCmd.AddCommand(topicsCmd)
}
