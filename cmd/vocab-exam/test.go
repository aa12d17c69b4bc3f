package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"vocab-exam/internal/cli"
	"vocab-exam/internal/quiz"
	"vocab-exam/internal/vocab"
)

var (
	testBook        string
	testChapter     string
	testTopics      []string
	testAllTopics   bool
	testDerivatives bool
	testExamType    string
	testCount       int
	testMinutes     float64
	testNoShuffle   bool
	testPayloadOut  string
)

// resultFile is what --payload-out writes and verify reads.
type resultFile struct {
	Payload quiz.VerificationPayload `json:"payload"`
	Code    string                   `json:"code"`
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Take a timed exam in the terminal",
	Long: `Take a timed multiple-choice exam over the selected topics.

While answering: enter a choice number, type an answer, or press Enter to skip.
On the last question you are asked to submit. When time runs out the exam is
submitted automatically.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		book, err := vocab.ParseBookKey(testBook)
		if err != nil {
			return err
		}
		repo := newRepository(appConfig)

		topics := testTopics
		if testAllTopics {
			topics, err = repo.ListTopics(ctx, book, testChapter)
			if err != nil {
				return err
			}
		}
		if len(topics) == 0 {
			return errors.New("select at least one --topic or use --all-topics")
		}

		store, err := openHistoryStore(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()

		history := quiz.NewHistory(store)
		if err := history.Load(ctx); err != nil {
			log.Printf("history could not be read, starting empty: %v", err)
		}

		minutes := appConfig.TimeLimitMinutes
		if cmd.Flags().Changed("minutes") {
			minutes = testMinutes
		}
		count := testCount
		if count <= 0 {
			count = quiz.MaxQuestionCount
		}

		engine := quiz.NewEngine(repo, quiz.WithHistory(history))

		var (
			mu   sync.Mutex
			last *quiz.Result
		)
		unsubscribe := engine.OnChange(func(snap quiz.Snapshot) {
			if snap.State != quiz.StateResult || snap.Result == nil {
				return
			}
			mu.Lock()
			last = snap.Result
			mu.Unlock()
		})
		defer unsubscribe()

		err = cli.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), engine, cli.Config{
			Session: quiz.SessionConfig{
				BookKey:            book,
				ChapterID:          testChapter,
				SelectedTopics:     topics,
				IncludeDerivatives: testDerivatives,
				ExamType:           quiz.ParseExamType(testExamType),
				QuestionCount:      count,
				TimeLimitMinutes:   minutes,
				ShuffleQuestions:   !testNoShuffle,
			},
		})
		if err != nil {
			return err
		}

		mu.Lock()
		result := last
		mu.Unlock()
		if testPayloadOut == "" || result == nil {
			return nil
		}
		return writeResultFile(testPayloadOut, *result)
	},
}

func init() {
	testCmd.Flags().StringVar(&testBook, "book", "", "book key: etymology, basic or advanced")
	testCmd.Flags().StringVar(&testChapter, "chapter", "", "chapter (etymology only)")
	testCmd.Flags().StringArrayVar(&testTopics, "topic", nil, "topic to include, repeatable")
	testCmd.Flags().BoolVar(&testAllTopics, "all-topics", false, "include every topic of the book or chapter")
	testCmd.Flags().BoolVar(&testDerivatives, "derivatives", false, "include derivative words (basic and advanced)")
	testCmd.Flags().StringVar(&testExamType, "type", string(quiz.ExamE2K), "E2K, K2E or MIXED")
	testCmd.Flags().IntVar(&testCount, "count", 0, "number of questions, 0 for every word in scope")
	testCmd.Flags().Float64Var(&testMinutes, "minutes", 20, "time limit in minutes (VOCAB_TIME_LIMIT_MINUTES)")
	testCmd.Flags().BoolVar(&testNoShuffle, "no-shuffle", false, "keep questions in word book order")
	testCmd.Flags().StringVar(&testPayloadOut, "payload-out", "", "write the last result's verification payload to this file")
	_ = testCmd.MarkFlagRequired("book")
	rootCmd.AddCommand(testCmd)
}

func writeResultFile(path string, result quiz.Result) error {
	data, err := json.MarshalIndent(resultFile{Payload: result.Payload, Code: result.VerificationCode}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
