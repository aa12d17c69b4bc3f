package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vocab-exam/internal/config"
	"vocab-exam/internal/quiz/sqlite"
	"vocab-exam/internal/vocab"
	"vocab-exam/internal/wordsource"
)

var (
	appConfig config.Config

	dataDirFlag   string
	dataURLFlag   string
	historyDBFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vocab-exam",
	Short: "Timed vocabulary exams over Korean/English word books",
	Long: `vocab-exam builds timed multiple-choice exams from word book CSV files
(etymology, basic, advanced), scores them, keeps a short history of results
and issues a verification code for every result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDirFlag
			cfg.DataURL = ""
		}
		if cmd.Flags().Changed("data-url") {
			cfg.DataURL = dataURLFlag
		}
		if cmd.Flags().Changed("history-db") {
			cfg.HistoryDBPath = historyDBFlag
		}
		appConfig = cfg
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory holding the book CSV files (VOCAB_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&dataURLFlag, "data-url", "", "base URL serving the book CSV files (VOCAB_DATA_URL)")
	rootCmd.PersistentFlags().StringVar(&historyDBFlag, "history-db", "", "SQLite file for result history (VOCAB_HISTORY_DB)")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRepository(cfg config.Config) *vocab.Repository {
	if cfg.DataURL != "" {
		return vocab.NewRepository(wordsource.NewClient(cfg.DataURL, &http.Client{Timeout: cfg.HTTPTimeout}))
	}
	return vocab.NewRepository(wordsource.NewDir(cfg.DataDir))
}

func openHistoryStore(cfg config.Config) (*sqlite.SQLiteStore, error) {
	store, err := sqlite.NewSQLiteStore(cfg.HistoryDBPath)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", cfg.HistoryDBPath, err)
	}
	return store, nil
}
