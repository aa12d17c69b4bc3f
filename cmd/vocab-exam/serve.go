package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vocab-exam/internal/httpapi"
	"vocab-exam/internal/vocab"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve books, word pools, history and verification over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := appConfig.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		store, err := openHistoryStore(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()

		repo := newRepository(appConfig)
		server := &http.Server{
			Addr:              addr,
			Handler:           httpapi.NewRouter(repo, store, appConfig.CORSOrigins),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("vocab-exam listening on %s", addr)
			errCh <- server.ListenAndServe()
		}()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

	loop:
		for {
			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-hup:
				invalidateAll(repo)
			case <-cmd.Context().Done():
				break loop
			}
		}

		log.Printf("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address (ADDR)")
	rootCmd.AddCommand(serveCmd)
}

// invalidateAll drops every cached book; the next request refetches it.
func invalidateAll(repo *vocab.Repository) {
	cached := repo.CachedBooks()
	for _, book := range vocab.BookKeys() {
		repo.Invalidate(book)
	}
	log.Printf("reload: dropped %d cached books", len(cached))
}
