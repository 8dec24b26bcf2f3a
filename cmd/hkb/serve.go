package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hkb/internal/api"
	"hkb/internal/logging"
	"hkb/internal/storage"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluator and converter over HTTP",
	Long: `Start the HTTP API consumed by the product frontends.

Routes:
  POST /v1/evaluate
  POST /v1/convert
  GET  /v1/ingredients
  GET  /v1/ingredients/{id}
  GET  /healthz`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := a.cfg.API.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	var history *storage.History
	if a.cfg.Cache.Enabled && !noCacheFlag {
		db, err := storage.Open(rootFlag, a.logger)
		if err != nil {
			a.logger.Warn("Conversion history unavailable", logging.Fields{
				"error": err.Error(),
			})
		} else {
			defer db.Close()
			history = storage.NewHistory(db)
		}
	}

	server := api.NewServer(addr, a.evaluator, a.converter, history, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
			os.Exit(1)
		}
	}
}
