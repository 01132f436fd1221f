package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfloor/rollcall/internal/api"
	"github.com/openfloor/rollcall/internal/config"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the votes matrix over HTTP",
	Long: `Start a read-only HTTP API over the persisted matrix: the full matrix
(JSON and CSV export), bills and per-bill tallies, legislators, stats,
and weighted scores.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	store, healthChecker, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	// cleanup runs in the shutdown sequence below, not deferred

	router := api.NewRouter(&api.RouterConfig{
		Database:    healthChecker,
		Store:       store,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		cleanup()
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Closing database...")
	cleanup()

	log.Println("Server exited")
	return nil
}
