// The serve command: HTTP API server with graceful shutdown.
//
// On SIGINT/SIGTERM:
//  1. Stop accepting new connections
//  2. Wait for active requests to complete (30s timeout)
//  3. Close the parameter store
//  4. Exit
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

	"github.com/warp/fiscal-engine/api"
	"github.com/warp/fiscal-engine/dutchtax"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().Int(cfgKeyPort, defaultPort, "HTTP server port")
	serveCmd.Flags().String(cfgKeyDB, "", "SQLite parameter store path (seeded with the built-in sets if empty)")
	serveCmd.Flags().String(cfgKeyParamsFile, "", "YAML parameter document")
}

func serve(cfg *config) error {
	params, closer, err := buildParams(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	handler := api.NewHandler(dutchtax.NewRegistry(), params)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
