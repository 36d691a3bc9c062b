package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/hemoscan/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the analysis API",
	Long: `Start an HTTP server that provides REST API endpoints for photo analysis.

The server provides the following endpoints:
  POST /analyze     - Analyze uploaded photos
  GET  /health      - Health check endpoint
  GET  /metrics     - Prometheus metrics
  GET  /ws/analyze  - WebSocket streaming analysis

Examples:
  hemoscan serve
  hemoscan serve --port 8080
  hemoscan serve --host 0.0.0.0 --port 3000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}
		maxUploadMB := cfg.Server.MaxUploadMB
		if cmd.Flags().Changed("max-upload-size") {
			maxUploadMB, _ = cmd.Flags().GetInt("max-upload-size")
		}
		timeoutSec := cfg.Server.TimeoutSec
		if cmd.Flags().Changed("timeout") {
			timeoutSec, _ = cmd.Flags().GetInt("timeout")
		}
		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		srv, err := server.NewServer(server.Config{
			Host:           host,
			Port:           port,
			CORSOrigin:     corsOrigin,
			MaxUploadMB:    int64(maxUploadMB),
			MaxImageWidth:  cfg.Analysis.MaxWidth,
			TimeoutSec:     timeoutSec,
			PipelineConfig: cfg.ToPipelineConfig(),
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		mux := http.NewServeMux()
		srv.SetupRoutes(mux)

		addr := fmt.Sprintf("%s:%d", host, port)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadTimeout:       time.Duration(timeoutSec) * time.Second,
			WriteTimeout:      time.Duration(timeoutSec) * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Serve until interrupted, then drain connections.
		errCh := make(chan error, 1)
		go func() {
			slog.Info("Starting analysis server", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigCh:
			slog.Info("Shutting down server", "signal", sig.String())
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 8080, "port to bind the server to")
	serveCmd.Flags().String("cors-origin", "*", "allowed CORS origin")
	serveCmd.Flags().Int("max-upload-size", 20, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "graceful shutdown timeout in seconds")
}
