package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	httpapi "github.com/custodia-labs/tailor/internal/adapters/driving/http"
	"github.com/custodia-labs/tailor/internal/logger"
)

// shutdownTimeout bounds graceful shutdown of long-running servers.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API. Routes are served under /api/v1, with /health
and Prometheus metrics at /metrics. Logs are written as JSON.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || documentService == nil || tailorService == nil {
		return errors.New("services not configured")
	}

	logger.SetFormat(logger.FormatJSON)
	logger.SetLevel(zapcore.InfoLevel)

	cfg := &httpapi.Config{Addr: resolveServeAddr()}
	if metrics != nil {
		cfg.Metrics = metrics.Handler()
		cfg.Observer = metrics
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest:   ingestService,
		Document: documentService,
		Tailor:   tailorService,
	}, logger.L(), cfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("HTTP API listening on %s", cfg.Addr)
	cmd.Printf("Listening on %s\n", cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func resolveServeAddr() string {
	if serveAddr != "" {
		return serveAddr
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil && s.Server.Addr != "" {
			return s.Server.Addr
		}
	}
	return httpapi.DefaultAddr
}
