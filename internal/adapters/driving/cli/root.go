// Package cli provides the tailor command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Services configured by SetServices.
var (
	ingestService   driving.IngestService
	documentService driving.DocumentService
	tailorService   driving.TailorService
	settingsService driving.SettingsService
	metrics         MetricsProvider
	workerRunner    WorkerRunner
)

// Persistent flags.
var (
	verboseFlag bool
	jsonFlag    bool
)

// MetricsProvider exposes the metrics endpoint and records HTTP requests.
type MetricsProvider interface {
	Handler() http.Handler
	ObserveHTTP(method, route string, status int)
}

// WorkerRunner consumes the job queue until ctx is cancelled.
type WorkerRunner func(ctx context.Context, workers int) error

// Services holds the driving ports the commands call.
type Services struct {
	Ingest   driving.IngestService
	Document driving.DocumentService
	Tailor   driving.TailorService
	Settings driving.SettingsService
	Metrics  MetricsProvider
	Worker   WorkerRunner
}

// SetServices configures the services used by all commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	documentService = s.Document
	tailorService = s.Tailor
	settingsService = s.Settings
	metrics = s.Metrics
	workerRunner = s.Worker
}

var rootCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor résumés to job descriptions with cited bullets",
	Long: `Tailor stores résumés as embedded chunks and writes bullet points
tailored to a job description. Every bullet cites the résumé chunks it is
based on, so nothing is invented.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verboseFlag {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printJSON writes v as indented JSON to the command output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
