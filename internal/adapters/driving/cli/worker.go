package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/custodia-labs/tailor/internal/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process ingest and tailor jobs from RabbitMQ",
	Long: `Consume jobs from the configured RabbitMQ queue (queue.url, queue.queue).
Ingest jobs fetch the uploaded file from object storage (blob.*); tailor jobs
run against a stored résumé. Progress events are published to queue.exchange
with routing key job.<id>.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

var workerCount int

func init() {
	workerCmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "Number of concurrent consumers (default from settings)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	if workerRunner == nil {
		return errors.New("worker not configured")
	}

	logger.SetFormat(logger.FormatJSON)
	logger.SetLevel(zapcore.InfoLevel)

	err := workerRunner(commandContext(cmd), workerCount)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
