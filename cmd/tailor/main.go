// Command tailor stores résumés and writes job-specific bullets that cite them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/tailor/internal/adapters/driving/cli"
	"github.com/custodia-labs/tailor/internal/app"
	"github.com/custodia-labs/tailor/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	a, err := app.New(ctx, app.Options{
		Dir:    os.Getenv("TAILOR_HOME"),
		DotEnv: []string{".env"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	cli.SetServices(cli.Services{
		Ingest:   a.Ingest,
		Document: a.Documents,
		Tailor:   a.Tailor,
		Settings: a.SettingsService,
		Metrics:  a.Metrics,
		Worker:   a.RunWorker,
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
