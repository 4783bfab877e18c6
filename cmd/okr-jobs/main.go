// Command okr-jobs runs the issue sync and the percentage recompute once,
// for use from an external scheduler.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/YusovID/okr-service/internal/app"
	"github.com/YusovID/okr-service/internal/config"
	"github.com/YusovID/okr-service/internal/jobs"
	"github.com/YusovID/okr-service/internal/repository/postgres"
	"github.com/YusovID/okr-service/pkg/logger/sl"
	"github.com/YusovID/okr-service/pkg/logger/slogpretty"
	"github.com/spf13/pflag"
)

const jobAll = "all"

func main() {
	job := pflag.StringP("job", "j", jobAll, "job to run: sync, recompute or all")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *job); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, job string) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	runner := app.New(cfg, log, db.DB()).Runner

	names := []string{job}
	if job == jobAll {
		// Recompute after sync so fresh issue statuses reach the percentages.
		names = []string{jobs.JobSync, jobs.JobRecompute}
	}

	for _, name := range names {
		if err := runner.Run(ctx, name); err != nil {
			return fmt.Errorf("job %s failed: %w", name, err)
		}

		log.Info("job done", slog.String("job", name))
	}

	return nil
}
