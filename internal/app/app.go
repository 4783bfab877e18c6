// Package app wires repositories, services and jobs for the binaries.
package app

import (
	"log/slog"

	"github.com/YusovID/okr-service/internal/adapters/jira"
	"github.com/YusovID/okr-service/internal/config"
	"github.com/YusovID/okr-service/internal/jobs"
	"github.com/YusovID/okr-service/internal/repository/postgres"
	"github.com/YusovID/okr-service/internal/service"
	myhttp "github.com/YusovID/okr-service/internal/transport/http"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Services myhttp.Services
	Runner   *jobs.Runner
}

func New(cfg *config.Config, log *slog.Logger, db *sqlx.DB) *App {
	okrRepo := postgres.NewOKRRepository(db, log)
	issueRepo := postgres.NewIssueRepository(db, log)
	userRepo := postgres.NewUserRepository(db, log)
	teamRepo := postgres.NewTeamRepository(db, log)
	activityRepo := postgres.NewActivityRepository(db, log)
	lockRepo := postgres.NewLockRepository(db, log)

	dialer := jira.NewDialer(cfg.Jira, log)

	rollup := service.NewRollupService(db, log, okrRepo, lockRepo)
	syncer := service.NewSyncService(db, log, dialer, issueRepo, userRepo, activityRepo, service.SyncConfig{
		Project:   cfg.Jira.Project,
		BatchSize: cfg.Sync.BatchSize,
	})

	runner := jobs.NewRunner(log, syncer, rollup, lockRepo, cfg.Scheduler.JobTimeout)

	return &App{
		Services: myhttp.Services{
			Teams:     service.NewTeamService(db, log, teamRepo, userRepo),
			Users:     service.NewUserService(db, log, userRepo),
			Results:   service.NewResultService(db, log, rollup, okrRepo, issueRepo, activityRepo, lockRepo),
			Issues:    service.NewIssueService(db, log, issueRepo, cfg.Jira.Project),
			Estimates: service.NewEstimateService(db, log, dialer, teamRepo, issueRepo, activityRepo, cfg.Jira.Project),
			Reports:   service.NewReportService(db, log, okrRepo, activityRepo),
			Rollup:    rollup,
			Jobs:      runner,
		},
		Runner: runner,
	}
}
