package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/YusovID/okr-service/internal/repository"
	"github.com/YusovID/okr-service/internal/tracker"
	"github.com/YusovID/okr-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

// DefaultBatchSize is the number of keys sent in one tracker search.
const DefaultBatchSize = 49

const (
	outcomeUpdated   = "updated"
	outcomeCompleted = "completed"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

type SyncService interface {
	SyncIssues(ctx context.Context) (*domain.SyncReport, error)
}

type SyncConfig struct {
	Project   string
	BatchSize int
}

// SyncServiceImpl refreshes the local copy of every not-done issue from the
// tracker.
type SyncServiceImpl struct {
	BaseService
	dialer     tracker.Dialer
	issues     repository.IssueRepository
	users      repository.UserRepository
	activities repository.ActivityRepository
	cfg        SyncConfig
}

func NewSyncService(
	db DB,
	log *slog.Logger,
	dialer tracker.Dialer,
	issues repository.IssueRepository,
	users repository.UserRepository,
	activities repository.ActivityRepository,
	cfg SyncConfig,
) *SyncServiceImpl {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &SyncServiceImpl{
		BaseService: NewBaseService(db, log),
		dialer:      dialer,
		issues:      issues,
		users:       users,
		activities:  activities,
		cfg:         cfg,
	}
}

// SyncIssues fails fast if the tracker cannot be reached. Past that point a
// failed batch or record is logged, counted and skipped.
func (s *SyncServiceImpl) SyncIssues(ctx context.Context) (*domain.SyncReport, error) {
	const op = "internal.service.sync.SyncIssues"
	log := s.log.With(slog.String("op", op), slog.String("project", s.cfg.Project))

	start := time.Now()

	session, err := s.dialer.Dial(ctx)
	if err != nil {
		var connErr *apperrors.ConnectionError
		if !errors.As(err, &connErr) {
			err = &apperrors.ConnectionError{Tracker: "tracker", Err: err}
		}

		log.Error("failed to connect to tracker", sl.Err(err))

		return nil, err
	}

	keys, err := s.issues.ListNotDoneKeys(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list not done issues: %w", op, err)
	}

	log.Info("sync started", slog.Int("issues", len(keys)), slog.Int("batch_size", s.cfg.BatchSize))

	report := &domain.SyncReport{}

	for _, batch := range chunk(keys, s.cfg.BatchSize) {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("%s: %w", op, err)
		}

		report.Batches++

		records, err := session.SearchByKeys(ctx, s.cfg.Project, batch)
		if err != nil {
			report.FailedBatches++
			syncFailedBatches.Inc()
			log.Error("batch search failed",
				slog.String("first_key", batch[0]),
				slog.Int("size", len(batch)),
				sl.Err(err),
			)

			continue
		}

		report.Fetched += len(records)

		for _, record := range records {
			s.syncRecord(ctx, log, record, report)
		}
	}

	log.Info("sync finished",
		slog.Int("batches", report.Batches),
		slog.Int("failed_batches", report.FailedBatches),
		slog.Int("fetched", report.Fetched),
		slog.Int("updated", report.Updated),
		slog.Int("completed", report.Completed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed_records", report.FailedRecords),
		slog.Int("field_failures", len(report.Failures)),
		slog.String("duration", time.Since(start).String()),
	)

	return report, nil
}

func (s *SyncServiceImpl) syncRecord(ctx context.Context, log *slog.Logger, record domain.ExternalIssue, report *domain.SyncReport) {
	const op = "internal.service.sync.syncRecord"

	var (
		failures  []domain.FieldFailure
		skipped   bool
		completed bool
	)

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		issue, err := s.issues.GetIssueByKeyForUpdate(ctx, tx, record.Key)
		if errors.Is(err, apperrors.ErrNotFound) {
			skipped = true
			failures = append(failures, domain.FieldFailure{Field: domain.FieldRecord, Kind: domain.FailureLookup, Value: record.Key})

			return nil
		}

		if err != nil {
			return fmt.Errorf("%s: failed to lock issue: %w", op, err)
		}

		wasDone := issue.Status

		failures, err = s.applyRecord(ctx, tx, issue, record)
		if err != nil {
			return err
		}

		if err := s.issues.UpdateIssue(ctx, tx, issue); err != nil {
			return fmt.Errorf("%s: failed to update issue: %w", op, err)
		}

		if !wasDone && issue.Status {
			activity := &domain.Activity{
				Type:   domain.ActivityCompletedJira,
				UserID: issue.UserID,
				Public: true,
				Data:   issue.Key,
			}

			if err := s.activities.CreateActivity(ctx, tx, activity); err != nil {
				return fmt.Errorf("%s: failed to record completion: %w", op, err)
			}

			completed = true
		}

		return nil
	})

	for _, f := range failures {
		f.IssueKey = record.Key
		report.Failures = append(report.Failures, f)
		syncFieldFailures.WithLabelValues(f.Field, string(f.Kind)).Inc()
		log.Warn("issue field not applied", slog.String("failure", f.String()))
	}

	switch {
	case err != nil:
		report.FailedRecords++
		syncRecords.WithLabelValues(outcomeFailed).Inc()
		log.Error("failed to sync issue", slog.String("key", record.Key), sl.Err(err))
	case skipped:
		report.Skipped++
		syncRecords.WithLabelValues(outcomeSkipped).Inc()
	default:
		report.Updated++
		syncRecords.WithLabelValues(outcomeUpdated).Inc()

		if completed {
			report.Completed++
			syncRecords.WithLabelValues(outcomeCompleted).Inc()
		}
	}
}

// applyRecord copies the tracker fields onto issue. Fields that cannot be
// mapped fall back to defaults, an unresolvable assignee leaves the owner
// unchanged. Only store errors are returned as errors.
func (s *SyncServiceImpl) applyRecord(ctx context.Context, tx *sqlx.Tx, issue *domain.Issue, record domain.ExternalIssue) ([]domain.FieldFailure, error) {
	var failures []domain.FieldFailure

	collect := func(f *domain.FieldFailure) {
		if f != nil {
			failures = append(failures, *f)
		}
	}

	if record.Assignee == nil {
		collect(&domain.FieldFailure{Field: domain.FieldAssignee, Kind: domain.FailureLookup})
	} else {
		userID, err := s.users.GetUserIDByUsername(ctx, tx, *record.Assignee)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			collect(&domain.FieldFailure{Field: domain.FieldAssignee, Kind: domain.FailureLookup, Value: *record.Assignee})
		case err != nil:
			return nil, fmt.Errorf("failed to resolve assignee '%s': %w", *record.Assignee, err)
		default:
			issue.UserID = &userID
		}
	}

	var f *domain.FieldFailure

	issue.Priority, f = domain.MapPriority(record.Priority)
	collect(f)

	issue.Status, f = domain.MapStatus(record.Status)
	collect(f)

	issue.Type, f = domain.MapType(record.IssueType)
	collect(f)

	issue.Summary, f = domain.MapSummary(record.Summary)
	collect(f)

	return failures, nil
}

// chunk splits keys into consecutive batches of at most size keys. It never
// returns an empty batch.
func chunk(keys []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}

	batches := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		batches = append(batches, keys[start:end])
	}

	return batches
}
