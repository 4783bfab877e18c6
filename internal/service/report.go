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
)

type ReportService interface {
	UserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error)
}

type ReportServiceImpl struct {
	BaseService
	okr      repository.OKRRepository
	quarters repository.QuarterRepository
	now      func() time.Time
}

func NewReportService(db DB, log *slog.Logger, okr repository.OKRRepository, quarters repository.QuarterRepository) *ReportServiceImpl {
	return &ReportServiceImpl{
		BaseService: NewBaseService(db, log),
		okr:         okr,
		quarters:    quarters,
		now:         time.Now,
	}
}

// UserProgress reports the user's objectives of the current quarter. Without
// a current quarter the report is empty.
func (s *ReportServiceImpl) UserProgress(ctx context.Context, userID int64) (*domain.UserProgress, error) {
	const op = "internal.service.report.UserProgress"

	progress := &domain.UserProgress{
		UserID:     userID,
		Objectives: []domain.ObjectiveProgress{},
	}

	quarter, err := s.quarters.GetQuarterByDay(ctx, s.db, s.now())
	if errors.Is(err, apperrors.ErrNotFound) {
		s.log.Debug("no current quarter", slog.String("op", op))
		return progress, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%s: failed to get current quarter: %w", op, err)
	}

	progress.Quarter = quarter

	objectives, err := s.okr.ListObjectivesByUserAndQuarter(ctx, s.db, userID, quarter.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list objectives: %w", op, err)
	}

	values := make([]float64, 0, len(objectives))

	for _, objective := range objectives {
		results, err := s.okr.ListResultsByObjective(ctx, s.db, objective.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to list results of objective %d: %w", op, objective.ID, err)
		}

		progress.Objectives = append(progress.Objectives, domain.ObjectiveProgress{
			Objective: objective,
			Results:   results,
		})
		values = append(values, objective.Percentage)
	}

	if avg, ok := domain.AveragePercentage(values); ok {
		progress.Percentage = avg
	}

	return progress, nil
}
