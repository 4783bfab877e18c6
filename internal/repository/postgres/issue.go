package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/YusovID/okr-service/internal/apperrors"
	"github.com/YusovID/okr-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

var issueColumns = []string{"id", "key", "priority", "status", "type", "summary", "story_points", "user_id"}

type IssueRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewIssueRepository(db *sqlx.DB, log *slog.Logger) *IssueRepository {
	return &IssueRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListNotDoneKeys returns the keys of issues not done yet, ordered by key.
func (r *IssueRepository) ListNotDoneKeys(ctx context.Context, ext sqlx.ExtContext) ([]string, error) {
	const op = "internal.repository.postgres.ListNotDoneKeys"

	query, args, err := r.sq.Select("key").
		From("issues").
		Where(sq.Eq{"status": false}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	keys := []string{}
	if err := sqlx.SelectContext(ctx, ext, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list keys: %w", op, err)
	}

	return keys, nil
}

// GetIssueByKeyForUpdate loads the issue and locks its row until tx ends.
func (r *IssueRepository) GetIssueByKeyForUpdate(ctx context.Context, tx *sqlx.Tx, key string) (*domain.Issue, error) {
	const op = "internal.repository.postgres.GetIssueByKeyForUpdate"

	query, args, err := r.sq.Select(issueColumns...).
		From("issues").
		Where(sq.Eq{"key": key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var issue domain.Issue
	if err := tx.GetContext(ctx, &issue, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: issue with key '%s'", apperrors.ErrNotFound, key)
		}

		return nil, fmt.Errorf("%s: failed to get issue: %w", op, err)
	}

	return &issue, nil
}

// UpdateIssue overwrites every tracker-sourced column of the issue.
// It returns apperrors.ErrNotFound when the row is gone.
func (r *IssueRepository) UpdateIssue(ctx context.Context, tx *sqlx.Tx, issue *domain.Issue) error {
	const op = "internal.repository.postgres.UpdateIssue"

	query, args, err := r.sq.Update("issues").
		SetMap(map[string]any{
			"priority":     issue.Priority,
			"status":       issue.Status,
			"type":         issue.Type,
			"summary":      issue.Summary,
			"story_points": issue.StoryPoints,
			"user_id":      issue.UserID,
		}).
		Where(sq.Eq{"id": issue.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: issue with id '%d'", apperrors.ErrNotFound, issue.ID)
	}

	return nil
}

// GetOrCreateIssue inserts issue unless its key exists. The bool reports
// whether a row was created; an existing row is returned unchanged.
func (r *IssueRepository) GetOrCreateIssue(ctx context.Context, ext sqlx.ExtContext, issue *domain.Issue) (*domain.Issue, bool, error) {
	const op = "internal.repository.postgres.GetOrCreateIssue"

	query, args, err := r.sq.Insert("issues").
		Columns("key", "priority", "status", "type", "summary", "story_points", "user_id").
		Values(issue.Key, issue.Priority, issue.Status, issue.Type, issue.Summary, issue.StoryPoints, issue.UserID).
		Suffix("ON CONFLICT (key) DO NOTHING RETURNING id, key, priority, status, type, summary, story_points, user_id").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var stored domain.Issue

	err = sqlx.GetContext(ctx, ext, &stored, query, args...)
	if err == nil {
		return &stored, true, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%s: failed to insert issue: %w", op, err)
	}

	querySelect, args, err := r.sq.Select(issueColumns...).
		From("issues").
		Where(sq.Eq{"key": issue.Key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	if err := sqlx.GetContext(ctx, ext, &stored, querySelect, args...); err != nil {
		return nil, false, fmt.Errorf("%s: failed to get existing issue: %w", op, err)
	}

	return &stored, false, nil
}

func (r *IssueRepository) ListIssuesByUser(ctx context.Context, ext sqlx.ExtContext, userID int64) ([]domain.Issue, error) {
	const op = "internal.repository.postgres.ListIssuesByUser"

	query, args, err := r.sq.Select(issueColumns...).
		From("issues").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	issues := []domain.Issue{}
	if err := sqlx.SelectContext(ctx, ext, &issues, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to list issues: %w", op, err)
	}

	return issues, nil
}

// CountIssuesOwnedBy counts how many of issueIDs belong to the user.
func (r *IssueRepository) CountIssuesOwnedBy(ctx context.Context, ext sqlx.ExtContext, userID int64, issueIDs []int64) (int, error) {
	const op = "internal.repository.postgres.CountIssuesOwnedBy"

	if len(issueIDs) == 0 {
		return 0, nil
	}

	query, args, err := r.sq.Select("COUNT(*)").
		From("issues").
		Where(sq.Eq{"user_id": userID, "id": issueIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var count int
	if err := sqlx.GetContext(ctx, ext, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to count issues: %w", op, err)
	}

	return count, nil
}

func (r *IssueRepository) SetStoryPoints(ctx context.Context, ext sqlx.ExtContext, issueID int64, points float64) error {
	const op = "internal.repository.postgres.SetStoryPoints"

	query, args, err := r.sq.Update("issues").
		Set("story_points", points).
		Where(sq.Eq{"id": issueID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: issue with id '%d'", apperrors.ErrNotFound, issueID)
	}

	return nil
}
