package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YusovID/okr-service/pkg/logger/sl"
	"github.com/jmoiron/sqlx"
)

type LockRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewLockRepository(db *sqlx.DB, log *slog.Logger) *LockRepository {
	return &LockRepository{
		db:  db,
		log: log,
	}
}

// lockIDBits is the width of the id part of a transaction lock key. The
// namespace takes the bits above it.
const lockIDBits = 48

// xactLockKey folds namespace and id into the single bigint key of
// pg_advisory_xact_lock so ids past the int4 range keep distinct locks.
func xactLockKey(namespace int32, id int64) (int64, error) {
	if namespace < 0 || namespace >= 1<<(63-lockIDBits) {
		return 0, fmt.Errorf("lock namespace %d out of range", namespace)
	}

	if id < 0 || id >= 1<<lockIDBits {
		return 0, fmt.Errorf("lock id %d out of range", id)
	}

	return int64(namespace)<<lockIDBits | id, nil
}

// XactLock takes a transaction-scoped advisory lock on (namespace, id). It is
// released when tx commits or rolls back.
func (r *LockRepository) XactLock(ctx context.Context, tx *sqlx.Tx, namespace int32, id int64) error {
	const op = "internal.repository.postgres.XactLock"

	key, err := xactLockKey(namespace, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1::bigint)", key); err != nil {
		return fmt.Errorf("%s: failed to take lock (%d, %d): %w", op, namespace, id, err)
	}

	return nil
}

// TryJobLock pins a connection for the lifetime of the lock: session advisory
// locks belong to the backend that took them.
func (r *LockRepository) TryJobLock(ctx context.Context, job string) (func(), bool, error) {
	const op = "internal.repository.postgres.TryJobLock"
	log := r.log.With(slog.String("op", op), slog.String("job", job))

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to get connection: %w", op, err)
	}

	var ok bool
	if err := conn.QueryRowxContext(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", job).Scan(&ok); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("%s: failed to try lock: %w", op, err)
	}

	if !ok {
		_ = conn.Close()
		return nil, false, nil
	}

	release := func() {
		var unlocked bool
		if err := conn.QueryRowxContext(context.Background(), "SELECT pg_advisory_unlock(hashtext($1))", job).Scan(&unlocked); err != nil {
			log.Error("failed to release job lock", sl.Err(err))
		} else if !unlocked {
			log.Warn("job lock was not held on release")
		}

		if err := conn.Close(); err != nil {
			log.Error("failed to return connection", sl.Err(err))
		}
	}

	return release, true, nil
}
