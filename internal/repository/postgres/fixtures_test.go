//go:build integration

package postgres

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func insertID(t *testing.T, db *sqlx.DB, query string, args ...any) int64 {
	t.Helper()

	var id int64
	require.NoError(t, db.QueryRowx(query+" RETURNING id", args...).Scan(&id))

	return id
}

func seedUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()

	id := insertID(t, db, "INSERT INTO users (username) VALUES ($1)", username)
	_, err := db.Exec("INSERT INTO profiles (user_id) VALUES ($1)", id)
	require.NoError(t, err)

	return id
}

type hierarchy struct {
	quarterID   int64
	gkrID       int64
	objectiveID int64
}

// seedHierarchy creates quarter -> global objective -> global key result ->
// objective owned by ownerID.
func seedHierarchy(t *testing.T, db *sqlx.DB, ownerID int64, start, end string) hierarchy {
	t.Helper()

	quarterID := insertID(t, db, "INSERT INTO quarters (name, start_date, end_date) VALUES ($1, $2, $3)", "Q", start, end)
	globalObjectiveID := insertID(t, db, "INSERT INTO global_objectives (quarter_id, objective) VALUES ($1, $2)", quarterID, "grow")
	gkrID := insertID(t, db, "INSERT INTO global_key_results (global_objective_id, key_result) VALUES ($1, $2)", globalObjectiveID, "revenue")
	objectiveID := insertID(t, db, "INSERT INTO objectives (global_key_result_id, user_id, objective) VALUES ($1, $2, $3)", gkrID, ownerID, "ship")

	return hierarchy{quarterID: quarterID, gkrID: gkrID, objectiveID: objectiveID}
}

func seedIssue(t *testing.T, db *sqlx.DB, key string, done bool, userID *int64) int64 {
	t.Helper()

	return insertID(t, db, "INSERT INTO issues (key, status, user_id) VALUES ($1, $2, $3)", key, done, userID)
}
