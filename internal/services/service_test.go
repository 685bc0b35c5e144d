package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flextrack/timetrack-be/internal/database"
	"github.com/flextrack/timetrack-be/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
// A single connection keeps the in-memory database alive across queries.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string, targetTime float64) models.User {
	t.Helper()
	user, err := NewUserService(db).Create(context.Background(), CreateUserParams{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "secret-" + username,
		Company:    "ACME",
		Job:        "Engineer",
		TargetTime: targetTime,
	})
	require.NoError(t, err)
	return user
}
