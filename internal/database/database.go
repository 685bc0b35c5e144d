package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		company TEXT,
		job TEXT,
		target_time REAL NOT NULL,
		token TEXT UNIQUE,
		token_expiration DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS working_hours (
		id TEXT NOT NULL PRIMARY KEY,
		-- Calendar date stored as YYYY-MM-DD so range scans sort correctly
		date TEXT NOT NULL,
		working_hours REAL NOT NULL,
		comment TEXT,
		user_id TEXT NOT NULL REFERENCES users(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_working_hours_user_date ON working_hours(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_users_token ON users(token);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
