package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS channel_lookups (
    username     TEXT PRIMARY KEY,
    channel_id   BIGINT NOT NULL,
    title        TEXT NOT NULL,
    member_count INTEGER NOT NULL DEFAULT 0,
    looked_up_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_channel_lookups_looked_up_at ON channel_lookups (looked_up_at DESC);
`

// Connect opens the database and applies the schema.
func Connect(dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return conn, nil
}
