package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureAuditSchema creates the append-only audit tables and adds newer
// columns when they are missing. Safe to call at startup.
func EnsureAuditSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS facebook_api_logs (
			id VARCHAR(36) PRIMARY KEY,
			user_id TEXT NULL,
			endpoint TEXT NOT NULL,
			method VARCHAR(10) NOT NULL,
			action_type VARCHAR(100) NOT NULL,
			response_code INTEGER NOT NULL,
			request_body TEXT NULL,
			response_body TEXT NULL,
			error_message TEXT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_facebook_api_logs_user_created ON facebook_api_logs (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS posts_log (
			id VARCHAR(36) PRIMARY KEY,
			campaign_id TEXT NULL,
			page_id TEXT NULL,
			generated_content TEXT NOT NULL,
			ai_prompt_used TEXT NULL,
			posted_at TIMESTAMPTZ NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, ddl := range tables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure audit schema: %w", err)
		}
	}

	checks := []struct {
		table  string
		column string
		ddl    string
	}{
		{"posts_log", "external_post_id", "ALTER TABLE posts_log ADD COLUMN external_post_id TEXT"},
	}
	for _, c := range checks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
