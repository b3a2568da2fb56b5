package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureAuditSchemaMSSQL is EnsureAuditSchema for SQL Server/Azure SQL.
func EnsureAuditSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	createIfMissing := func(table, ddl string) error {
		q := fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.%s') AND type = N'U') BEGIN %s END`, table, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
		return nil
	}
	addIfMissing := func(table, column, ddl string) error {
		q := fmt.Sprintf(`IF COL_LENGTH('%s', '%s') IS NULL BEGIN %s END`, table, column, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", table, column, err)
		}
		return nil
	}

	if err := createIfMissing("facebook_api_logs", `CREATE TABLE dbo.[facebook_api_logs] (
  id NVARCHAR(36) NOT NULL PRIMARY KEY,
  user_id NVARCHAR(64) NULL,
  endpoint NVARCHAR(2048) NOT NULL,
  method NVARCHAR(10) NOT NULL,
  action_type NVARCHAR(100) NOT NULL,
  response_code INT NOT NULL,
  request_body NVARCHAR(MAX) NULL,
  response_body NVARCHAR(MAX) NULL,
  error_message NVARCHAR(MAX) NULL,
  created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
)`); err != nil {
		return err
	}
	if err := createIfMissing("posts_log", `CREATE TABLE dbo.[posts_log] (
  id NVARCHAR(36) NOT NULL PRIMARY KEY,
  campaign_id NVARCHAR(64) NULL,
  page_id NVARCHAR(64) NULL,
  generated_content NVARCHAR(MAX) NOT NULL,
  ai_prompt_used NVARCHAR(MAX) NULL,
  posted_at DATETIME2 NULL,
  created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
)`); err != nil {
		return err
	}
	return addIfMissing("dbo.posts_log", "external_post_id", "ALTER TABLE dbo.[posts_log] ADD external_post_id NVARCHAR(255) NULL")
}
