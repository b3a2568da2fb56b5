package persistence

import (
	"context"
	"database/sql"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

// ConnectionRepositoryMSSQL reads social_connections on SQL Server/Azure SQL.
type ConnectionRepositoryMSSQL struct{ db *sql.DB }

func NewConnectionRepositoryMSSQL(db *sql.DB) repository.IConnection {
	return &ConnectionRepositoryMSSQL{db: db}
}

func (r *ConnectionRepositoryMSSQL) GetByID(ctx context.Context, id, userID string) (*model.Connection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT TOP (1) `+connectionColumns+` FROM dbo.[social_connections] WHERE id = @p1 AND user_id = @p2`, id, userID)
	return scanConnection(row)
}

// PageRepositoryMSSQL reads social_pages on SQL Server/Azure SQL.
type PageRepositoryMSSQL struct{ db *sql.DB }

func NewPageRepositoryMSSQL(db *sql.DB) repository.IPage {
	return &PageRepositoryMSSQL{db: db}
}

func (r *PageRepositoryMSSQL) GetByID(ctx context.Context, id, userID string) (*model.Page, error) {
	row := r.db.QueryRowContext(ctx, `SELECT TOP (1) `+pageColumns+` FROM dbo.[social_pages] WHERE id = @p1 AND user_id = @p2`, id, userID)
	return scanPage(row)
}
