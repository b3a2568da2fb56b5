package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

const connectionColumns = `id, user_id, provider, oauth_user_token, oauth_refresh_token, long_lived_user_token, account_id, token_expires_at, created_at, updated_at`

const pageColumns = `id, connection_id, user_id, page_id, page_name, page_access_token, provider, page_token_expires_at, created_at, updated_at`

// ConnectionRepository reads social_connections. Rows are owned by the OAuth
// flow; this service never writes them.
type ConnectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) repository.IConnection {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id, userID string) (*model.Connection, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+connectionColumns+` FROM social_connections WHERE id = $1 AND user_id = $2`, id, userID)
	return scanConnection(row)
}

type PageRepository struct {
	db *sql.DB
}

func NewPageRepository(db *sql.DB) repository.IPage {
	return &PageRepository{db: db}
}

func (r *PageRepository) GetByID(ctx context.Context, id, userID string) (*model.Page, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM social_pages WHERE id = $1 AND user_id = $2`, id, userID)
	return scanPage(row)
}

func scanConnection(row *sql.Row) (*model.Connection, error) {
	conn := &model.Connection{}
	var refresh, longLived, accountID sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(&conn.ID, &conn.UserID, &conn.Platform, &conn.AccessToken, &refresh, &longLived, &accountID, &expiresAt, &conn.CreatedAt, &conn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	conn.RefreshToken = nullString(refresh)
	conn.LongLivedToken = nullString(longLived)
	conn.AccountID = nullString(accountID)
	conn.ExpiresAt = nullTime(expiresAt)
	return conn, nil
}

func scanPage(row *sql.Row) (*model.Page, error) {
	page := &model.Page{}
	var token, platform sql.NullString
	var expiresAt sql.NullTime
	err := row.Scan(&page.ID, &page.ConnectionID, &page.UserID, &page.ExternalPageID, &page.Name, &token, &platform, &expiresAt, &page.CreatedAt, &page.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	page.AccessToken = token.String
	page.Platform = nullString(platform)
	page.ExpiresAt = nullTime(expiresAt)
	return page, nil
}
