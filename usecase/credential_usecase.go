package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

type ICredentialUsecase interface {
	ResolveAccount(ctx context.Context, userID, connectionID string) (*model.AccountCredential, error)
	ResolvePage(ctx context.Context, userID, pageID string, account *model.AccountCredential) (*model.PageCredential, error)
}

type credentialUsecase struct {
	connections repository.IConnection
	pages       repository.IPage
}

func NewCredentialUsecase(connections repository.IConnection, pages repository.IPage) ICredentialUsecase {
	return &credentialUsecase{connections: connections, pages: pages}
}

// ResolveAccount returns the usable token of a connection owned by userID.
// The long-lived token wins over the primary token when both exist.
func (u *credentialUsecase) ResolveAccount(ctx context.Context, userID, connectionID string) (*model.AccountCredential, error) {
	conn, err := u.connections.GetByID(ctx, connectionID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.NewCredentialError(fmt.Sprintf("connection %s not found", connectionID), nil)
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("connection_id", connectionID).Error("connection lookup failed")
		return nil, fmt.Errorf("load connection %s: %w", connectionID, err)
	}

	token := conn.AccessToken
	if conn.LongLivedToken != nil && *conn.LongLivedToken != "" {
		token = *conn.LongLivedToken
	}
	if !usable(token, conn.ExpiresAt) {
		return nil, model.NewCredentialError(fmt.Sprintf("connection %s has no usable token", connectionID), nil)
	}

	cred := &model.AccountCredential{
		ConnectionID: conn.ID,
		Platform:     conn.Platform,
		Token:        token,
	}
	if conn.AccountID != nil {
		cred.AccountID = *conn.AccountID
	}
	return cred, nil
}

// ResolvePage returns the page token for a page that belongs to account's
// connection. It never falls back to the connection token.
func (u *credentialUsecase) ResolvePage(ctx context.Context, userID, pageID string, account *model.AccountCredential) (*model.PageCredential, error) {
	page, err := u.pages.GetByID(ctx, pageID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.NewCredentialError(fmt.Sprintf("page %s not found", pageID), nil)
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("page_id", pageID).Error("page lookup failed")
		return nil, fmt.Errorf("load page %s: %w", pageID, err)
	}

	if account != nil {
		if page.ConnectionID != account.ConnectionID {
			return nil, model.NewCredentialError(fmt.Sprintf("page %s does not belong to connection %s", pageID, account.ConnectionID), nil)
		}
		if page.Platform != nil && !feature.SameFamily(*page.Platform, account.Platform) {
			return nil, model.NewCredentialError(fmt.Sprintf("page %s is a %s page, not %s", pageID, *page.Platform, account.Platform), nil)
		}
	}
	if !usable(page.AccessToken, page.ExpiresAt) {
		return nil, model.NewCredentialError(fmt.Sprintf("page %s has no usable token", pageID), nil)
	}

	return &model.PageCredential{
		PageID:         page.ID,
		ExternalPageID: page.ExternalPageID,
		Name:           page.Name,
		Token:          page.AccessToken,
	}, nil
}

func usable(token string, expiresAt *time.Time) bool {
	t := &oauth2.Token{AccessToken: token}
	if expiresAt != nil {
		t.Expiry = *expiresAt
	}
	return t.Valid()
}
