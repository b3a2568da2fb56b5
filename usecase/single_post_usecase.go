package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cjodon01/autoauthadmin/domain/dto"
	"github.com/cjodon01/autoauthadmin/domain/feature"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/clients/social"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
	"github.com/cjodon01/autoauthadmin/infrastructure/utils"
)

const (
	pageNotFoundMessage    = "Facebook page not found or access denied"
	postPublishedMessage   = "Post published successfully"
	postFailedFallbackText = "Failed to publish post"

	ledgerWriteTimeout = 5 * time.Second
)

// ISinglePostUsecase publishes one piece of text to one Facebook page and
// does not return until the attempt is durably recorded.
type ISinglePostUsecase interface {
	Publish(ctx context.Context, principal model.Principal, req dto.SinglePostRequest) (*dto.SinglePostResponse, error)
}

type singlePostUsecase struct {
	pages      repository.IPage
	graph      repository.IPlatformAdapter
	audit      IAuditUsecase
	contentLog repository.IContentLog
}

func NewSinglePostUsecase(pages repository.IPage, graph repository.IPlatformAdapter, audit IAuditUsecase, contentLog repository.IContentLog) ISinglePostUsecase {
	return &singlePostUsecase{pages: pages, graph: graph, audit: audit, contentLog: contentLog}
}

func (u *singlePostUsecase) Publish(ctx context.Context, principal model.Principal, req dto.SinglePostRequest) (*dto.SinglePostResponse, error) {
	lg := logger.GetLogger().WithFields(logrus.Fields{
		"requestId": uuid.New().String(),
		"user_id":   principal.UserID,
		"page_id":   req.PageID,
	})

	pageID := strings.TrimSpace(req.PageID)
	if principal.UserID == "" {
		return nil, model.NewValidationError("missing authenticated user")
	}
	if pageID == "" || strings.TrimSpace(req.Content) == "" {
		return nil, model.NewValidationError("pageId and content are required")
	}

	page, err := u.facebookPage(ctx, principal.UserID, pageID)
	if err != nil {
		lg.WithField("error", err).Warn("single post rejected")
		return nil, err
	}

	call := model.AdapterCall{
		Platform: string(feature.Facebook),
		Feature:  string(feature.PostToPage),
		Account:  model.AccountCredential{ConnectionID: page.ConnectionID, Platform: string(feature.Facebook)},
		Page: &model.PageCredential{
			PageID:         page.ID,
			ExternalPageID: page.ExternalPageID,
			Name:           page.Name,
			Token:          page.AccessToken,
		},
		Content: req.Content,
	}
	res, callErr := u.graph.Execute(ctx, call)
	if res == nil && callErr == nil {
		callErr = model.NewUpstreamError("platform adapter returned no result", nil)
	}

	desc, _ := feature.Describe(feature.Facebook, feature.PostToPage)
	rec := buildCallRecord(principal, model.ActionTypePostCreation, desc, call, res, callErr)
	if err := u.audit.Record(ctx, rec); err != nil {
		lg.WithField("error", err).Error("single post attempt could not be recorded")
		return nil, err
	}

	if callErr != nil {
		lg.WithField("error", callErr).Warn("single post failed")
		return nil, callErr
	}
	if !res.OK() {
		msg := res.ErrorMessage
		if msg == "" {
			msg = postFailedFallbackText
		}
		lg.WithField("status", res.StatusCode).WithField("error", msg).Warn("single post rejected by platform")
		return nil, model.NewRejectedError(res.StatusCode, msg)
	}

	postID := social.CreatedPostID(res.Response)
	u.ledger(ctx, lg, page, req.Content, postID)
	lg.WithField("post_id", postID).Info("single post published")

	return &dto.SinglePostResponse{Success: true, PostID: postID, Message: postPublishedMessage}, nil
}

func (u *singlePostUsecase) facebookPage(ctx context.Context, userID, pageID string) (*model.Page, error) {
	page, err := u.pages.GetByID(ctx, pageID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.NewCredentialError(pageNotFoundMessage, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", pageID, err)
	}
	if page.Platform == nil || feature.Platform(strings.ToLower(*page.Platform)) != feature.Facebook {
		return nil, model.NewCredentialError(pageNotFoundMessage, nil)
	}
	if !usable(page.AccessToken, page.ExpiresAt) {
		return nil, model.NewCredentialError(fmt.Sprintf("page %s has no usable token", pageID), nil)
	}
	return page, nil
}

// ledger records published content. The call record is already durable at
// this point, so a ledger failure is logged rather than returned. The write
// ignores the caller's cancellation.
func (u *singlePostUsecase) ledger(ctx context.Context, lg *logrus.Entry, page *model.Page, content, postID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	defer cancel()

	now := utils.GetCurrentTime()
	entry := &model.ContentLogEntry{
		ID:               uuid.New().String(),
		PageID:           page.ID,
		GeneratedContent: content,
		AIPromptUsed:     model.ManualPostPrompt,
		PostedAt:         &now,
		CreatedAt:        now,
	}
	if postID != "" {
		entry.ExternalPostID = &postID
	}
	if err := u.contentLog.Create(ctx, entry); err != nil {
		lg.WithField("error", err).WithField("entry_id", entry.ID).Error("content ledger write failed")
	}
}
