package persistence

import (
	"context"
	"database/sql"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

type ContentLogRepositoryMSSQL struct{ db *sql.DB }

func NewContentLogRepositoryMSSQL(db *sql.DB) repository.IContentLog {
	return &ContentLogRepositoryMSSQL{db: db}
}

func (r *ContentLogRepositoryMSSQL) Create(ctx context.Context, entry *model.ContentLogEntry) error {
	q := `INSERT INTO dbo.[posts_log] (id, page_id, campaign_id, generated_content, ai_prompt_used, external_post_id, posted_at, created_at)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`
	_, err := r.db.ExecContext(ctx, q, entry.ID, entry.PageID, stringOrNull(entry.CampaignID), entry.GeneratedContent,
		entry.AIPromptUsed, stringOrNull(entry.ExternalPostID), entry.PostedAt, entry.CreatedAt)
	return err
}
