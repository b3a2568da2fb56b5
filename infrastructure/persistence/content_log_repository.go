package persistence

import (
	"context"
	"database/sql"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

// ContentLogRepository appends published content to posts_log.
type ContentLogRepository struct {
	db *sql.DB
}

func NewContentLogRepository(db *sql.DB) repository.IContentLog {
	return &ContentLogRepository{db: db}
}

func (r *ContentLogRepository) Create(ctx context.Context, entry *model.ContentLogEntry) error {
	q := `INSERT INTO posts_log (id, page_id, campaign_id, generated_content, ai_prompt_used, external_post_id, posted_at, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.db.ExecContext(ctx, q, entry.ID, entry.PageID, stringOrNull(entry.CampaignID), entry.GeneratedContent,
		entry.AIPromptUsed, stringOrNull(entry.ExternalPostID), entry.PostedAt, entry.CreatedAt)
	return err
}
