package persistence

import (
	"context"
	"database/sql"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

// CallRecordRepository appends rows to facebook_api_logs. It has no update or delete.
type CallRecordRepository struct {
	db *sql.DB
}

func NewCallRecordRepository(db *sql.DB) repository.ICallRecord {
	return &CallRecordRepository{db: db}
}

func (r *CallRecordRepository) Create(ctx context.Context, rec *model.CallRecord) error {
	q := `INSERT INTO facebook_api_logs (id, user_id, endpoint, method, action_type, response_code, request_body, response_body, error_message, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, q, rec.ID, stringOrNull(rec.UserID), rec.Endpoint, rec.Method, rec.ActionType, rec.ResponseCode,
		jsonText(rec.RequestBody), jsonText(rec.ResponseBody), stringOrNull(rec.ErrorMessage), rec.CreatedAt)
	return err
}
