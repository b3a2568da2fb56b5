package persistence

import (
	"context"
	"database/sql"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

type CallRecordRepositoryMSSQL struct{ db *sql.DB }

func NewCallRecordRepositoryMSSQL(db *sql.DB) repository.ICallRecord {
	return &CallRecordRepositoryMSSQL{db: db}
}

func (r *CallRecordRepositoryMSSQL) Create(ctx context.Context, rec *model.CallRecord) error {
	q := `INSERT INTO dbo.[facebook_api_logs] (id, user_id, endpoint, method, action_type, response_code, request_body, response_body, error_message, created_at)
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10)`
	_, err := r.db.ExecContext(ctx, q, rec.ID, stringOrNull(rec.UserID), rec.Endpoint, rec.Method, rec.ActionType, rec.ResponseCode,
		jsonText(rec.RequestBody), jsonText(rec.ResponseBody), stringOrNull(rec.ErrorMessage), rec.CreatedAt)
	return err
}
