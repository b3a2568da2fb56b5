package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

type CallRecordReportRepositoryMSSQL struct{ db *sql.DB }

func NewCallRecordReportRepositoryMSSQL(db *sql.DB) repository.ICallRecordReport {
	return &CallRecordReportRepositoryMSSQL{db: db}
}

func (r *CallRecordReportRepositoryMSSQL) List(ctx context.Context, filter model.CallRecordFilter) ([]model.CallRecord, int64, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.UserID != "" {
		args = append(args, sql.Named("user_id", filter.UserID))
		where = append(where, "user_id = @user_id")
	}
	if filter.ActionType != "" {
		args = append(args, sql.Named("action_type", filter.ActionType))
		where = append(where, "action_type = @action_type")
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT_BIG(*) FROM dbo.[facebook_api_logs] WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]interface{}{}, args...), sql.Named("offset", filter.Offset), sql.Named("limit", filter.Limit))
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, endpoint, method, action_type, response_code, request_body, response_body, error_message, created_at
FROM dbo.[facebook_api_logs]
WHERE `+cond+`
ORDER BY created_at DESC
OFFSET @offset ROWS FETCH NEXT @limit ROWS ONLY`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []model.CallRecord
	for rows.Next() {
		var rec model.CallRecord
		var userID, reqBody, respBody, errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &userID, &rec.Endpoint, &rec.Method, &rec.ActionType, &rec.ResponseCode, &reqBody, &respBody, &errMsg, &rec.CreatedAt); err != nil {
			return nil, 0, err
		}
		rec.UserID = nullString(userID)
		rec.ErrorMessage = nullString(errMsg)
		if reqBody.Valid {
			rec.RequestBody = json.RawMessage(reqBody.String)
		}
		if respBody.Valid {
			rec.ResponseBody = json.RawMessage(respBody.String)
		}
		list = append(list, rec)
	}
	return list, total, rows.Err()
}
