package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

func TestCallRecordRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userID := "user-1"
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := &model.CallRecord{
		ID:           "rec-1",
		UserID:       &userID,
		Endpoint:     "https://graph.facebook.com/v18.0/p1/feed",
		Method:       "POST",
		ActionType:   "api_test_post_to_page",
		ResponseCode: 200,
		RequestBody:  json.RawMessage(`{"message":"Hello <b>"}`),
		ResponseBody: json.RawMessage(`{"id":"p1_1"}`),
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO facebook_api_logs`)).
		WithArgs("rec-1", sql.NullString{String: "user-1", Valid: true}, rec.Endpoint, "POST", "api_test_post_to_page", 200,
			sql.NullString{String: `{"message":"Hello <b>"}`, Valid: true}, sql.NullString{String: `{"id":"p1_1"}`, Valid: true},
			sql.NullString{}, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewCallRecordRepository(db).Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallRecordRepositoryMSSQL_CreateSentinel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	msg := "platform request failed: dial tcp: i/o timeout"
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := &model.CallRecord{ID: "rec-2", Endpoint: "linkedin/list_posts", Method: "GET", ActionType: "api_test_list_posts", ErrorMessage: &msg, CreatedAt: createdAt}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO dbo.[facebook_api_logs]`)).
		WithArgs("rec-2", sql.NullString{}, "linkedin/list_posts", "GET", "api_test_list_posts", model.StatusNoResponse,
			sql.NullString{}, sql.NullString{}, sql.NullString{String: msg, Valid: true}, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewCallRecordRepositoryMSSQL(db).Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentLogRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	postID := "p1_1"
	entry := &model.ContentLogEntry{
		ID: "log-1", PageID: "p1", GeneratedContent: "Hello", AIPromptUsed: model.ManualPostPrompt,
		ExternalPostID: &postID, PostedAt: &now, CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO posts_log`)).
		WithArgs("log-1", "p1", sql.NullString{}, "Hello", "Manual admin post trigger", sql.NullString{String: postID, Valid: true}, &now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewContentLogRepository(db).Create(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAuditSchema_AddsMissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS facebook_api_logs`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE INDEX IF NOT EXISTS idx_facebook_api_logs_user_created`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS posts_log`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM information_schema.columns`)).
		WithArgs("posts_log", "external_post_id").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE posts_log ADD COLUMN external_post_id TEXT`)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureAuditSchema(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
