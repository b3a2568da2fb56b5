package persistence

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

var callRecordReportColumns = []string{
	"id", "user_id", "endpoint", "method", "action_type", "response_code",
	"request_body", "response_body", "error_message", "created_at",
}

func TestCallRecordReportRepositoryMSSQL_ListFiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT_BIG(*) FROM dbo.[facebook_api_logs] WHERE 1=1 AND user_id = @user_id AND action_type = @action_type`)).
		WithArgs(sql.Named("user_id", "user-1"), sql.Named("action_type", "post_creation")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE 1=1 AND user_id = @user_id AND action_type = @action_type
ORDER BY created_at DESC
OFFSET @offset ROWS FETCH NEXT @limit ROWS ONLY`)).
		WithArgs(sql.Named("user_id", "user-1"), sql.Named("action_type", "post_creation"), sql.Named("offset", 10), sql.Named("limit", 2)).
		WillReturnRows(sqlmock.NewRows(callRecordReportColumns).
			AddRow("r2", "user-1", "https://graph.facebook.com/v18.0/p1/feed", "POST", "post_creation", 200,
				`{"message":"hi"}`, `{"id":"p1_2"}`, nil, createdAt).
			AddRow("r1", nil, "https://graph.facebook.com/v18.0/p1/feed", "POST", "post_creation", 0,
				nil, nil, "platform request failed", createdAt.Add(-time.Minute)))

	recs, total, err := NewCallRecordReportRepositoryMSSQL(db).List(context.Background(), model.CallRecordFilter{
		UserID: "user-1", ActionType: "post_creation", Limit: 2, Offset: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, recs, 2)

	assert.Equal(t, "r2", recs[0].ID)
	require.NotNil(t, recs[0].UserID)
	assert.Equal(t, "user-1", *recs[0].UserID)
	assert.JSONEq(t, `{"message":"hi"}`, string(recs[0].RequestBody))
	assert.JSONEq(t, `{"id":"p1_2"}`, string(recs[0].ResponseBody))
	assert.Nil(t, recs[0].ErrorMessage)

	assert.Nil(t, recs[1].UserID)
	assert.Nil(t, recs[1].RequestBody)
	assert.Nil(t, recs[1].ResponseBody)
	require.NotNil(t, recs[1].ErrorMessage)
	assert.Equal(t, "platform request failed", *recs[1].ErrorMessage)
	assert.Equal(t, model.StatusNoResponse, recs[1].ResponseCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallRecordReportRepositoryMSSQL_ListUnfiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT_BIG(*) FROM dbo.[facebook_api_logs] WHERE 1=1`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`OFFSET @offset ROWS FETCH NEXT @limit ROWS ONLY`)).
		WithArgs(sql.Named("offset", 0), sql.Named("limit", 50)).
		WillReturnRows(sqlmock.NewRows(callRecordReportColumns))

	recs, total, err := NewCallRecordReportRepositoryMSSQL(db).List(context.Background(), model.CallRecordFilter{Limit: 50})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, recs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallRecordReportRepositoryMSSQL_CountError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT_BIG(*)`)).WillReturnError(errors.New("login failed"))

	_, _, err = NewCallRecordReportRepositoryMSSQL(db).List(context.Background(), model.CallRecordFilter{UserID: "user-1", Limit: 10})

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
