package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
)

// callRecordRow is the gorm view of facebook_api_logs. Bodies are read as
// text so every driver scans them the same way.
type callRecordRow struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	UserID       *string `gorm:"index:idx_facebook_api_logs_user_created,priority:1"`
	Endpoint     string
	Method       string
	ActionType   string `gorm:"index"`
	ResponseCode int
	RequestBody  *string   `gorm:"type:text"`
	ResponseBody *string   `gorm:"type:text"`
	ErrorMessage *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index:idx_facebook_api_logs_user_created,priority:2"`
}

func (callRecordRow) TableName() string { return "facebook_api_logs" }

func (r callRecordRow) toModel() model.CallRecord {
	rec := model.CallRecord{
		ID:           r.ID,
		UserID:       r.UserID,
		Endpoint:     r.Endpoint,
		Method:       r.Method,
		ActionType:   r.ActionType,
		ResponseCode: r.ResponseCode,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
	}
	if r.RequestBody != nil {
		rec.RequestBody = json.RawMessage(*r.RequestBody)
	}
	if r.ResponseBody != nil {
		rec.ResponseBody = json.RawMessage(*r.ResponseBody)
	}
	return rec
}

// NewReportDB wraps an open Postgres handle in gorm for reporting queries.
func NewReportDB(db *sql.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// CallRecordReportRepository serves the API log view.
type CallRecordReportRepository struct {
	db *gorm.DB
}

func NewCallRecordReportRepository(db *gorm.DB) repository.ICallRecordReport {
	return &CallRecordReportRepository{db: db}
}

func (r *CallRecordReportRepository) List(ctx context.Context, filter model.CallRecordFilter) ([]model.CallRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&callRecordRow{})
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ActionType != "" {
		query = query.Where("action_type = ?", filter.ActionType)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []callRecordRow
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]model.CallRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, total, nil
}
