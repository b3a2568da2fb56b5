package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) GetByID(ctx context.Context, id, userID string) (*model.Connection, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) GetByID(ctx context.Context, id, userID string) (*model.Page, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page), args.Error(1)
}

// MockCallRecordRepository keeps every created record so tests can inspect them.
type MockCallRecordRepository struct {
	mock.Mock
	mu      sync.Mutex
	created []model.CallRecord
}

func (m *MockCallRecordRepository) Create(ctx context.Context, rec *model.CallRecord) error {
	args := m.Called(ctx, rec)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.created = append(m.created, *rec)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockCallRecordRepository) Created() []model.CallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CallRecord(nil), m.created...)
}

type MockContentLogRepository struct {
	mock.Mock
}

func (m *MockContentLogRepository) Create(ctx context.Context, entry *model.ContentLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockAuditBacklog struct {
	mock.Mock
}

func (m *MockAuditBacklog) Push(ctx context.Context, rec *model.CallRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuditBacklog) Pop(ctx context.Context, max int) ([]model.CallRecord, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CallRecord), args.Error(1)
}

func (m *MockAuditBacklog) Requeue(ctx context.Context, recs []model.CallRecord) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}

func (m *MockAuditBacklog) Len(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCallRecorded(ctx context.Context, rec *model.CallRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type MockPlatformAdapter struct {
	mock.Mock
}

func (m *MockPlatformAdapter) Execute(ctx context.Context, call model.AdapterCall) (*model.CallResult, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CallResult), args.Error(1)
}

type MockCallRecordReport struct {
	mock.Mock
}

func (m *MockCallRecordReport) List(ctx context.Context, filter model.CallRecordFilter) ([]model.CallRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.CallRecord), args.Get(1).(int64), args.Error(2)
}

func strPtr(s string) *string { return &s }
