package repository

import (
	"context"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

// ICallRecord appends audit rows. There is no update or delete.
type ICallRecord interface {
	Create(ctx context.Context, rec *model.CallRecord) error
}

// ICallRecordReport serves the admin API log view.
type ICallRecordReport interface {
	List(ctx context.Context, filter model.CallRecordFilter) ([]model.CallRecord, int64, error)
}

// IContentLog appends published content to the ledger.
type IContentLog interface {
	Create(ctx context.Context, entry *model.ContentLogEntry) error
}

// IAuditBacklog parks audit rows whose write failed so they can be replayed later.
type IAuditBacklog interface {
	Push(ctx context.Context, rec *model.CallRecord) error
	Pop(ctx context.Context, max int) ([]model.CallRecord, error)
	// Requeue puts popped records back at the head, keeping their order.
	Requeue(ctx context.Context, recs []model.CallRecord) error
	Len(ctx context.Context) (int64, error)
}

// IEventPublisher announces persisted call records to downstream consumers.
type IEventPublisher interface {
	PublishCallRecorded(ctx context.Context, rec *model.CallRecord) error
}
