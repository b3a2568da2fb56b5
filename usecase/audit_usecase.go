package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
	"github.com/cjodon01/autoauthadmin/infrastructure/metrics"
	"github.com/cjodon01/autoauthadmin/infrastructure/utils"
)

// IAuditUsecase writes call records. RecordAsync is the best-effort path used
// by the dispatcher; Record must succeed (or park the row) before returning.
type IAuditUsecase interface {
	RecordAsync(ctx context.Context, rec *model.CallRecord)
	Record(ctx context.Context, rec *model.CallRecord) error
	ReplayBacklog(ctx context.Context, batch int) (int, error)
	Wait()
}

type AuditOptions struct {
	Retries      int
	RetryDelay   time.Duration
	WriteTimeout time.Duration
}

func DefaultAuditOptions() AuditOptions {
	return AuditOptions{Retries: 3, RetryDelay: 200 * time.Millisecond, WriteTimeout: 5 * time.Second}
}

type auditUsecase struct {
	records   repository.ICallRecord
	backlog   repository.IAuditBacklog
	publisher repository.IEventPublisher
	metrics   metrics.IRecorder
	opts      AuditOptions
	inflight  sync.WaitGroup
}

// NewAuditUsecase wires the audit writer. backlog and publisher may be nil.
func NewAuditUsecase(
	records repository.ICallRecord,
	backlog repository.IAuditBacklog,
	publisher repository.IEventPublisher,
	recorder metrics.IRecorder,
	opts AuditOptions,
) IAuditUsecase {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultAuditOptions().WriteTimeout
	}
	return &auditUsecase{records: records, backlog: backlog, publisher: publisher, metrics: recorder, opts: opts}
}

func (u *auditUsecase) RecordAsync(ctx context.Context, rec *model.CallRecord) {
	stamp(rec)
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.WriteTimeout)
		defer cancel()

		if err := u.records.Create(writeCtx, rec); err != nil {
			u.metrics.AuditFailure("persist_async")
			logger.GetLogger().WithField("error", err).WithField("record_id", rec.ID).Warn("async call record write failed")
			u.park(writeCtx, rec)
			return
		}
		u.persisted(writeCtx, rec)
	}()
}

// Record writes rec before returning. Writes and retries ignore the caller's
// cancellation.
func (u *auditUsecase) Record(ctx context.Context, rec *model.CallRecord) error {
	stamp(rec)
	detached := context.WithoutCancel(ctx)
	var err error
	for attempt := 1; attempt <= u.opts.Retries; attempt++ {
		writeCtx, cancel := context.WithTimeout(detached, u.opts.WriteTimeout)
		err = u.records.Create(writeCtx, rec)
		cancel()
		if err == nil {
			u.persisted(detached, rec)
			return nil
		}
		u.metrics.AuditFailure("persist")
		logger.GetLogger().WithField("error", err).WithField("attempt", attempt).WithField("record_id", rec.ID).Warn("call record write failed")
		if attempt < u.opts.Retries {
			time.Sleep(u.opts.RetryDelay)
		}
	}

	if u.park(detached, rec) {
		return nil
	}
	return model.NewAuditError("call record could not be persisted", err)
}

// ReplayBacklog moves parked records into the store. Records that still fail
// go back to the head of the backlog in their original order and stop the pass.
func (u *auditUsecase) ReplayBacklog(ctx context.Context, batch int) (int, error) {
	if u.backlog == nil {
		return 0, nil
	}
	recs, err := u.backlog.Pop(ctx, batch)
	if err != nil {
		return 0, err
	}
	for i := range recs {
		rec := recs[i]
		if err := u.records.Create(ctx, &rec); err != nil {
			rest := recs[i:]
			if requeueErr := u.backlog.Requeue(context.WithoutCancel(ctx), rest); requeueErr != nil {
				for _, lost := range rest {
					logger.GetLogger().WithField("error", requeueErr).WithField("record_id", lost.ID).Error("call record lost while re-parking")
				}
			}
			return i, err
		}
		u.persisted(ctx, &rec)
	}
	if len(recs) > 0 {
		logger.GetLogger().WithField("count", len(recs)).Info("replayed parked call records")
	}
	return len(recs), nil
}

func (u *auditUsecase) Wait() {
	u.inflight.Wait()
}

func (u *auditUsecase) park(ctx context.Context, rec *model.CallRecord) bool {
	if u.backlog == nil {
		logger.GetLogger().WithField("record_id", rec.ID).Error("call record dropped: no backlog configured")
		return false
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.opts.WriteTimeout)
	defer cancel()
	if err := u.backlog.Push(pushCtx, rec); err != nil {
		u.metrics.AuditFailure("backlog")
		logger.GetLogger().WithField("error", err).WithField("record_id", rec.ID).Error("call record could not be parked")
		return false
	}
	logger.GetLogger().WithField("record_id", rec.ID).Info("call record parked for replay")
	return true
}

func (u *auditUsecase) persisted(ctx context.Context, rec *model.CallRecord) {
	u.metrics.CallRecorded(rec.ActionType, rec.ResponseCode)
	if u.publisher == nil {
		return
	}
	if err := u.publisher.PublishCallRecorded(ctx, rec); err != nil {
		logger.GetLogger().WithField("error", err).WithField("record_id", rec.ID).Warn("call recorded event not published")
	}
}

func stamp(rec *model.CallRecord) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = utils.GetCurrentTime()
	}
}
