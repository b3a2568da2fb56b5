package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

const DefaultAuditBacklogKey = "autoauthadmin:audit:backlog"

// AuditBacklog parks call records that could not be written to the store.
// Records are kept in a Redis list in FIFO order.
type AuditBacklog struct {
	client redis.Cmdable
	key    string
}

func NewAuditBacklog(client redis.Cmdable, key string) repository.IAuditBacklog {
	if key == "" {
		key = DefaultAuditBacklogKey
	}
	return &AuditBacklog{client: client, key: key}
}

func (b *AuditBacklog) Push(ctx context.Context, rec *model.CallRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.client.RPush(ctx, b.key, data).Err()
}

// Pop removes up to max records from the head of the backlog. Entries that
// no longer decode are dropped with an error log.
func (b *AuditBacklog) Pop(ctx context.Context, max int) ([]model.CallRecord, error) {
	if max <= 0 {
		return nil, nil
	}
	raw, err := b.client.LPopCount(ctx, b.key, max).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.CallRecord, 0, len(raw))
	for _, item := range raw {
		var rec model.CallRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			logger.GetLogger().WithField("error", err).WithField("key", b.key).Error("dropping undecodable audit backlog entry")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Requeue returns records to the head of the backlog so the next Pop sees
// them first, in the order given. LPUSH prepends each argument in turn, so
// they are sent last to first.
func (b *AuditBacklog) Requeue(ctx context.Context, recs []model.CallRecord) error {
	if len(recs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		data, err := json.Marshal(&recs[i])
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	return b.client.LPush(ctx, b.key, values...).Err()
}

func (b *AuditBacklog) Len(ctx context.Context) (int64, error) {
	return b.client.LLen(ctx, b.key).Result()
}
