package pubsub

import (
	"context"
	"encoding/json"
	"strconv"

	"cloud.google.com/go/pubsub"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

const EventCallRecorded = "CallRecorded"

type CallRecordPublisher struct {
	topic *pubsub.Topic
}

// NewCallRecordPublisher resolves the topic, creating it if it doesn't exist.
func NewCallRecordPublisher(ctx context.Context, client *pubsub.Client, topicID string) (repository.IEventPublisher, error) {
	topic := client.Topic(topicID)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicID).Info("Topic doesn't exist - creating it")
		if topic, err = client.CreateTopic(ctx, topicID); err != nil {
			return nil, err
		}
	}
	return &CallRecordPublisher{topic: topic}, nil
}

func (p *CallRecordPublisher) PublishCallRecorded(ctx context.Context, rec *model.CallRecord) error {
	payload, err := json.Marshal(model.NewCallRecordedEvent(rec))
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event":         EventCallRecorded,
			"action_type":   rec.ActionType,
			"response_code": strconv.Itoa(rec.ResponseCode),
		},
	}

	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).WithField("record_id", rec.ID).Debug("Message published")
	return nil
}

// Stop flushes pending messages.
func (p *CallRecordPublisher) Stop() {
	p.topic.Stop()
}
