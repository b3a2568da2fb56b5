package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

const subjectCallRecorded = "CallRecorded"

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

// CallRecordSender publishes CallRecorded events to a Service Bus queue.
type CallRecordSender struct {
	sender messageSender
	queue  string
}

func NewCallRecordSender(client *azservicebus.Client, queue string) (*CallRecordSender, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while making new sender service bus.")
		return nil, err
	}
	return &CallRecordSender{sender: sender, queue: queue}, nil
}

var _ repository.IEventPublisher = (*CallRecordSender)(nil)

func (s *CallRecordSender) PublishCallRecorded(ctx context.Context, rec *model.CallRecord) error {
	body, err := json.Marshal(model.NewCallRecordedEvent(rec))
	if err != nil {
		return err
	}
	msg := &azservicebus.Message{
		Body:        body,
		ContentType: to.Ptr("application/json"),
		Subject:     to.Ptr(subjectCallRecorded),
		MessageID:   to.Ptr(rec.ID),
		ApplicationProperties: map[string]any{
			"action_type":   rec.ActionType,
			"response_code": rec.ResponseCode,
		},
	}
	if err := s.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).WithField("queue", s.queue).Error("Error while sending message.")
		return err
	}
	return nil
}

func (s *CallRecordSender) Close(ctx context.Context) error {
	return s.sender.Close(ctx)
}
