package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// Publisher sends domain events to interested collaborators.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBridgePublisher implements Publisher on an EventBridge bus.
type EventBridgePublisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

func NewEventBridgePublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) *EventBridgePublisher {
	return &EventBridgePublisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

func (p *EventBridgePublisher) Publish(ctx context.Context, event Event) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(SourceBackend),
			DetailType:   aws.String(event.EventType()),
			Detail:       aws.String(string(detail)),
		}},
	})
	if err != nil {
		return fmt.Errorf("put event %s: %w", event.EventType(), err)
	}
	if out.FailedEntryCount > 0 {
		entry := out.Entries[0]
		return fmt.Errorf("put event %s rejected: %s", event.EventType(), aws.ToString(entry.ErrorMessage))
	}

	p.logger.Debug("event published",
		zap.String("eventType", event.EventType()),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}

// NopPublisher drops every event; used in local runs without a bus.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
