// The ws-send-message lambda consumes chat.message.sent events from
// EventBridge and fans the message out to the recipients' live WebSocket
// connections. Delivery is best effort; offline recipients catch up from
// the room history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"workhub-backend/internal/config"
	"workhub-backend/internal/di"
	"workhub-backend/internal/events"
)

var container *di.Container

// clientFrame is the shape pushed to connected clients.
type clientFrame struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	MessageID string `json:"messageId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	SentAt    string `json:"sentAt"`
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	container, err = di.NewContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
}

func handler(ctx context.Context, event awsevents.CloudWatchEvent) error {
	if event.DetailType != (events.MessageSent{}).EventType() {
		container.Logger.Debug("ignoring event",
			zap.String("detailType", event.DetailType))
		return nil
	}

	var sent events.MessageSent
	if err := json.Unmarshal(event.Detail, &sent); err != nil {
		return fmt.Errorf("unmarshal %s detail: %w", event.DetailType, err)
	}

	payload, err := json.Marshal(clientFrame{
		Type:      "new_message",
		RoomID:    sent.RoomID,
		MessageID: sent.MessageID,
		SenderID:  sent.SenderID,
		Content:   sent.Content,
		SentAt:    sent.SentAt,
	})
	if err != nil {
		return err
	}

	return container.Broadcaster.Broadcast(ctx, sent.Recipients, payload)
}

func main() {
	lambda.Start(handler)
}
