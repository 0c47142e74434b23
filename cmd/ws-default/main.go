// The ws-default lambda handles the $default route: pings that keep the
// connection's expiry fresh, and chat messages sent over the socket.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"workhub-backend/internal/config"
	"workhub-backend/internal/di"
	"workhub-backend/internal/repository"
)

var container *di.Container

type inboundFrame struct {
	Action  string `json:"action"`
	RoomID  string `json:"roomId,omitempty"`
	Content string `json:"content,omitempty"`
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

func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := req.RequestContext.ConnectionID

	var frame inboundFrame
	if err := json.Unmarshal([]byte(req.Body), &frame); err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "malformed frame"}, nil
	}

	// Every inbound frame proves liveness.
	if err := container.Registry.Touch(ctx, connectionID); err != nil && !repository.IsNotFound(err) {
		container.Logger.Warn("connection touch failed",
			zap.String("connectionId", connectionID),
			zap.Error(err))
	}

	switch frame.Action {
	case "ping":
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: `{"type":"pong"}`}, nil

	case "send_message":
		conn, err := container.Connections.FindByID(ctx, connectionID)
		if err != nil {
			return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized, Body: "unknown connection"}, nil
		}
		msg, err := container.ChatService.SendMessage(ctx, frame.RoomID, conn.UserID, frame.Content)
		if err != nil {
			container.Logger.Warn("ws send_message failed",
				zap.String("connectionId", connectionID),
				zap.String("roomId", frame.RoomID),
				zap.Error(err))
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "send failed"}, nil
		}
		body, _ := json.Marshal(map[string]string{"type": "message_sent", "messageId": msg.ID})
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: string(body)}, nil

	default:
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest, Body: "unknown action"}, nil
	}
}

func main() {
	lambda.Start(handler)
}
