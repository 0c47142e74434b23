// The ws-connect lambda handles the $connect route. It authenticates the
// caller with the JWT passed as the token query parameter and records the
// connection.
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"workhub-backend/internal/config"
	"workhub-backend/internal/di"
)

var container *di.Container

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

	// Browsers cannot set headers on the WebSocket handshake, so the token
	// travels as a query parameter.
	token := req.QueryStringParameters["token"]
	if token == "" {
		token = req.Headers["Authorization"]
	}

	claims, err := container.Auth.ValidateToken(token)
	if err != nil {
		container.Logger.Warn("ws connect rejected",
			zap.String("connectionId", connectionID),
			zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized, Body: "unauthorized"}, nil
	}

	if err := container.Registry.Register(ctx, connectionID, claims.UserID()); err != nil {
		container.Logger.Error("ws connect failed",
			zap.String("connectionId", connectionID),
			zap.String("userId", claims.UserID()),
			zap.Error(err))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: "registration failed"}, nil
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "connected"}, nil
}

func main() {
	lambda.Start(handler)
}
