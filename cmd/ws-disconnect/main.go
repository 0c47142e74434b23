// The ws-disconnect lambda handles the $disconnect route and removes the
// connection row. Disconnects for unknown connections are fine; API
// Gateway can fire the route after the row has already been reaped.
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

	if err := container.Registry.Unregister(ctx, connectionID); err != nil {
		// Log and return success anyway; the socket is gone either way.
		container.Logger.Error("ws disconnect cleanup failed",
			zap.String("connectionId", connectionID),
			zap.Error(err))
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "disconnected"}, nil
}

func main() {
	lambda.Start(handler)
}
