// The connection-sweeper lambda runs on a schedule and deletes WebSocket
// connection rows whose expiry has lapsed without a $disconnect. It backs
// up the table's TTL purge, which can lag by hours.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"workhub-backend/internal/config"
	"workhub-backend/internal/di"
)

// sweepLimit caps one run's scan; the schedule picks up the rest.
const sweepLimit = 1000

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

func handler(ctx context.Context, _ events.CloudWatchEvent) error {
	removed, err := container.Connections.SweepExpired(ctx, sweepLimit)
	if err != nil {
		return err
	}
	container.Logger.Info("connection sweep complete", zap.Int("removed", removed))
	return nil
}

func main() {
	lambda.Start(handler)
}
