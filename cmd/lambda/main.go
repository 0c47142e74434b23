// The lambda binary serves the REST surface behind API Gateway using the
// chi adapter. The container is built once per cold start.
package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"workhub-backend/interfaces/http/rest"
	"workhub-backend/internal/config"
	"workhub-backend/internal/di"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
	coldStart = time.Now()
)

func init() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	container, err = di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		cfg,
		container.Users,
		container.Orders,
		container.Projects,
		container.Rooms,
		container.Notifications,
		container.Transactions,
		container.Calendar,
		container.Checks,
		container.ChatService,
		container.Registry,
		container.Auth,
		container.Metrics,
		container.Logger,
	)

	chiRouter, ok := router.Setup().(*chi.Mux)
	if !ok {
		log.Fatal("router is not a chi.Mux")
	}
	chiLambda = chiadapter.NewV2(chiRouter)

	container.Logger.Info("lambda cold start complete",
		zap.Duration("duration", time.Since(coldStart)))
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(handler)
}
