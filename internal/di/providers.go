// Package di wires the application graph. Container assembly is kept in
// one place so every entrypoint (HTTP server, lambdas) builds the same
// stack.
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"workhub-backend/internal/config"
	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/service/chat"
	"workhub-backend/internal/store"
	"workhub-backend/internal/ws"
	"workhub-backend/pkg/auth"
	"workhub-backend/pkg/observability"
)

func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Environment == config.Production {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Database.Region),
	)
}

func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.Database.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Database.Endpoint)
		}
	})
}

func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

func ProvideManagementAPIClient(awsCfg aws.Config, cfg *config.Config) *apigatewaymanagementapi.Client {
	return apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		if cfg.WebSocket.ManagementEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.WebSocket.ManagementEndpoint)
		}
	})
}

func ProvideMetrics() *observability.Metrics {
	return observability.NewMetrics()
}

func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) store.Store {
	return store.NewDynamoStore(client, cfg.Database.TableName, logger, metrics)
}

func ProvidePublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) events.Publisher {
	return events.NewEventBridgePublisher(client, cfg.Events.BusName, logger)
}

func ProvideAuthService(cfg *config.Config) (*auth.Service, error) {
	return auth.NewService(auth.Config{
		Secret: cfg.Security.JWTSecret,
		Issuer: "workhub-backend",
		Expiry: cfg.Security.JWTExpiry,
	})
}

func ProvideUserRepository(s store.Store, logger *zap.Logger) *repository.UserRepository {
	return repository.NewUserRepository(s, logger)
}

func ProvideOrderRepository(s store.Store, logger *zap.Logger) *repository.OrderRepository {
	return repository.NewOrderRepository(s, logger)
}

func ProvideProjectRepository(s store.Store, logger *zap.Logger) *repository.ProjectRepository {
	return repository.NewProjectRepository(s, logger)
}

func ProvideChatRepository(s store.Store, logger *zap.Logger) *repository.ChatRepository {
	return repository.NewChatRepository(s, logger)
}

func ProvideNotificationRepository(s store.Store, logger *zap.Logger) *repository.NotificationRepository {
	return repository.NewNotificationRepository(s, logger)
}

func ProvideTransactionRepository(s store.Store, logger *zap.Logger) *repository.TransactionRepository {
	return repository.NewTransactionRepository(s, logger)
}

func ProvideCalendarRepository(s store.Store, logger *zap.Logger) *repository.CalendarRepository {
	return repository.NewCalendarRepository(s, logger)
}

func ProvideCheckRepository(s store.Store, logger *zap.Logger) *repository.CheckRepository {
	return repository.NewCheckRepository(s, logger)
}

func ProvideConnectionRepository(s store.Store, logger *zap.Logger) *repository.ConnectionRepository {
	return repository.NewConnectionRepository(s, logger)
}

func ProvideRegistry(connections *repository.ConnectionRepository, publisher events.Publisher, logger *zap.Logger) *ws.Registry {
	return ws.NewRegistry(connections, publisher, logger)
}

func ProvideTransport(client *apigatewaymanagementapi.Client) ws.Transport {
	return ws.NewAPIGatewayTransport(client)
}

func ProvideBroadcaster(registry *ws.Registry, transport ws.Transport, logger *zap.Logger, metrics *observability.Metrics) *ws.Broadcaster {
	return ws.NewBroadcaster(registry, transport, logger, metrics)
}

func ProvideChatService(rooms *repository.ChatRepository, publisher events.Publisher, logger *zap.Logger) *chat.Service {
	return chat.NewService(rooms, publisher, logger)
}
