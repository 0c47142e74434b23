//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"workhub-backend/internal/config"
)

// SuperSet lists every provider in the graph.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideManagementAPIClient,
	ProvideMetrics,
	ProvideStore,
	ProvidePublisher,
	ProvideAuthService,
	ProvideUserRepository,
	ProvideOrderRepository,
	ProvideProjectRepository,
	ProvideChatRepository,
	ProvideNotificationRepository,
	ProvideTransactionRepository,
	ProvideCalendarRepository,
	ProvideCheckRepository,
	ProvideConnectionRepository,
	ProvideRegistry,
	ProvideTransport,
	ProvideBroadcaster,
	ProvideChatService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer builds the container with wire-generated code.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
