package di

import (
	"context"

	"go.uber.org/zap"

	"workhub-backend/internal/config"
	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/service/chat"
	"workhub-backend/internal/store"
	"workhub-backend/internal/ws"
	"workhub-backend/pkg/auth"
	"workhub-backend/pkg/observability"
)

// Container holds the fully wired application.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Store     store.Store
	Publisher events.Publisher
	Metrics   *observability.Metrics
	Auth      *auth.Service

	Users         *repository.UserRepository
	Orders        *repository.OrderRepository
	Projects      *repository.ProjectRepository
	Rooms         *repository.ChatRepository
	Notifications *repository.NotificationRepository
	Transactions  *repository.TransactionRepository
	Calendar      *repository.CalendarRepository
	Checks        *repository.CheckRepository
	Connections   *repository.ConnectionRepository

	Registry    *ws.Registry
	Broadcaster *ws.Broadcaster
	ChatService *chat.Service
}

// NewContainer assembles the production graph against real AWS clients.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authSvc, err := ProvideAuthService(cfg)
	if err != nil {
		return nil, err
	}

	metrics := ProvideMetrics()
	st := ProvideStore(ProvideDynamoDBClient(awsCfg, cfg), cfg, logger, metrics)
	publisher := ProvidePublisher(ProvideEventBridgeClient(awsCfg), cfg, logger)

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		Store:     st,
		Publisher: publisher,
		Metrics:   metrics,
		Auth:      authSvc,

		Users:         ProvideUserRepository(st, logger),
		Orders:        ProvideOrderRepository(st, logger),
		Projects:      ProvideProjectRepository(st, logger),
		Rooms:         ProvideChatRepository(st, logger),
		Notifications: ProvideNotificationRepository(st, logger),
		Transactions:  ProvideTransactionRepository(st, logger),
		Calendar:      ProvideCalendarRepository(st, logger),
		Checks:        ProvideCheckRepository(st, logger),
		Connections:   ProvideConnectionRepository(st, logger),
	}

	c.Registry = ProvideRegistry(c.Connections, publisher, logger)
	transport := ProvideTransport(ProvideManagementAPIClient(awsCfg, cfg))
	c.Broadcaster = ProvideBroadcaster(c.Registry, transport, logger, metrics)
	c.ChatService = ProvideChatService(c.Rooms, publisher, logger)

	return c, nil
}

// Shutdown flushes the logger. Repositories hold no resources of their own.
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
