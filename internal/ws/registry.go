package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
)

// Registry tracks which users currently hold open connections.
//
// Lifecycle per connection: Register creates the row with its initial
// expiry, Touch refreshes it on every inbound frame, Unregister deletes it
// on disconnect or after a delivery finds the endpoint gone. Rows that
// outlive their expiry are logically dead regardless of physical cleanup.
type Registry struct {
	connections *repository.ConnectionRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

func NewRegistry(connections *repository.ConnectionRepository, publisher events.Publisher, logger *zap.Logger) *Registry {
	return &Registry{
		connections: connections,
		publisher:   publisher,
		logger:      logger,
	}
}

// Register records a new connection for the user. Additional devices mean
// additional rows; nothing is replaced.
func (r *Registry) Register(ctx context.Context, connectionID, userID string) error {
	_, err := r.connections.Create(ctx, connectionID, userID)
	if err != nil {
		return err
	}
	r.logger.Info("connection registered",
		zap.String("connectionId", connectionID),
		zap.String("userId", userID),
	)
	return nil
}

// Touch extends the connection's expiry window.
func (r *Registry) Touch(ctx context.Context, connectionID string) error {
	return r.connections.Touch(ctx, connectionID)
}

// Unregister deletes the connection row. When that was the user's last
// live connection, a user.offline event goes out best-effort; a lost
// event only delays presence convergence.
func (r *Registry) Unregister(ctx context.Context, connectionID string) error {
	conn, err := r.connections.FindByID(ctx, connectionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil // already cleaned up
		}
		return err
	}

	if err := r.connections.Delete(ctx, connectionID); err != nil {
		return err
	}
	r.logger.Info("connection unregistered",
		zap.String("connectionId", connectionID),
		zap.String("userId", conn.UserID),
	)

	remaining, err := r.connections.ListByUser(ctx, conn.UserID)
	if err != nil {
		r.logger.Warn("offline check failed", zap.String("userId", conn.UserID), zap.Error(err))
		return nil
	}
	if len(remaining) == 0 {
		offline := events.UserOffline{UserID: conn.UserID, At: domain.NowISO(time.Now())}
		if err := r.publisher.Publish(ctx, offline); err != nil {
			r.logger.Warn("offline event publish failed", zap.String("userId", conn.UserID), zap.Error(err))
		}
	}
	return nil
}

// Resolve flattens the live connection ids of all given users. Users with
// no connections contribute nothing; expired rows are filtered by the
// repository.
func (r *Registry) Resolve(ctx context.Context, userIDs []string) ([]string, error) {
	connectionIDs := make([]string, 0)
	for _, userID := range userIDs {
		conns, err := r.connections.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, conn := range conns {
			connectionIDs = append(connectionIDs, conn.ID)
		}
	}
	return connectionIDs, nil
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(ctx context.Context, userID string) (bool, error) {
	conns, err := r.connections.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(conns) > 0, nil
}
