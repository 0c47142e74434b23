package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// ConnectionRepository persists live WebSocket connection rows at
// (WS_CONNECTION#<connId>, DETAILS), with the user's connection set on
// GSI1. The expiresAt attribute is both the logical liveness bound and the
// table's TTL attribute; reads never depend on physical TTL deletion
// having happened.
type ConnectionRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewConnectionRepository(s store.Store, logger *zap.Logger) *ConnectionRepository {
	return &ConnectionRepository{store: s, logger: logger, now: time.Now}
}

func connectionKey(connectionID string) store.Key {
	return store.Key{PK: domain.ConnectionPK(connectionID), SK: domain.SKDetails}
}

// Create records a new connection with a fresh expiry. A user may hold any
// number of concurrent rows (multi-device).
func (r *ConnectionRepository) Create(ctx context.Context, connectionID, userID string) (*domain.Connection, error) {
	now := r.now()
	conn := &domain.Connection{
		ID:          connectionID,
		UserID:      userID,
		ConnectedAt: domain.NowISO(now),
		ExpiresAt:   now.Add(domain.ConnectionTTL).Unix(),
	}
	item, err := marshalItem(conn, connectionKey(connectionID), entityConnection, conn.IndexKeys())
	if err != nil {
		return nil, err
	}
	// Reconnects with a reused id just refresh the row.
	if err := r.store.Put(ctx, item, store.PutOptions{}); err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *ConnectionRepository) FindByID(ctx context.Context, connectionID string) (*domain.Connection, error) {
	item, err := r.store.Get(ctx, connectionKey(connectionID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("connection", connectionID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Connection](item)
}

// Touch pushes the expiry out by the full TTL window. Called on every
// inbound frame so active sessions never lapse.
func (r *ConnectionRepository) Touch(ctx context.Context, connectionID string) error {
	expiresAt := r.now().Add(domain.ConnectionTTL).Unix()
	_, err := r.store.Update(ctx, store.Update{
		Key:           connectionKey(connectionID),
		Set:           store.Item{"expiresAt": store.N(strconv.FormatInt(expiresAt, 10))},
		RequireExists: true,
	})
	if errors.Is(err, store.ErrItemNotFound) {
		return NewNotFound("connection", connectionID)
	}
	return err
}

// Delete removes a connection row; deleting an absent row is fine, which
// makes disconnect handling and stale reaping retry-safe.
func (r *ConnectionRepository) Delete(ctx context.Context, connectionID string) error {
	return r.store.Delete(ctx, connectionKey(connectionID))
}

// SweepExpired scans for connection rows whose expiry has lapsed and
// deletes them. The table's TTL purge usually gets there first; the sweep
// exists for tables where TTL is disabled and as a repair path. Returns
// the number of rows removed.
func (r *ConnectionRepository) SweepExpired(ctx context.Context, limit int32) (int, error) {
	items, err := r.store.Scan(ctx, map[string]string{attrEntityType: entityConnection}, limit)
	if err != nil {
		return 0, err
	}
	now := r.now()
	removed := 0
	for _, item := range items {
		conn, err := unmarshalItem[domain.Connection](item)
		if err != nil {
			r.logger.Warn("skipping malformed connection row", zap.Error(err))
			continue
		}
		if conn.Live(now) {
			continue
		}
		if err := r.Delete(ctx, conn.ID); err != nil {
			r.logger.Warn("failed to delete expired connection",
				zap.String("connectionId", conn.ID),
				zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// ListByUser returns the user's live connections, dropping rows whose
// expiry has lapsed even if the store hasn't purged them yet.
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Connection, error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: domain.UserPK(userID),
	})
	if err != nil {
		return nil, err
	}
	conns, err := unmarshalItems[domain.Connection](result.Items)
	if err != nil {
		return nil, err
	}
	now := r.now()
	live := make([]*domain.Connection, 0, len(conns))
	for _, conn := range conns {
		if conn.Live(now) {
			live = append(live, conn)
		}
	}
	return live, nil
}
