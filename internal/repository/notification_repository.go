package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

// NotificationRepository persists notifications at
// (USER#<userId>, NOTIFICATION#<createdAt>#<id>); a partition range query
// is the user's feed. GSI1 groups by type for the ops dashboard.
type NotificationRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewNotificationRepository(s store.Store, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{store: s, logger: logger, now: time.Now}
}

func notificationKey(n *domain.Notification) store.Key {
	return store.Key{
		PK: domain.UserPK(n.UserID),
		SK: domain.NotificationSK(n.CreatedAt, n.ID),
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n.ID == "" {
		n.ID = domain.NewID()
	}
	if n.CreatedAt == "" {
		n.CreatedAt = domain.NowISO(r.now())
	}

	item, err := marshalItem(n, notificationKey(n), entityNotification, n.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("notification", n.ID, "already exists")
		}
		return nil, err
	}
	return n, nil
}

// ListByUser pages the feed, newest first when Backward is set.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, p Pagination) (Page[*domain.Notification], error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.UserPK(userID),
		SortPrefix: domain.SKPrefixNotification,
		Limit:      p.EffectiveLimit(),
		Backward:   p.Backward,
		Cursor:     p.Cursor,
	})
	if err != nil {
		return Page[*domain.Notification]{}, err
	}
	notifications, err := unmarshalItems[domain.Notification](result.Items)
	if err != nil {
		return Page[*domain.Notification]{}, err
	}
	return Page[*domain.Notification]{Items: notifications, NextCursor: result.NextCursor}, nil
}

// ListByType serves the cross-user dashboard view.
func (r *NotificationRepository) ListByType(ctx context.Context, t domain.NotificationType, p Pagination) (Page[*domain.Notification], error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: "NOTIFICATION_TYPE#" + string(t),
		Limit:     p.EffectiveLimit(),
		Backward:  p.Backward,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return Page[*domain.Notification]{}, err
	}
	notifications, err := unmarshalItems[domain.Notification](result.Items)
	if err != nil {
		return Page[*domain.Notification]{}, err
	}
	return Page[*domain.Notification]{Items: notifications, NextCursor: result.NextCursor}, nil
}

// MarkRead flips isRead on one notification. The full sort key is needed,
// so callers pass the notification as read from the feed.
func (r *NotificationRepository) MarkRead(ctx context.Context, n *domain.Notification) error {
	_, err := r.store.Update(ctx, store.Update{
		Key:           notificationKey(n),
		Set:           store.Item{"isRead": store.B(true)},
		RequireExists: true,
	})
	if errors.Is(err, store.ErrItemNotFound) {
		return NewNotFound("notification", n.ID)
	}
	return err
}

// Delete removes one notification row; absent rows are not an error.
func (r *NotificationRepository) Delete(ctx context.Context, n *domain.Notification) error {
	return r.store.Delete(ctx, notificationKey(n))
}
