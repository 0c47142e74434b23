package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

func newNotificationRepo(t *testing.T) *NotificationRepository {
	t.Helper()
	return NewNotificationRepository(store.NewMemoryStore(), zap.NewNop())
}

func TestNotificationFeedNewestFirst(t *testing.T) {
	repo := newNotificationRepo(t)

	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		tick := base.Add(time.Duration(i) * time.Second)
		repo.now = func() time.Time { return tick }
		_, err := repo.Create(context.Background(), &domain.Notification{
			UserID: "user-a",
			Type:   domain.NotificationTypeChat,
			Title:  title,
		})
		require.NoError(t, err)
	}

	page, err := repo.ListByUser(context.Background(), "user-a", Pagination{Backward: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "third", page.Items[0].Title)
	assert.Equal(t, "first", page.Items[2].Title)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := newNotificationRepo(t)

	n, err := repo.Create(context.Background(), &domain.Notification{
		UserID: "user-a",
		Type:   domain.NotificationTypeChat,
		Title:  "hello",
	})
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	require.NoError(t, repo.MarkRead(context.Background(), n))

	page, err := repo.ListByUser(context.Background(), "user-a", Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsRead)
}

func TestNotificationListByType(t *testing.T) {
	repo := newNotificationRepo(t)

	_, err := repo.Create(context.Background(), &domain.Notification{
		UserID: "user-a",
		Type:   domain.NotificationTypeChat,
		Title:  "message",
	})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.Notification{
		UserID: "user-b",
		Type:   domain.NotificationTypeOrder,
		Title:  "order",
	})
	require.NoError(t, err)

	page, err := repo.ListByType(context.Background(), domain.NotificationTypeOrder, Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "user-b", page.Items[0].UserID)
}
