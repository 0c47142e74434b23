package ws

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/store"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) captured() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func newTestRegistry(t *testing.T) (*Registry, *capturePublisher) {
	t.Helper()
	publisher := &capturePublisher{}
	connections := repository.NewConnectionRepository(store.NewMemoryStore(), zap.NewNop())
	return NewRegistry(connections, publisher, zap.NewNop()), publisher
}

func TestRegisterAndResolve(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "conn-1", "user-a"))
	require.NoError(t, registry.Register(ctx, "conn-2", "user-a"))
	require.NoError(t, registry.Register(ctx, "conn-3", "user-b"))

	ids, err := registry.Resolve(ctx, []string{"user-a", "user-b", "user-absent"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"conn-1", "conn-2", "conn-3"}, ids)

	online, err := registry.Online(ctx, "user-a")
	require.NoError(t, err)
	assert.True(t, online)

	online, err = registry.Online(ctx, "user-absent")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestUnregisterLastConnectionAnnouncesOffline(t *testing.T) {
	registry, publisher := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "conn-1", "user-a"))
	require.NoError(t, registry.Register(ctx, "conn-2", "user-a"))

	// Still one device left: no offline event.
	require.NoError(t, registry.Unregister(ctx, "conn-1"))
	assert.Empty(t, publisher.captured())

	require.NoError(t, registry.Unregister(ctx, "conn-2"))
	captured := publisher.captured()
	require.Len(t, captured, 1)
	offline, ok := captured[0].(events.UserOffline)
	require.True(t, ok)
	assert.Equal(t, "user-a", offline.UserID)

	online, err := registry.Online(ctx, "user-a")
	require.NoError(t, err)
	assert.False(t, online)
}

func TestUnregisterUnknownConnection(t *testing.T) {
	registry, publisher := newTestRegistry(t)

	require.NoError(t, registry.Unregister(context.Background(), "never-registered"))
	assert.Empty(t, publisher.captured())
}

func TestTouchKeepsConnectionResolvable(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "conn-1", "user-a"))
	require.NoError(t, registry.Touch(ctx, "conn-1"))

	err := registry.Touch(ctx, "gone")
	assert.True(t, repository.IsNotFound(err))
}
