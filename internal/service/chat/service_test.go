package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
	"workhub-backend/internal/store"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *repository.ChatRepository, *capturePublisher) {
	t.Helper()
	repo := repository.NewChatRepository(store.NewMemoryStore(), zap.NewNop())
	pub := &capturePublisher{}
	return NewService(repo, pub, zap.NewNop()), repo, pub
}

func seedRoom(t *testing.T, repo *repository.ChatRepository, participants ...string) *domain.Room {
	t.Helper()
	room, err := repo.CreateRoom(context.Background(), &domain.Room{Participants: participants})
	require.NoError(t, err)
	return room
}

func TestSendMessagePersistsAndAnnounces(t *testing.T) {
	svc, repo, pub := newTestService(t)
	room := seedRoom(t, repo, "user-a", "user-b")

	msg, err := svc.SendMessage(context.Background(), room.ID, "user-a", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "user-a", msg.SenderID)

	page, err := repo.ListMessages(context.Background(), room.ID, repository.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "hello", page.Items[0].Content)

	updated, err := repo.FindRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.LastMessage)
	assert.Equal(t, msg.CreatedAt, updated.LastMessageAt)

	require.Len(t, pub.events, 1)
	sent, ok := pub.events[0].(events.MessageSent)
	require.True(t, ok)
	assert.Equal(t, room.ID, sent.RoomID)
	assert.Equal(t, msg.ID, sent.MessageID)
	assert.Equal(t, []string{"user-b"}, sent.Recipients)
}

func TestSendMessageBumpsUnreadForOthersOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	room := seedRoom(t, repo, "user-a", "user-b", "user-c")

	_, err := svc.SendMessage(context.Background(), room.ID, "user-a", "hi all")
	require.NoError(t, err)

	memberships, err := repo.ListRoomsByUser(context.Background(), "user-b")
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, 1, memberships[0].UnreadCount)

	own, err := repo.ListRoomsByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, 0, own[0].UnreadCount)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	svc, repo, pub := newTestService(t)
	room := seedRoom(t, repo, "user-a", "user-b")

	_, err := svc.SendMessage(context.Background(), room.ID, "stranger", "let me in")
	require.Error(t, err)
	assert.Empty(t, pub.events)

	page, err := repo.ListMessages(context.Background(), room.ID, repository.Pagination{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestHistoryResetsUnread(t *testing.T) {
	svc, repo, _ := newTestService(t)
	room := seedRoom(t, repo, "user-a", "user-b")

	_, err := svc.SendMessage(context.Background(), room.ID, "user-a", "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), room.ID, "user-a", "two")
	require.NoError(t, err)

	page, err := svc.History(context.Background(), room.ID, "user-b", repository.Pagination{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	memberships, err := repo.ListRoomsByUser(context.Background(), "user-b")
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, 0, memberships[0].UnreadCount)
}
