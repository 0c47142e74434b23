package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/store"
)

func newChatRepo(t *testing.T) (*ChatRepository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewChatRepository(s, zap.NewNop()), s
}

func TestCreateRoomWritesMembershipRows(t *testing.T) {
	repo, _ := newChatRepo(t)

	room, err := repo.CreateRoom(context.Background(), &domain.Room{
		Participants: []string{"user-a", "user-b"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)

	for _, userID := range []string{"user-a", "user-b"} {
		rows, err := repo.ListRoomsByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, room.ID, rows[0].RoomID)
		assert.Zero(t, rows[0].UnreadCount)
	}

	participants, err := repo.ListParticipants(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestMessagesKeepTimelineOrder(t *testing.T) {
	repo, _ := newChatRepo(t)

	room, err := repo.CreateRoom(context.Background(), &domain.Room{
		Participants: []string{"user-a", "user-b"},
	})
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		tick := base.Add(time.Duration(i) * time.Second)
		repo.now = func() time.Time { return tick }
		_, err := repo.CreateMessage(context.Background(), &domain.Message{
			RoomID:   room.ID,
			SenderID: "user-a",
			Content:  fmt.Sprintf("msg %d", i),
		})
		require.NoError(t, err)
	}

	page, err := repo.ListMessages(context.Background(), room.ID, Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "msg 0", page.Items[0].Content)
	assert.Equal(t, "msg 3", page.Items[3].Content)

	newest, err := repo.ListMessages(context.Background(), room.ID, Pagination{Limit: 2, Backward: true})
	require.NoError(t, err)
	require.Len(t, newest.Items, 2)
	assert.Equal(t, "msg 3", newest.Items[0].Content)
	assert.Equal(t, "msg 2", newest.Items[1].Content)
	assert.NotEmpty(t, newest.NextCursor)
}

func TestCreateMessageDenormalizesLastMessage(t *testing.T) {
	repo, _ := newChatRepo(t)

	room, err := repo.CreateRoom(context.Background(), &domain.Room{
		Participants: []string{"user-a", "user-b"},
	})
	require.NoError(t, err)

	msg, err := repo.CreateMessage(context.Background(), &domain.Message{
		RoomID:   room.ID,
		SenderID: "user-a",
		Content:  "hello there",
	})
	require.NoError(t, err)

	found, err := repo.FindRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", found.LastMessage)
	assert.Equal(t, msg.CreatedAt, found.LastMessageAt)
}

func TestUnreadCounters(t *testing.T) {
	repo, _ := newChatRepo(t)

	room, err := repo.CreateRoom(context.Background(), &domain.Room{
		Participants: []string{"user-a", "user-b"},
	})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementUnread(context.Background(), room.ID, "user-b"))
	require.NoError(t, repo.IncrementUnread(context.Background(), room.ID, "user-b"))

	rows, err := repo.ListRoomsByUser(context.Background(), "user-b")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].UnreadCount)

	require.NoError(t, repo.ResetUnread(context.Background(), room.ID, "user-b"))

	rows, err = repo.ListRoomsByUser(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Zero(t, rows[0].UnreadCount)
}

func TestUnreadOnUnknownMembership(t *testing.T) {
	repo, _ := newChatRepo(t)

	err := repo.IncrementUnread(context.Background(), "room-x", "user-x")
	assert.True(t, IsNotFound(err))

	err = repo.ResetUnread(context.Background(), "room-x", "user-x")
	assert.True(t, IsNotFound(err))
}

func TestAddAndRemoveParticipant(t *testing.T) {
	repo, _ := newChatRepo(t)

	room, err := repo.CreateRoom(context.Background(), &domain.Room{
		Participants: []string{"user-a", "user-b"},
	})
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(context.Background(), room.ID, "user-c"))
	// Adding an existing participant is a no-op.
	require.NoError(t, repo.AddParticipant(context.Background(), room.ID, "user-c"))

	found, err := repo.FindRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b", "user-c"}, found.Participants)

	rows, err := repo.ListRoomsByUser(context.Background(), "user-c")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, repo.RemoveParticipant(context.Background(), room.ID, "user-b"))

	found, err = repo.FindRoom(context.Background(), room.ID)
	require.NoError(t, err)
	assert.False(t, found.HasParticipant("user-b"))

	rows, err = repo.ListRoomsByUser(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
