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

// ChatRepository persists chat rooms, their denormalized participant rows
// and their messages:
//
//	(ROOM#<id>, METADATA)                room metadata
//	(USER#<userId>, ROOM#<roomId>)       membership + unread counter
//	(ROOM#<roomId>, MSG#<createdAt>#<id>) messages, sort key = total order
//
// The participant set lives in both the room item and the per-user rows.
// Membership changes write the room first, then each participant row; a
// partial failure leaves the room item authoritative and is logged for the
// repair sweep.
type ChatRepository struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewChatRepository(s store.Store, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{store: s, logger: logger, now: time.Now}
}

func roomKey(roomID string) store.Key {
	return store.Key{PK: domain.RoomPK(roomID), SK: domain.SKMetadata}
}

func participantKey(userID, roomID string) store.Key {
	return store.Key{PK: domain.UserPK(userID), SK: domain.RoomParticipantSK(roomID)}
}

// CreateRoom writes the room and one membership row per participant.
func (r *ChatRepository) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if room.ID == "" {
		room.ID = domain.NewID()
	}
	now := domain.NowISO(r.now())
	room.CreatedAt, room.UpdatedAt = now, now

	item, err := marshalItem(room, roomKey(room.ID), entityRoom, room.IndexKeys())
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("room", room.ID, "already exists")
		}
		return nil, err
	}

	for _, userID := range room.Participants {
		if err := r.writeParticipant(ctx, userID, room.ID, now); err != nil {
			r.logger.Warn("participant row write failed, membership stale until repair",
				zap.String("roomId", room.ID),
				zap.String("userId", userID),
				zap.Error(err))
		}
	}
	return room, nil
}

func (r *ChatRepository) writeParticipant(ctx context.Context, userID, roomID, joinedAt string) error {
	participant := &domain.RoomParticipant{
		UserID:   userID,
		RoomID:   roomID,
		JoinedAt: joinedAt,
	}
	item, err := marshalItem(participant, participantKey(userID, roomID), entityRoomParticipant, participant.IndexKeys())
	if err != nil {
		return err
	}
	return r.store.Put(ctx, item, store.PutOptions{})
}

func (r *ChatRepository) FindRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	item, err := r.store.Get(ctx, roomKey(roomID))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return nil, NewNotFound("room", roomID)
		}
		return nil, err
	}
	return unmarshalItem[domain.Room](item)
}

// ListRoomsByUser returns the user's membership rows; callers resolve room
// metadata per row when they need it.
func (r *ChatRepository) ListRoomsByUser(ctx context.Context, userID string) ([]*domain.RoomParticipant, error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.UserPK(userID),
		SortPrefix: domain.SKPrefixRoom,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.RoomParticipant](result.Items)
}

// ListParticipants inverts the membership rows through GSI1.
func (r *ChatRepository) ListParticipants(ctx context.Context, roomID string) ([]*domain.RoomParticipant, error) {
	result, err := r.store.Query(ctx, store.Query{
		Index:     domain.GSI1,
		Partition: domain.RoomPK(roomID),
	})
	if err != nil {
		return nil, err
	}
	return unmarshalItems[domain.RoomParticipant](result.Items)
}

// AddParticipant appends the user to the room item, then writes the
// membership row.
func (r *ChatRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	room, err := r.FindRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HasParticipant(userID) {
		return nil
	}
	room.Participants = append(room.Participants, userID)
	if err := r.saveRoom(ctx, room); err != nil {
		return err
	}
	if err := r.writeParticipant(ctx, userID, roomID, domain.NowISO(r.now())); err != nil {
		r.logger.Warn("participant row write failed after room update",
			zap.String("roomId", roomID),
			zap.String("userId", userID),
			zap.Error(err))
	}
	return nil
}

// RemoveParticipant drops the user from the room item, then deletes the
// membership row.
func (r *ChatRepository) RemoveParticipant(ctx context.Context, roomID, userID string) error {
	room, err := r.FindRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(userID) {
		return nil
	}
	room.Participants = room.OtherParticipants(userID)
	if err := r.saveRoom(ctx, room); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, participantKey(userID, roomID)); err != nil {
		r.logger.Warn("participant row delete failed after room update",
			zap.String("roomId", roomID),
			zap.String("userId", userID),
			zap.Error(err))
	}
	return nil
}

func (r *ChatRepository) saveRoom(ctx context.Context, room *domain.Room) error {
	room.UpdatedAt = domain.NowISO(r.now())
	item, err := marshalItem(room, roomKey(room.ID), entityRoom, room.IndexKeys())
	if err != nil {
		return err
	}
	_, err = r.store.Update(ctx, store.Update{
		Key:           roomKey(room.ID),
		Set:           updateSet(item),
		RequireExists: true,
	})
	if errors.Is(err, store.ErrItemNotFound) {
		return NewNotFound("room", room.ID)
	}
	return err
}

// CreateMessage appends a message to the room's timeline and denormalizes
// it into the room metadata (lastMessage/lastMessageAt) plus the other
// participants' unread counters. The message row is the canonical write;
// the denormalizations are best-effort.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if msg.ID == "" {
		msg.ID = domain.NewID()
	}
	if msg.CreatedAt == "" {
		msg.CreatedAt = domain.NowISO(r.now())
	}

	key := store.Key{
		PK: domain.RoomPK(msg.RoomID),
		SK: domain.MessageSK(msg.CreatedAt, msg.ID),
	}
	item, err := marshalItem(msg, key, entityMessage, domain.IndexKeys{})
	if err != nil {
		return nil, err
	}
	if err := r.store.Put(ctx, item, store.PutOptions{IfNotExists: true}); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return nil, NewConflict("message", msg.ID, "already exists")
		}
		return nil, err
	}

	if _, err := r.store.Update(ctx, store.Update{
		Key: roomKey(msg.RoomID),
		Set: store.Item{
			"lastMessage":   store.S(msg.Content),
			"lastMessageAt": store.S(msg.CreatedAt),
			"updatedAt":     store.S(domain.NowISO(r.now())),
		},
		RequireExists: true,
	}); err != nil {
		r.logger.Warn("room last-message update failed",
			zap.String("roomId", msg.RoomID),
			zap.String("messageId", msg.ID),
			zap.Error(err))
	}
	return msg, nil
}

// ListMessages pages the room timeline; Backward=true returns newest first.
func (r *ChatRepository) ListMessages(ctx context.Context, roomID string, p Pagination) (Page[*domain.Message], error) {
	result, err := r.store.Query(ctx, store.Query{
		Partition:  domain.RoomPK(roomID),
		SortPrefix: domain.SKPrefixMessage,
		Limit:      p.EffectiveLimit(),
		Backward:   p.Backward,
		Cursor:     p.Cursor,
	})
	if err != nil {
		return Page[*domain.Message]{}, err
	}
	messages, err := unmarshalItems[domain.Message](result.Items)
	if err != nil {
		return Page[*domain.Message]{}, err
	}
	return Page[*domain.Message]{Items: messages, NextCursor: result.NextCursor}, nil
}

// IncrementUnread bumps the unread counter on one membership row.
func (r *ChatRepository) IncrementUnread(ctx context.Context, roomID, userID string) error {
	key := participantKey(userID, roomID)
	item, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			return NewNotFound("room participant", userID)
		}
		return err
	}
	count := 0
	if raw := store.NumberAttr(item, "unreadCount"); raw != "" {
		count, _ = strconv.Atoi(raw)
	}
	_, err = r.store.Update(ctx, store.Update{
		Key:           key,
		Set:           store.Item{"unreadCount": store.N(strconv.Itoa(count + 1))},
		RequireExists: true,
	})
	return err
}

// ResetUnread zeroes the unread counter, typically on room open.
func (r *ChatRepository) ResetUnread(ctx context.Context, roomID, userID string) error {
	_, err := r.store.Update(ctx, store.Update{
		Key:           participantKey(userID, roomID),
		Set:           store.Item{"unreadCount": store.N("0")},
		RequireExists: true,
	})
	if errors.Is(err, store.ErrItemNotFound) {
		return NewNotFound("room participant", userID)
	}
	return err
}
