// Package chat orchestrates message sending on top of the chat repository,
// the event bus and the unread counters. Business rules beyond membership
// (moderation, rate limits) belong to the callers.
package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"workhub-backend/internal/domain"
	"workhub-backend/internal/events"
	"workhub-backend/internal/repository"
)

// Service wires the send-message flow: persist, denormalize, announce.
type Service struct {
	rooms     *repository.ChatRepository
	publisher events.Publisher
	logger    *zap.Logger
}

func NewService(rooms *repository.ChatRepository, publisher events.Publisher, logger *zap.Logger) *Service {
	return &Service{
		rooms:     rooms,
		publisher: publisher,
		logger:    logger,
	}
}

// SendMessage persists the message and its denormalizations, then emits
// chat.message.sent for the fan-out lambda. The message write is the
// commit point: everything after it is best-effort and logged on failure,
// never rolled back.
func (s *Service) SendMessage(ctx context.Context, roomID, senderID, content string) (*domain.Message, error) {
	room, err := s.rooms.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(senderID) {
		return nil, fmt.Errorf("user %s is not a participant of room %s", senderID, roomID)
	}

	msg, err := s.rooms.CreateMessage(ctx, &domain.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	recipients := room.OtherParticipants(senderID)
	for _, userID := range recipients {
		if err := s.rooms.IncrementUnread(ctx, roomID, userID); err != nil {
			s.logger.Warn("unread bump failed",
				zap.String("roomId", roomID),
				zap.String("userId", userID),
				zap.Error(err))
		}
	}

	event := events.MessageSent{
		RoomID:     roomID,
		MessageID:  msg.ID,
		SenderID:   senderID,
		Recipients: recipients,
		Content:    msg.Content,
		SentAt:     msg.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("message event publish failed, recipients miss the push",
			zap.String("roomId", roomID),
			zap.String("messageId", msg.ID),
			zap.Error(err))
	}
	return msg, nil
}

// History pages a room's timeline for one of its participants and resets
// that participant's unread counter.
func (s *Service) History(ctx context.Context, roomID, userID string, p repository.Pagination) (repository.Page[*domain.Message], error) {
	room, err := s.rooms.FindRoom(ctx, roomID)
	if err != nil {
		return repository.Page[*domain.Message]{}, err
	}
	if !room.HasParticipant(userID) {
		return repository.Page[*domain.Message]{}, fmt.Errorf("user %s is not a participant of room %s", userID, roomID)
	}

	page, err := s.rooms.ListMessages(ctx, roomID, p)
	if err != nil {
		return repository.Page[*domain.Message]{}, err
	}
	if err := s.rooms.ResetUnread(ctx, roomID, userID); err != nil && !repository.IsNotFound(err) {
		s.logger.Warn("unread reset failed",
			zap.String("roomId", roomID),
			zap.String("userId", userID),
			zap.Error(err))
	}
	return page, nil
}
