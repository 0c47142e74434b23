// Package events defines the domain events the storage core emits and the
// EventBridge publisher that carries them to the fan-out lambdas.
package events

// SourceBackend is the EventBridge source attached to every event.
const SourceBackend = "workhub.backend"

// Event is anything publishable to the event bus.
type Event interface {
	EventType() string
}

// MessageSent is emitted after a chat message is persisted; the
// ws-send-message lambda consumes it and fans the payload out to the
// recipients' connections.
type MessageSent struct {
	RoomID     string   `json:"roomId"`
	MessageID  string   `json:"messageId"`
	SenderID   string   `json:"senderId"`
	Recipients []string `json:"recipients"`
	Content    string   `json:"content"`
	SentAt     string   `json:"sentAt"`
}

func (MessageSent) EventType() string { return "chat.message.sent" }

// UserOffline is emitted best-effort when a user's last connection goes
// away; presence listeners may drop it without consequence.
type UserOffline struct {
	UserID string `json:"userId"`
	At     string `json:"at"`
}

func (UserOffline) EventType() string { return "user.offline" }
