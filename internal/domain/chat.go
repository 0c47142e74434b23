package domain

// Room is the chat-room metadata row at (ROOM#<id>, METADATA).
// LastMessage/LastMessageAt are denormalized from the newest message so
// room listings don't fan out into message queries.
type Room struct {
	ID            string   `dynamodbav:"id" json:"id"`
	ProjectID     string   `dynamodbav:"projectId,omitempty" json:"projectId,omitempty"`
	Participants  []string `dynamodbav:"participants" json:"participants"`
	LastMessage   string   `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt string   `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	Audited
}

func (r *Room) IndexKeys() IndexKeys { return IndexKeys{} }

// HasParticipant reports whether the user belongs to the room.
func (r *Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipants returns everyone except the given user.
func (r *Room) OtherParticipants(userID string) []string {
	others := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		if p != userID {
			others = append(others, p)
		}
	}
	return others
}

// RoomParticipant is the denormalized per-user membership row at
// (USER#<userId>, ROOM#<roomId>). GSI1 inverts it so the room's member set
// can be listed from the room side. The row additionally carries the unread
// counter, which is the only mutable attribute.
type RoomParticipant struct {
	UserID      string `dynamodbav:"userId" json:"userId"`
	RoomID      string `dynamodbav:"roomId" json:"roomId"`
	UnreadCount int    `dynamodbav:"unreadCount" json:"unreadCount"`
	JoinedAt    string `dynamodbav:"joinedAt" json:"joinedAt"`
}

func (rp *RoomParticipant) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: RoomPK(rp.RoomID),
		AttrGSI1SK: UserPK(rp.UserID),
	}
}

// Message is stored at (ROOM#<roomId>, MSG#<createdAt>#<id>). The sort key
// establishes the room's total message order; no secondary index is needed
// because all reads are room-scoped range queries.
type Message struct {
	ID        string `dynamodbav:"id" json:"id"`
	RoomID    string `dynamodbav:"roomId" json:"roomId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}
