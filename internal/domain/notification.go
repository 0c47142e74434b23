package domain

// NotificationType categorizes notifications for the global type index.
type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "ORDER"
	NotificationTypeChat    NotificationType = "CHAT"
	NotificationTypePayment NotificationType = "PAYMENT"
	NotificationTypeSystem  NotificationType = "SYSTEM"
)

// Notification is stored at (USER#<userId>, NOTIFICATION#<createdAt>#<id>)
// so a plain partition range query returns a user's feed in time order.
// GSI1 groups notifications by type across users for the ops dashboard.
type Notification struct {
	ID        string           `dynamodbav:"id" json:"id"`
	UserID    string           `dynamodbav:"userId" json:"userId"`
	Type      NotificationType `dynamodbav:"type" json:"type"`
	Title     string           `dynamodbav:"title" json:"title"`
	Body      string           `dynamodbav:"body,omitempty" json:"body,omitempty"`
	IsRead    bool             `dynamodbav:"isRead" json:"isRead"`
	CreatedAt string           `dynamodbav:"createdAt" json:"createdAt"`
}

func (n *Notification) IndexKeys() IndexKeys {
	return IndexKeys{
		AttrGSI1PK: "NOTIFICATION_TYPE#" + string(n.Type),
		AttrGSI1SK: n.CreatedAt + "#" + n.ID,
	}
}
