package domain

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleMaster Role = "MASTER"
)

// User is the profile row stored at (USER#<id>, PROFILE).
//
// GSI1 serves phone lookups, GSI2 serves telegram-id lookups. Both are
// rewritten whenever the source attribute changes.
type User struct {
	ID         string `dynamodbav:"id" json:"id"`
	Phone      string `dynamodbav:"phone" json:"phone"`
	TelegramID string `dynamodbav:"telegramId,omitempty" json:"telegramId,omitempty"`
	Name       string `dynamodbav:"name" json:"name"`
	Role       Role   `dynamodbav:"role" json:"role"`
	City       string `dynamodbav:"city,omitempty" json:"city,omitempty"`
	AvatarURL  string `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	IsActive   bool   `dynamodbav:"isActive" json:"isActive"`
	Audited
}

// UserPatch lists every field a profile update may touch. Nil means "leave
// unchanged".
type UserPatch struct {
	Phone      *string
	TelegramID *string
	Name       *string
	City       *string
	AvatarURL  *string
	IsActive   *bool
}

// Apply merges the patch into the user in place.
func (u *User) Apply(p UserPatch) {
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.TelegramID != nil {
		u.TelegramID = *p.TelegramID
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.City != nil {
		u.City = *p.City
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// IndexKeys derives the lookup-index positions from the current attributes.
func (u *User) IndexKeys() IndexKeys {
	keys := IndexKeys{
		AttrGSI1PK: "PHONE#" + u.Phone,
		AttrGSI1SK: UserPK(u.ID),
	}
	if u.TelegramID != "" {
		keys[AttrGSI2PK] = "TG#" + u.TelegramID
		keys[AttrGSI2SK] = UserPK(u.ID)
	}
	return keys
}
