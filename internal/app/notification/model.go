package notification

import "time"

const (
	TypeCardAssigned  = "card_assigned"
	TypeCardDueSoon   = "card_due_soon"
	TypeCardCompleted = "card_completed"
	TypeCommentAdded  = "comment_added"
	TypeBoardInvite   = "board_invite"
	TypeAutomation    = "automation"
)

type Notification struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	UserID    uint64    `json:"user_id" gorm:"not null;index"`
	Type      string    `json:"type" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Message   string    `json:"message"`
	BoardID   *uint64   `json:"board_id,omitempty"`
	CardID    *uint64   `json:"card_id,omitempty"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
