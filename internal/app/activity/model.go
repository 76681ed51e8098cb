package activity

import "time"

// Entry type tags. Fixed enumeration; every mutating card operation appends
// exactly one entry with one of these tags.
const (
	TypeCreated    = "created"
	TypeUpdated    = "updated"
	TypeMoved      = "moved"
	TypeLabel      = "label"
	TypeMember     = "member"
	TypeDueDate    = "dueDate"
	TypeAttachment = "attachment"
	TypeSubtask    = "subtask"
	TypePriority   = "priority"
	TypeComment    = "comment"
)

var validTypes = map[string]bool{
	TypeCreated:    true,
	TypeUpdated:    true,
	TypeMoved:      true,
	TypeLabel:      true,
	TypeMember:     true,
	TypeDueDate:    true,
	TypeAttachment: true,
	TypeSubtask:    true,
	TypePriority:   true,
	TypeComment:    true,
}

func IsValidType(t string) bool {
	return validTypes[t]
}

type Entry struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	CardID    uint64    `json:"card_id" gorm:"not null;index"`
	UserID    uint64    `json:"user_id" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string {
	return "card_activity"
}

type FeedResponse struct {
	Entries []*Entry `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
