package timeentry

import "time"

// Entry is one logged block of work against a card, bucketed by day.
type Entry struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	CardID    uint64    `json:"card_id" gorm:"not null;index"`
	UserID    uint64    `json:"user_id" gorm:"not null"`
	Day       string    `json:"day" gorm:"not null"` // YYYY-MM-DD
	Hours     float64   `json:"hours" gorm:"not null"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entry) TableName() string { return "time_entries" }

const dayLayout = "2006-01-02"

type CreateEntryRequest struct {
	Day   string  `json:"day" binding:"required"`
	Hours float64 `json:"hours" binding:"required,gt=0"`
	Note  string  `json:"note"`
}

type UpdateEntryRequest struct {
	Day   *string  `json:"day,omitempty"`
	Hours *float64 `json:"hours,omitempty"`
	Note  *string  `json:"note,omitempty"`
}

type SummaryResponse struct {
	Entries []*Entry `json:"entries"`
	Total   float64  `json:"total_hours"`
}

type DayTotal struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// UserSummaryResponse reports one user's logged time across all cards,
// bucketed by day.
type UserSummaryResponse struct {
	Entries []*Entry   `json:"entries"`
	Days    []DayTotal `json:"days"`
	Total   float64    `json:"total_hours"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
