package card

import (
	"strconv"
	"strings"
	"time"

	"taskboard/internal/app/label"
	"taskboard/internal/app/recurrence"
	"taskboard/internal/app/user"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Card struct {
	ID          uint64     `json:"id" gorm:"primaryKey"`
	BoardID     uint64     `json:"board_id" gorm:"not null;index"`
	ColumnID    uint64     `json:"column_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium'"`
	Position    int        `json:"position" gorm:"not null"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`

	// Recurrence template fields. A card with a non-null RecurrenceType is a
	// recurring template; generated instances carry ParentRecurrenceID and
	// never recur themselves.
	RecurrenceType         *string    `json:"recurrence_type,omitempty"`
	RecurrenceInterval     int        `json:"recurrence_interval,omitempty"`
	RecurrenceDaysOfWeek   string     `json:"recurrence_days_of_week,omitempty"`
	RecurrenceDayOfMonth   int        `json:"recurrence_day_of_month,omitempty"`
	RecurrenceStart        *time.Time `json:"recurrence_start,omitempty"`
	RecurrenceEndDate      *time.Time `json:"recurrence_end_date,omitempty"`
	RecurrenceMaxCount     *int       `json:"recurrence_max_count,omitempty"`
	RecurrenceCreatedCount int        `json:"recurrence_created_count,omitempty"`
	RecurrenceLastCreated  *time.Time `json:"recurrence_last_created,omitempty"`
	ParentRecurrenceID     *uint64    `json:"parent_recurrence_id,omitempty" gorm:"index"`

	DueSoonNotifiedAt *time.Time `json:"-"`

	CreatorID uint64    `json:"creator_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Labels      []*label.Label `json:"labels,omitempty" gorm:"many2many:card_labels"`
	Members     []*user.User   `json:"members,omitempty" gorm:"many2many:card_members"`
	Subtasks    []*Subtask     `json:"subtasks,omitempty" gorm:"foreignKey:CardID"`
	Comments    []*Comment     `json:"comments,omitempty" gorm:"foreignKey:CardID"`
	Attachments []*Attachment  `json:"attachments,omitempty" gorm:"foreignKey:CardID"`
}

// Pattern decodes the embedded recurrence fields, or nil when the card does
// not recur.
func (c *Card) Pattern() *recurrence.Pattern {
	if c.RecurrenceType == nil || c.RecurrenceStart == nil {
		return nil
	}
	return &recurrence.Pattern{
		Type:           recurrence.Type(*c.RecurrenceType),
		Interval:       c.RecurrenceInterval,
		DaysOfWeek:     decodeWeekdays(c.RecurrenceDaysOfWeek),
		DayOfMonth:     c.RecurrenceDayOfMonth,
		Start:          *c.RecurrenceStart,
		EndDate:        c.RecurrenceEndDate,
		MaxOccurrences: c.RecurrenceMaxCount,
	}
}

func decodeWeekdays(csv string) []time.Weekday {
	if csv == "" {
		return nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(csv, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n >= 0 && n <= 6 {
			days = append(days, time.Weekday(n))
		}
	}
	return days
}

func encodeWeekdays(days []time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

type Subtask struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	CardID    uint64    `json:"card_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Done      bool      `json:"done" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subtask) TableName() string { return "card_subtasks" }

type Comment struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	CardID    uint64    `json:"card_id" gorm:"not null;index"`
	UserID    uint64    `json:"user_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "card_comments" }

type Attachment struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	CardID      uint64    `json:"card_id" gorm:"not null;index"`
	FileID      string    `json:"file_id" gorm:"not null"`
	FileName    string    `json:"file_name" gorm:"not null"`
	FileURL     string    `json:"file_url"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	ObjectName  string    `json:"object_name"`
	UploaderID  uint64    `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string { return "card_attachments" }

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Index       *int       `json:"index,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Estimated   float64    `json:"estimated_hours"`
}

type UpdateCardRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClearDue    bool       `json:"clear_due_date,omitempty"`
	Estimated   *float64   `json:"estimated_hours,omitempty"`
}

type MoveCardRequest struct {
	ColumnID uint64 `json:"column_id" binding:"required"`
	Index    int    `json:"index"`
}

type SubtaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

type UpdateSubtaskRequest struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

type LabelRequest struct {
	LabelID uint64 `json:"label_id" binding:"required"`
}

type MemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

type RecurrenceRequest struct {
	Type       string         `json:"type" binding:"required"`
	Interval   int            `json:"interval" binding:"required,min=1"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	DayOfMonth int            `json:"day_of_month,omitempty"`
	Start      time.Time      `json:"start" binding:"required"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	MaxCount   *int           `json:"max_count,omitempty"`
}

type CardListResponse struct {
	Cards []*Card `json:"cards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
