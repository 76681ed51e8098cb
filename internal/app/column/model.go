package column

import "time"

// Column positions are unique, dense and ascending from 0 within a board.
// Every structural change renumbers the whole board's sequence.
type Column struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	BoardID   uint64    `json:"board_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Position  int       `json:"position" gorm:"not null"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Column) TableName() string {
	return "board_columns"
}

type CreateColumnRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=120"`
	Index     *int   `json:"index,omitempty"`
	IsDefault bool   `json:"is_default"`
}

type UpdateColumnRequest struct {
	Title *string `json:"title,omitempty"`
}

type MoveColumnRequest struct {
	Index int `json:"index"`
}

type ColumnListResponse struct {
	Columns []*Column `json:"columns"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
