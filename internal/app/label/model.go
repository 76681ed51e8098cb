package label

import "time"

// Label is one of the fixed preset labels cards reference many-to-many.
// Presets are installed by the seeder; cards never own labels.
type Label struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Color     string    `json:"color" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type LabelListResponse struct {
	Labels []*Label `json:"labels"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
