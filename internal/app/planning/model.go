package planning

import "time"

// Record kinds are tagged variants sharing one table; the payload schema
// depends on the kind.
const (
	KindDependency = "dependency"
	KindMilestone  = "milestone"
	KindBudget     = "budget"
	KindRisk       = "risk"
)

func IsValidKind(k string) bool {
	switch k {
	case KindDependency, KindMilestone, KindBudget, KindRisk:
		return true
	}
	return false
}

type Record struct {
	ID        uint64                 `json:"id" gorm:"primaryKey"`
	BoardID   uint64                 `json:"board_id" gorm:"not null;index"`
	Kind      string                 `json:"kind" gorm:"not null"`
	Title     string                 `json:"title" gorm:"not null"`
	Payload   map[string]interface{} `json:"payload" gorm:"serializer:json"`
	CreatorID uint64                 `json:"creator_id" gorm:"not null"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (Record) TableName() string { return "planning_features" }

type CreateRecordRequest struct {
	Kind    string                 `json:"kind" binding:"required"`
	Title   string                 `json:"title" binding:"required,min=1,max=200"`
	Payload map[string]interface{} `json:"payload"`
}

type UpdateRecordRequest struct {
	Title   *string                 `json:"title,omitempty"`
	Payload *map[string]interface{} `json:"payload,omitempty"`
}

type RecordListResponse struct {
	Records []*Record `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
