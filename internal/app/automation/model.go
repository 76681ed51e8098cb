package automation

import "time"

// Triggers mirror the domain events the evaluator subscribes to.
const (
	TriggerCardCreated   = "card_created"
	TriggerCardMoved     = "card_moved"
	TriggerCardUpdated   = "card_updated"
	TriggerCardCompleted = "card_completed"
	TriggerCardDueSoon   = "card_due_soon"
)

func IsValidTrigger(t string) bool {
	switch t {
	case TriggerCardCreated, TriggerCardMoved, TriggerCardUpdated, TriggerCardCompleted, TriggerCardDueSoon:
		return true
	}
	return false
}

const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpContains    = "contains"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpIsSet       = "is_set"
	OpIsEmpty     = "is_empty"
)

func IsValidOperator(op string) bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpGreaterThan, OpLessThan, OpIsSet, OpIsEmpty:
		return true
	}
	return false
}

const (
	LogicalAnd = "and"
	LogicalOr  = "or"
)

const (
	ActionMoveCard     = "move_card"
	ActionSetPriority  = "set_priority"
	ActionSetDueDate   = "set_due_date"
	ActionAssignMember = "assign_member"
	ActionAddLabel     = "add_label"
	ActionCompleteCard = "complete_card"
	ActionNotify       = "notify"
	ActionNotifyUser   = "notify_user"
)

func IsValidActionType(t string) bool {
	switch t {
	case ActionMoveCard, ActionSetPriority, ActionSetDueDate, ActionAssignMember,
		ActionAddLabel, ActionCompleteCard, ActionNotify, ActionNotifyUser:
		return true
	}
	return false
}

// Condition compares one card fact against a literal. LogicalOperator joins
// the condition with the running result of the ones before it; the first
// condition's operator is ignored and an empty one means "and".
type Condition struct {
	Field           string `json:"field"`
	Operator        string `json:"operator"`
	Value           string `json:"value"`
	LogicalOperator string `json:"logical_operator,omitempty"`
}

type Action struct {
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

type Rule struct {
	ID             uint64      `json:"id" gorm:"primaryKey"`
	BoardID        uint64      `json:"board_id" gorm:"not null;index"`
	Name           string      `json:"name" gorm:"not null"`
	Trigger        string      `json:"trigger" gorm:"not null"`
	Enabled        bool        `json:"enabled" gorm:"not null;default:true"`
	Conditions     []Condition `json:"conditions" gorm:"serializer:json"`
	Actions        []Action    `json:"actions" gorm:"serializer:json"`
	ExecutionCount int         `json:"execution_count" gorm:"not null;default:0"`
	LastExecutedAt *time.Time  `json:"last_executed_at,omitempty"`
	CreatorID      uint64      `json:"creator_id" gorm:"not null"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (Rule) TableName() string { return "automation_rules" }

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type LogEntry struct {
	At     time.Time `json:"at"`
	Kind   string    `json:"kind"` // condition or action
	Detail string    `json:"detail"`
	OK     bool      `json:"ok"`
}

// Execution is one evaluation of a rule against one trigger event. Its status
// only ever advances pending -> running -> completed or failed.
type Execution struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	RuleID       uint64     `json:"rule_id" gorm:"not null;index"`
	CardID       uint64     `json:"card_id"`
	TriggerEvent string     `json:"trigger_event"`
	Status       string     `json:"status" gorm:"not null"`
	Matched      bool       `json:"matched"`
	Log          []LogEntry `json:"log" gorm:"serializer:json"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Execution) TableName() string { return "automation_executions" }

type CreateRuleRequest struct {
	Name       string      `json:"name" binding:"required,min=1,max=200"`
	Trigger    string      `json:"trigger" binding:"required"`
	Conditions []Condition `json:"conditions"`
	Actions    []Action    `json:"actions" binding:"required,min=1"`
}

type UpdateRuleRequest struct {
	Name       *string      `json:"name,omitempty"`
	Trigger    *string      `json:"trigger,omitempty"`
	Enabled    *bool        `json:"enabled,omitempty"`
	Conditions *[]Condition `json:"conditions,omitempty"`
	Actions    *[]Action    `json:"actions,omitempty"`
}

type RuleListResponse struct {
	Rules []*Rule `json:"rules"`
}

type ExecutionListResponse struct {
	Executions []*Execution `json:"executions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
