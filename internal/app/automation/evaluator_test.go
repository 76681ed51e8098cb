package automation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEvalRepo struct {
	Repository
	rules      []*Rule
	executions map[string]*Execution
	recorded   map[uint64]int
}

func newFakeEvalRepo(rules ...*Rule) *fakeEvalRepo {
	return &fakeEvalRepo{
		rules:      rules,
		executions: map[string]*Execution{},
		recorded:   map[uint64]int{},
	}
}

func (f *fakeEvalRepo) ListEnabledByTrigger(boardID uint64, trigger string) ([]*Rule, error) {
	var out []*Rule
	for _, r := range f.rules {
		if r.BoardID == boardID && r.Trigger == trigger && r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeEvalRepo) CreateExecution(exec *Execution) error {
	clone := *exec
	f.executions[exec.ID] = &clone
	return nil
}

func (f *fakeEvalRepo) UpdateExecution(exec *Execution) error {
	clone := *exec
	f.executions[exec.ID] = &clone
	return nil
}

func (f *fakeEvalRepo) RecordRuleExecution(ruleID uint64, at time.Time) error {
	f.recorded[ruleID]++
	return nil
}

func (f *fakeEvalRepo) single(t *testing.T) *Execution {
	t.Helper()
	require.Len(t, f.executions, 1)
	for _, exec := range f.executions {
		return exec
	}
	return nil
}

type fakeCardActions struct {
	calls    []string
	failures map[string]bool
}

func (f *fakeCardActions) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failures[name] {
		return fmt.Errorf("%s rejected", name)
	}
	return nil
}

func (f *fakeCardActions) MoveCard(actorID, cardID, columnID uint64) error {
	return f.call("move_card")
}

func (f *fakeCardActions) SetPriority(actorID, cardID uint64, priority string) error {
	return f.call("set_priority")
}

func (f *fakeCardActions) SetDueDate(actorID, cardID uint64, due time.Time) error {
	return f.call("set_due_date")
}

func (f *fakeCardActions) AssignMember(actorID, cardID, userID uint64) error {
	return f.call("assign_member")
}

func (f *fakeCardActions) AddLabel(actorID, cardID, labelID uint64) error {
	return f.call("add_label")
}

func (f *fakeCardActions) CompleteCard(actorID, cardID uint64) error {
	return f.call("complete_card")
}

type fakeNotifier struct {
	notified      int
	notifiedUsers []uint64
}

func (f *fakeNotifier) NotifyBoard(boardID, excludeUserID, cardID uint64, title, message string) error {
	f.notified++
	return nil
}

func (f *fakeNotifier) NotifyUser(userID, cardID uint64, title, message string) error {
	f.notifiedUsers = append(f.notifiedUsers, userID)
	return nil
}

type staticFacts map[string]string

func (s staticFacts) CardFacts(cardID uint64) (map[string]string, error) {
	return s, nil
}

func TestEvaluateConditionsNoShortCircuit(t *testing.T) {
	conditions := []Condition{
		{Field: "priority", Operator: OpEquals, Value: "high"},
		{Field: "title", Operator: OpContains, Value: "urgent"},
	}
	facts := map[string]string{"priority": "low", "title": "urgent fix"}

	matched, entries := EvaluateConditions(conditions, facts)
	assert.False(t, matched)
	// The second condition is still evaluated and logged after the first
	// fails.
	require.Len(t, entries, 2)
	assert.False(t, entries[0].OK)
	assert.True(t, entries[1].OK)
}

func TestEvaluateConditionsOrJoins(t *testing.T) {
	conditions := []Condition{
		{Field: "priority", Operator: OpEquals, Value: "high"},
		{Field: "title", Operator: OpContains, Value: "urgent", LogicalOperator: LogicalOr},
	}

	matched, entries := EvaluateConditions(conditions, map[string]string{
		"priority": "low",
		"title":    "urgent fix",
	})
	assert.True(t, matched)
	assert.Len(t, entries, 2)
}

func TestEvaluateConditionOperators(t *testing.T) {
	facts := map[string]string{"estimated_hours": "8", "description": ""}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"greater_than true", Condition{Field: "estimated_hours", Operator: OpGreaterThan, Value: "4"}, true},
		{"greater_than false", Condition{Field: "estimated_hours", Operator: OpGreaterThan, Value: "10"}, false},
		{"less_than", Condition{Field: "estimated_hours", Operator: OpLessThan, Value: "10"}, true},
		{"is_set on empty", Condition{Field: "description", Operator: OpIsSet}, false},
		{"is_empty on empty", Condition{Field: "description", Operator: OpIsEmpty}, true},
		{"is_empty on missing", Condition{Field: "due_date", Operator: OpIsEmpty}, true},
		{"not_equals on missing", Condition{Field: "due_date", Operator: OpNotEquals, Value: "x"}, true},
		{"equals on missing", Condition{Field: "due_date", Operator: OpEquals, Value: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluateCondition(tt.cond, facts))
		})
	}
}

func TestHandleEventRunsMatchingRule(t *testing.T) {
	rule := &Rule{
		ID:      1,
		BoardID: 10,
		Trigger: TriggerCardCreated,
		Enabled: true,
		Conditions: []Condition{
			{Field: "priority", Operator: OpEquals, Value: "high"},
		},
		Actions: []Action{
			{Type: ActionMoveCard, Params: map[string]interface{}{"column_id": float64(3)}},
			{Type: ActionNotify, Params: map[string]interface{}{"title": "escalated"}},
		},
	}
	repo := newFakeEvalRepo(rule)
	actions := &fakeCardActions{}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(repo, staticFacts{"priority": "high"}, actions, notifier, zap.NewNop())

	eval.HandleEvent(TriggerCardCreated, 5, 10, 7)

	exec := repo.single(t)
	assert.Equal(t, StatusCompleted, exec.Status)
	assert.True(t, exec.Matched)
	assert.Equal(t, []string{"move_card"}, actions.calls)
	assert.Equal(t, 1, notifier.notified)
	assert.Equal(t, 1, repo.recorded[rule.ID])
	// One condition entry plus one per action.
	assert.Len(t, exec.Log, 3)
	assert.NotNil(t, exec.StartedAt)
	assert.NotNil(t, exec.FinishedAt)
}

func TestHandleEventDueDateAndUserNotifyActions(t *testing.T) {
	rule := &Rule{
		ID:      3,
		BoardID: 10,
		Trigger: TriggerCardDueSoon,
		Enabled: true,
		Actions: []Action{
			{Type: ActionSetDueDate, Params: map[string]interface{}{"due_date": "2026-09-01"}},
			{Type: ActionNotifyUser, Params: map[string]interface{}{"user_id": float64(42), "title": "heads up"}},
		},
	}
	repo := newFakeEvalRepo(rule)
	actions := &fakeCardActions{}
	notifier := &fakeNotifier{}
	eval := NewEvaluator(repo, staticFacts{}, actions, notifier, zap.NewNop())

	eval.HandleEvent(TriggerCardDueSoon, 5, 10, 7)

	exec := repo.single(t)
	assert.Equal(t, StatusCompleted, exec.Status)
	assert.Equal(t, []string{"set_due_date"}, actions.calls)
	assert.Equal(t, []uint64{42}, notifier.notifiedUsers)
	assert.Zero(t, notifier.notified)
}

func TestHandleEventMalformedDueDateFailsAction(t *testing.T) {
	rule := &Rule{
		ID:      4,
		BoardID: 10,
		Trigger: TriggerCardCreated,
		Enabled: true,
		Actions: []Action{
			{Type: ActionSetDueDate, Params: map[string]interface{}{"due_date": "tomorrow"}},
		},
	}
	repo := newFakeEvalRepo(rule)
	actions := &fakeCardActions{}
	eval := NewEvaluator(repo, staticFacts{}, actions, &fakeNotifier{}, zap.NewNop())

	eval.HandleEvent(TriggerCardCreated, 5, 10, 7)

	exec := repo.single(t)
	assert.Equal(t, StatusFailed, exec.Status)
	// The parse failure happens before the card service is touched.
	assert.Empty(t, actions.calls)
}

func TestHandleEventNonMatchingRuleCompletesWithoutActions(t *testing.T) {
	rule := &Rule{
		ID:      1,
		BoardID: 10,
		Trigger: TriggerCardCreated,
		Enabled: true,
		Conditions: []Condition{
			{Field: "priority", Operator: OpEquals, Value: "high"},
		},
		Actions: []Action{{Type: ActionCompleteCard}},
	}
	repo := newFakeEvalRepo(rule)
	actions := &fakeCardActions{}
	eval := NewEvaluator(repo, staticFacts{"priority": "low"}, actions, &fakeNotifier{}, zap.NewNop())

	eval.HandleEvent(TriggerCardCreated, 5, 10, 7)

	exec := repo.single(t)
	assert.Equal(t, StatusCompleted, exec.Status)
	assert.False(t, exec.Matched)
	assert.Empty(t, actions.calls)
	// The trigger matched even though the conditions did not, so the counter
	// still advances.
	assert.Equal(t, 1, repo.recorded[rule.ID])
}

func TestHandleEventFailedActionMarksFailedButContinues(t *testing.T) {
	rule := &Rule{
		ID:      1,
		BoardID: 10,
		Trigger: TriggerCardMoved,
		Enabled: true,
		Actions: []Action{
			{Type: ActionSetPriority, Params: map[string]interface{}{"priority": "high"}},
			{Type: ActionCompleteCard},
		},
	}
	repo := newFakeEvalRepo(rule)
	actions := &fakeCardActions{failures: map[string]bool{"set_priority": true}}
	eval := NewEvaluator(repo, staticFacts{}, actions, &fakeNotifier{}, zap.NewNop())

	eval.HandleEvent(TriggerCardMoved, 5, 10, 7)

	exec := repo.single(t)
	assert.Equal(t, StatusFailed, exec.Status)
	// The second action still ran after the first failed.
	assert.Equal(t, []string{"set_priority", "complete_card"}, actions.calls)
	require.Len(t, exec.Log, 2)
	assert.False(t, exec.Log[0].OK)
	assert.True(t, exec.Log[1].OK)
	// The match itself still counts.
	assert.Equal(t, 1, repo.recorded[rule.ID])
}

func TestHandleEventSkipsDisabledAndForeignRules(t *testing.T) {
	disabled := &Rule{ID: 1, BoardID: 10, Trigger: TriggerCardCreated, Enabled: false, Actions: []Action{{Type: ActionCompleteCard}}}
	otherBoard := &Rule{ID: 2, BoardID: 11, Trigger: TriggerCardCreated, Enabled: true, Actions: []Action{{Type: ActionCompleteCard}}}
	repo := newFakeEvalRepo(disabled, otherBoard)
	actions := &fakeCardActions{}
	eval := NewEvaluator(repo, staticFacts{}, actions, &fakeNotifier{}, zap.NewNop())

	eval.HandleEvent(TriggerCardCreated, 5, 10, 7)

	assert.Empty(t, repo.executions)
	assert.Empty(t, actions.calls)
}
