package automation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FactSource supplies the card field snapshot conditions evaluate against.
type FactSource interface {
	CardFacts(cardID uint64) (map[string]string, error)
}

// CardActions is the slice of the card service rule actions run through. The
// actor is the user whose event triggered the rule, so activity entries and
// cache invalidation attribute correctly.
type CardActions interface {
	MoveCard(actorID, cardID, columnID uint64) error
	SetPriority(actorID, cardID uint64, priority string) error
	SetDueDate(actorID, cardID uint64, due time.Time) error
	AssignMember(actorID, cardID, userID uint64) error
	AddLabel(actorID, cardID, labelID uint64) error
	CompleteCard(actorID, cardID uint64) error
}

type Notifier interface {
	NotifyBoard(boardID, excludeUserID, cardID uint64, title, message string) error
	NotifyUser(userID, cardID uint64, title, message string) error
}

type Evaluator struct {
	repo     Repository
	facts    FactSource
	actions  CardActions
	notifier Notifier
	logger   *zap.SugaredLogger
}

func NewEvaluator(repo Repository, facts FactSource, actions CardActions, notifier Notifier, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		repo:     repo,
		facts:    facts,
		actions:  actions,
		notifier: notifier,
		logger:   logger.Sugar(),
	}
}

// HandleEvent evaluates every enabled rule of the board that listens on the
// trigger. Rules run independently: one rule's failure never stops another's.
func (e *Evaluator) HandleEvent(trigger string, cardID, boardID, actorID uint64) {
	rules, err := e.repo.ListEnabledByTrigger(boardID, trigger)
	if err != nil {
		e.logger.Errorw("Failed to load automation rules", "board_id", boardID, "trigger", trigger, "error", err)
		return
	}
	if len(rules) == 0 {
		return
	}

	facts, err := e.facts.CardFacts(cardID)
	if err != nil {
		e.logger.Warnw("Failed to load card facts", "card_id", cardID, "error", err)
		return
	}

	for _, rule := range rules {
		e.runRule(rule, trigger, cardID, boardID, actorID, facts)
	}
}

func (e *Evaluator) runRule(rule *Rule, trigger string, cardID, boardID, actorID uint64, facts map[string]string) {
	exec := &Execution{
		ID:           uuid.NewString(),
		RuleID:       rule.ID,
		CardID:       cardID,
		TriggerEvent: trigger,
		Status:       StatusPending,
	}
	if err := e.repo.CreateExecution(exec); err != nil {
		e.logger.Errorw("Failed to create execution", "rule_id", rule.ID, "error", err)
		return
	}

	now := time.Now().UTC()
	exec.Status = StatusRunning
	exec.StartedAt = &now
	if err := e.repo.UpdateExecution(exec); err != nil {
		e.logger.Errorw("Failed to start execution", "execution_id", exec.ID, "error", err)
		return
	}

	matched, condLog := EvaluateConditions(rule.Conditions, facts)
	exec.Log = append(exec.Log, condLog...)
	exec.Matched = matched

	// The counter tracks trigger matches, so it advances once per evaluation
	// whether or not the conditions held.
	if err := e.repo.RecordRuleExecution(rule.ID, time.Now().UTC()); err != nil {
		e.logger.Warnw("Failed to record rule execution", "rule_id", rule.ID, "error", err)
	}

	if !matched {
		e.finish(exec, StatusCompleted)
		return
	}

	// Actions run in declared order. A failed action marks the execution
	// failed but the remaining actions still get their chance.
	failed := false
	for i, action := range rule.Actions {
		err := e.runAction(action, cardID, boardID, actorID)
		entry := LogEntry{
			At:     time.Now().UTC(),
			Kind:   "action",
			Detail: fmt.Sprintf("action %d (%s)", i, action.Type),
			OK:     err == nil,
		}
		if err != nil {
			entry.Detail = fmt.Sprintf("%s: %v", entry.Detail, err)
			failed = true
			e.logger.Warnw("Automation action failed",
				"rule_id", rule.ID,
				"execution_id", exec.ID,
				"action", action.Type,
				"error", err,
			)
		}
		exec.Log = append(exec.Log, entry)
	}

	if failed {
		e.finish(exec, StatusFailed)
		return
	}
	e.finish(exec, StatusCompleted)
}

func (e *Evaluator) finish(exec *Execution, status string) {
	now := time.Now().UTC()
	exec.Status = status
	exec.FinishedAt = &now
	if err := e.repo.UpdateExecution(exec); err != nil {
		e.logger.Errorw("Failed to finish execution", "execution_id", exec.ID, "error", err)
	}
}

func (e *Evaluator) runAction(action Action, cardID, boardID, actorID uint64) error {
	switch action.Type {
	case ActionMoveCard:
		columnID, err := paramUint(action.Params, "column_id")
		if err != nil {
			return err
		}
		return e.actions.MoveCard(actorID, cardID, columnID)
	case ActionSetPriority:
		priority, err := paramString(action.Params, "priority")
		if err != nil {
			return err
		}
		return e.actions.SetPriority(actorID, cardID, priority)
	case ActionSetDueDate:
		raw, err := paramString(action.Params, "due_date")
		if err != nil {
			return err
		}
		due, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("action param %q must be a YYYY-MM-DD date: %w", "due_date", err)
		}
		return e.actions.SetDueDate(actorID, cardID, due)
	case ActionAssignMember:
		userID, err := paramUint(action.Params, "user_id")
		if err != nil {
			return err
		}
		return e.actions.AssignMember(actorID, cardID, userID)
	case ActionAddLabel:
		labelID, err := paramUint(action.Params, "label_id")
		if err != nil {
			return err
		}
		return e.actions.AddLabel(actorID, cardID, labelID)
	case ActionCompleteCard:
		return e.actions.CompleteCard(actorID, cardID)
	case ActionNotify:
		title, err := paramString(action.Params, "title")
		if err != nil {
			return err
		}
		message, _ := paramString(action.Params, "message")
		return e.notifier.NotifyBoard(boardID, actorID, cardID, title, message)
	case ActionNotifyUser:
		userID, err := paramUint(action.Params, "user_id")
		if err != nil {
			return err
		}
		title, err := paramString(action.Params, "title")
		if err != nil {
			return err
		}
		message, _ := paramString(action.Params, "message")
		return e.notifier.NotifyUser(userID, cardID, title, message)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

// EvaluateConditions folds the conditions left to right using each condition's
// logical operator against the running result. Every condition is evaluated
// and logged even when the outcome is already decided, so execution logs show
// the full picture.
func EvaluateConditions(conditions []Condition, facts map[string]string) (bool, []LogEntry) {
	if len(conditions) == 0 {
		return true, nil
	}

	entries := make([]LogEntry, 0, len(conditions))
	result := false
	for i, cond := range conditions {
		ok := evaluateCondition(cond, facts)
		entries = append(entries, LogEntry{
			At:     time.Now().UTC(),
			Kind:   "condition",
			Detail: fmt.Sprintf("condition %d: %s %s %q -> %t", i, cond.Field, cond.Operator, cond.Value, ok),
			OK:     ok,
		})

		if i == 0 {
			result = ok
			continue
		}
		if strings.EqualFold(cond.LogicalOperator, LogicalOr) {
			result = result || ok
		} else {
			result = result && ok
		}
	}
	return result, entries
}

func evaluateCondition(cond Condition, facts map[string]string) bool {
	val, present := facts[cond.Field]
	switch cond.Operator {
	case OpEquals:
		return present && val == cond.Value
	case OpNotEquals:
		return !present || val != cond.Value
	case OpContains:
		return present && strings.Contains(strings.ToLower(val), strings.ToLower(cond.Value))
	case OpGreaterThan:
		a, b, ok := numericPair(val, cond.Value, present)
		return ok && a > b
	case OpLessThan:
		a, b, ok := numericPair(val, cond.Value, present)
		return ok && a < b
	case OpIsSet:
		return present && val != ""
	case OpIsEmpty:
		return !present || val == ""
	default:
		return false
	}
}

func numericPair(val, ref string, present bool) (float64, float64, bool) {
	if !present {
		return 0, 0, false
	}
	a, err1 := strconv.ParseFloat(val, 64)
	b, err2 := strconv.ParseFloat(ref, 64)
	return a, b, err1 == nil && err2 == nil
}

func paramString(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing action param %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("action param %q must be a string", key)
	}
	return s, nil
}

// paramUint tolerates the float64 that JSON round-trips numbers into.
func paramUint(params map[string]interface{}, key string) (uint64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing action param %q", key)
	}
	switch n := v.(type) {
	case float64:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int:
		return uint64(n), nil
	case string:
		return strconv.ParseUint(n, 10, 64)
	default:
		return 0, fmt.Errorf("action param %q must be numeric", key)
	}
}
