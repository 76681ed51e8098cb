package automation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/app/board"
	"taskboard/internal/policy"
)

type Service interface {
	CreateRule(id policy.Identity, boardID uint64, req CreateRuleRequest) (*Rule, error)
	ListRules(id policy.Identity, boardID uint64) ([]*Rule, error)
	GetRule(id policy.Identity, ruleID uint64) (*Rule, error)
	UpdateRule(id policy.Identity, ruleID uint64, req UpdateRuleRequest) (*Rule, error)
	DeleteRule(id policy.Identity, ruleID uint64) error
	ListExecutions(id policy.Identity, ruleID uint64) ([]*Execution, error)
}

type service struct {
	repo     Repository
	boardSvc board.Service
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, boardSvc board.Service, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		boardSvc: boardSvc,
		logger:   logger.Sugar(),
	}
}

func (s *service) CreateRule(id policy.Identity, boardID uint64, req CreateRuleRequest) (*Rule, error) {
	if err := s.authorize(id, policy.ActionManage, boardID); err != nil {
		return nil, err
	}
	if err := validateRule(req.Trigger, req.Conditions, req.Actions); err != nil {
		return nil, err
	}

	rule := &Rule{
		BoardID:    boardID,
		Name:       req.Name,
		Trigger:    req.Trigger,
		Enabled:    true,
		Conditions: req.Conditions,
		Actions:    req.Actions,
		CreatorID:  id.UserID,
	}
	if err := s.repo.CreateRule(rule); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}
	s.logger.Infow("Automation rule created", "rule_id", rule.ID, "board_id", boardID, "trigger", rule.Trigger)
	return rule, nil
}

func (s *service) ListRules(id policy.Identity, boardID uint64) ([]*Rule, error) {
	if err := s.authorize(id, policy.ActionView, boardID); err != nil {
		return nil, err
	}
	return s.repo.ListByBoard(boardID)
}

func (s *service) GetRule(id policy.Identity, ruleID uint64) (*Rule, error) {
	rule, err := s.load(ruleID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionView, rule.BoardID); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) UpdateRule(id policy.Identity, ruleID uint64, req UpdateRuleRequest) (*Rule, error) {
	rule, err := s.load(ruleID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionManage, rule.BoardID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.Invariant("rule name must not be empty")
		}
		rule.Name = *req.Name
	}
	if req.Trigger != nil {
		rule.Trigger = *req.Trigger
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.Conditions != nil {
		rule.Conditions = *req.Conditions
	}
	if req.Actions != nil {
		rule.Actions = *req.Actions
	}
	if err := validateRule(rule.Trigger, rule.Conditions, rule.Actions); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRule(rule); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}
	return rule, nil
}

func (s *service) DeleteRule(id policy.Identity, ruleID uint64) error {
	rule, err := s.load(ruleID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionManage, rule.BoardID); err != nil {
		return err
	}
	if err := s.repo.DeleteRule(ruleID); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	s.logger.Infow("Automation rule deleted", "rule_id", ruleID, "board_id", rule.BoardID)
	return nil
}

func (s *service) ListExecutions(id policy.Identity, ruleID uint64) ([]*Execution, error) {
	rule, err := s.load(ruleID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionView, rule.BoardID); err != nil {
		return nil, err
	}
	return s.repo.ListExecutions(ruleID)
}

func validateRule(trigger string, conditions []Condition, actions []Action) error {
	if !IsValidTrigger(trigger) {
		return apperr.Invariant("unknown trigger %q", trigger)
	}
	for i, cond := range conditions {
		if cond.Field == "" {
			return apperr.Invariant("condition %d has no field", i)
		}
		if !IsValidOperator(cond.Operator) {
			return apperr.Invariant("condition %d uses unknown operator %q", i, cond.Operator)
		}
		if cond.LogicalOperator != "" && cond.LogicalOperator != LogicalAnd && cond.LogicalOperator != LogicalOr {
			return apperr.Invariant("condition %d uses unknown logical operator %q", i, cond.LogicalOperator)
		}
	}
	if len(actions) == 0 {
		return apperr.Invariant("rule needs at least one action")
	}
	for i, action := range actions {
		if !IsValidActionType(action.Type) {
			return apperr.Invariant("action %d has unknown type %q", i, action.Type)
		}
	}
	return nil
}

func (s *service) load(ruleID uint64) (*Rule, error) {
	rule, err := s.repo.GetRuleByID(ruleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("rule %d does not exist", ruleID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule: %w", err)
	}
	return rule, nil
}

func (s *service) authorize(id policy.Identity, action policy.Action, boardID uint64) error {
	target, err := s.boardSvc.Target(boardID)
	if err != nil {
		return err
	}
	return policy.Authorize(id, action, target)
}
