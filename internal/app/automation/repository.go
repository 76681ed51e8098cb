package automation

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateRule(rule *Rule) error
	GetRuleByID(id uint64) (*Rule, error)
	ListByBoard(boardID uint64) ([]*Rule, error)
	ListEnabledByTrigger(boardID uint64, trigger string) ([]*Rule, error)
	UpdateRule(rule *Rule) error
	DeleteRule(id uint64) error
	RecordRuleExecution(ruleID uint64, at time.Time) error

	CreateExecution(exec *Execution) error
	UpdateExecution(exec *Execution) error
	ListExecutions(ruleID uint64) ([]*Execution, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRule(rule *Rule) error {
	return r.db.Create(rule).Error
}

func (r *repository) GetRuleByID(id uint64) (*Rule, error) {
	var rule Rule
	err := r.db.Where("id = ?", id).First(&rule).Error
	return &rule, err
}

func (r *repository) ListByBoard(boardID uint64) ([]*Rule, error) {
	var rules []*Rule
	err := r.db.
		Where("board_id = ?", boardID).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) ListEnabledByTrigger(boardID uint64, trigger string) ([]*Rule, error) {
	var rules []*Rule
	err := r.db.
		Where("board_id = ? AND trigger = ? AND enabled = true", boardID, trigger).
		Order("id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) UpdateRule(rule *Rule) error {
	return r.db.Save(rule).Error
}

func (r *repository) DeleteRule(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM automation_executions WHERE rule_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Rule{}, id).Error
	})
}

func (r *repository) RecordRuleExecution(ruleID uint64, at time.Time) error {
	return r.db.Model(&Rule{}).Where("id = ?", ruleID).Updates(map[string]interface{}{
		"execution_count":  gorm.Expr("execution_count + 1"),
		"last_executed_at": at,
	}).Error
}

func (r *repository) CreateExecution(exec *Execution) error {
	return r.db.Create(exec).Error
}

func (r *repository) UpdateExecution(exec *Execution) error {
	return r.db.Save(exec).Error
}

func (r *repository) ListExecutions(ruleID uint64) ([]*Execution, error) {
	var execs []*Execution
	err := r.db.
		Where("rule_id = ?", ruleID).
		Order("created_at DESC").
		Limit(100).
		Find(&execs).Error
	return execs, err
}
