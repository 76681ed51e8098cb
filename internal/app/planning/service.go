package planning

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
	CreateRecord(id policy.Identity, boardID uint64, req CreateRecordRequest) (*Record, error)
	ListRecords(id policy.Identity, boardID uint64, kind string) ([]*Record, error)
	UpdateRecord(id policy.Identity, recordID uint64, req UpdateRecordRequest) (*Record, error)
	DeleteRecord(id policy.Identity, recordID uint64) error
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

func (s *service) CreateRecord(id policy.Identity, boardID uint64, req CreateRecordRequest) (*Record, error) {
	if err := s.authorize(id, policy.ActionEdit, boardID); err != nil {
		return nil, err
	}
	if !IsValidKind(req.Kind) {
		return nil, apperr.Invariant("unknown planning record kind %q", req.Kind)
	}
	rec := &Record{
		BoardID:   boardID,
		Kind:      req.Kind,
		Title:     req.Title,
		Payload:   req.Payload,
		CreatorID: id.UserID,
	}
	if err := s.repo.CreateRecord(rec); err != nil {
		return nil, fmt.Errorf("failed to create planning record: %w", err)
	}
	return rec, nil
}

func (s *service) ListRecords(id policy.Identity, boardID uint64, kind string) ([]*Record, error) {
	if err := s.authorize(id, policy.ActionView, boardID); err != nil {
		return nil, err
	}
	if kind != "" && !IsValidKind(kind) {
		return nil, apperr.Invariant("unknown planning record kind %q", kind)
	}
	return s.repo.ListByBoard(boardID, kind)
}

func (s *service) UpdateRecord(id policy.Identity, recordID uint64, req UpdateRecordRequest) (*Record, error) {
	rec, err := s.load(recordID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, rec.BoardID); err != nil {
		return nil, err
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.Invariant("planning record title must not be empty")
		}
		rec.Title = *req.Title
	}
	if req.Payload != nil {
		rec.Payload = *req.Payload
	}
	if err := s.repo.UpdateRecord(rec); err != nil {
		return nil, fmt.Errorf("failed to update planning record: %w", err)
	}
	return rec, nil
}

func (s *service) DeleteRecord(id policy.Identity, recordID uint64) error {
	rec, err := s.load(recordID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, rec.BoardID); err != nil {
		return err
	}
	if err := s.repo.DeleteRecord(recordID); err != nil {
		return fmt.Errorf("failed to delete planning record: %w", err)
	}
	return nil
}

func (s *service) load(recordID uint64) (*Record, error) {
	rec, err := s.repo.GetRecordByID(recordID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("planning record %d does not exist", recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load planning record: %w", err)
	}
	return rec, nil
}

func (s *service) authorize(id policy.Identity, action policy.Action, boardID uint64) error {
	target, err := s.boardSvc.Target(boardID)
	if err != nil {
		return err
	}
	return policy.Authorize(id, action, target)
}
