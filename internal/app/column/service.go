package column

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
	ListColumns(id policy.Identity, boardID uint64) ([]*Column, error)
	CreateColumn(id policy.Identity, boardID uint64, req CreateColumnRequest) (*Column, error)
	UpdateColumn(id policy.Identity, columnID uint64, req UpdateColumnRequest) (*Column, error)
	MoveColumn(id policy.Identity, columnID uint64, req MoveColumnRequest) ([]*Column, error)
	DeleteColumn(id policy.Identity, columnID uint64) error

	// GetColumn resolves a column without a policy check; used by the card
	// service to find a card's board.
	GetColumn(columnID uint64) (*Column, error)
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

func (s *service) ListColumns(id policy.Identity, boardID uint64) ([]*Column, error) {
	if err := s.authorize(id, policy.ActionView, boardID); err != nil {
		return nil, err
	}
	return s.repo.ListByBoard(boardID)
}

func (s *service) CreateColumn(id policy.Identity, boardID uint64, req CreateColumnRequest) (*Column, error) {
	if err := s.authorize(id, policy.ActionEdit, boardID); err != nil {
		return nil, err
	}
	col := &Column{
		BoardID:   boardID,
		Title:     req.Title,
		IsDefault: req.IsDefault,
	}
	index := int(^uint(0) >> 1) // append by default
	if req.Index != nil {
		index = *req.Index
	}
	if err := s.repo.CreateColumn(col, index); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return s.GetColumn(col.ID)
}

func (s *service) UpdateColumn(id policy.Identity, columnID uint64, req UpdateColumnRequest) (*Column, error) {
	col, err := s.GetColumn(columnID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, col.BoardID); err != nil {
		return nil, err
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.Invariant("column title must not be empty")
		}
		col.Title = *req.Title
	}
	if err := s.repo.UpdateColumn(col); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}
	return col, nil
}

func (s *service) MoveColumn(id policy.Identity, columnID uint64, req MoveColumnRequest) ([]*Column, error) {
	col, err := s.GetColumn(columnID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, col.BoardID); err != nil {
		return nil, err
	}
	if err := s.repo.MoveColumn(columnID, req.Index); err != nil {
		return nil, fmt.Errorf("failed to move column: %w", err)
	}
	return s.repo.ListByBoard(col.BoardID)
}

func (s *service) DeleteColumn(id policy.Identity, columnID uint64) error {
	col, err := s.GetColumn(columnID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, col.BoardID); err != nil {
		return err
	}
	if col.IsDefault {
		count, err := s.repo.CardCount(columnID)
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		if count > 0 {
			return apperr.Invariant("default column %d still holds %d cards", columnID, count)
		}
	}
	if err := s.repo.DeleteColumn(columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	s.logger.Infow("Column deleted", "column_id", columnID, "board_id", col.BoardID)
	return nil
}

func (s *service) GetColumn(columnID uint64) (*Column, error) {
	col, err := s.repo.GetColumnByID(columnID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("column %d does not exist", columnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load column: %w", err)
	}
	return col, nil
}

func (s *service) authorize(id policy.Identity, action policy.Action, boardID uint64) error {
	target, err := s.boardSvc.Target(boardID)
	if err != nil {
		return err
	}
	return policy.Authorize(id, action, target)
}
