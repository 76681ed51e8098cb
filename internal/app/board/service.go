package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/app/user"
	"taskboard/internal/policy"
	"taskboard/internal/providers/redis"
)

type Service interface {
	CreateBoard(id policy.Identity, req CreateBoardRequest) (*Board, error)
	GetBoard(id policy.Identity, boardID uint64) (*Board, error)
	ListBoards(id policy.Identity) ([]*Board, error)
	UpdateBoard(id policy.Identity, boardID uint64, req UpdateBoardRequest) (*Board, error)
	DeleteBoard(id policy.Identity, boardID uint64) error
	AddMember(id policy.Identity, boardID, userID uint64) (*Board, error)
	RemoveMember(id policy.Identity, boardID, userID uint64) (*Board, error)

	// Target loads the ownership facts of a board for policy checks. Used by
	// the column and card services before every mutation.
	Target(boardID uint64) (policy.BoardTarget, error)
}

type service struct {
	repo        Repository
	userRepo    user.Repository
	redisP      *redis.RedisProvider
	logger      *zap.SugaredLogger
	cachePrefix string
}

func NewService(repo Repository, userRepo user.Repository, redisP *redis.RedisProvider, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		userRepo:    userRepo,
		redisP:      redisP,
		logger:      logger.Sugar(),
		cachePrefix: "boards:user",
	}
}

func (s *service) CreateBoard(id policy.Identity, req CreateBoardRequest) (*Board, error) {
	board := &Board{
		Title:       req.Title,
		Description: req.Description,
		Background:  req.Background,
		CreatorID:   id.UserID,
	}
	if err := s.repo.CreateBoard(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	if err := s.repo.AddMember(board.ID, id.UserID); err != nil {
		s.logger.Warnw("Failed to add creator as member", "board_id", board.ID, "error", err)
	}
	s.invalidateCache()
	return s.reload(board.ID)
}

func (s *service) GetBoard(id policy.Identity, boardID uint64) (*Board, error) {
	board, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	target := targetOf(board)
	if err := policy.Authorize(id, policy.ActionView, target); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *service) ListBoards(id policy.Identity) ([]*Board, error) {
	cacheKey := fmt.Sprintf("%s:%d", s.cachePrefix, id.UserID)
	if s.redisP != nil {
		ctx := context.Background()
		if cached, err := s.redisP.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var boards []*Board
			if json.Unmarshal([]byte(cached), &boards) == nil {
				return boards, nil
			}
		}
	}

	boards, err := s.repo.ListBoardsForUser(id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}

	if s.redisP != nil && len(boards) > 0 {
		if data, err := json.Marshal(boards); err == nil {
			s.redisP.SetEX(context.Background(), cacheKey, data, 5*time.Minute)
		}
	}
	return boards, nil
}

func (s *service) UpdateBoard(id policy.Identity, boardID uint64, req UpdateBoardRequest) (*Board, error) {
	board, err := s.load(boardID)
	if err != nil {
		return nil, err
	}

	action := policy.ActionEdit
	if req.IsArchived != nil {
		action = policy.ActionManage
	}
	if err := policy.Authorize(id, action, targetOf(board)); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.Invariant("board title must not be empty")
		}
		board.Title = *req.Title
	}
	if req.Description != nil {
		board.Description = req.Description
	}
	if req.Background != nil {
		board.Background = *req.Background
	}
	if req.IsArchived != nil {
		board.IsArchived = *req.IsArchived
	}
	if req.IsStarred != nil {
		board.IsStarred = *req.IsStarred
	}

	if err := s.repo.UpdateBoard(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	s.invalidateCache()
	return board, nil
}

func (s *service) DeleteBoard(id policy.Identity, boardID uint64) error {
	board, err := s.load(boardID)
	if err != nil {
		return err
	}
	if err := policy.Authorize(id, policy.ActionManage, targetOf(board)); err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	s.logger.Infow("Board deleted", "board_id", boardID, "actor_id", id.UserID)
	s.invalidateCache()
	return nil
}

func (s *service) AddMember(id policy.Identity, boardID, userID uint64) (*Board, error) {
	board, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(id, policy.ActionManage, targetOf(board)); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d does not exist", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.repo.AddMember(boardID, userID); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	s.invalidateCache()
	return s.reload(boardID)
}

func (s *service) RemoveMember(id policy.Identity, boardID, userID uint64) (*Board, error) {
	board, err := s.load(boardID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(id, policy.ActionManage, targetOf(board)); err != nil {
		return nil, err
	}
	if userID == board.CreatorID {
		return nil, apperr.Invariant("board creator cannot be removed from board %d", boardID)
	}
	if err := s.repo.RemoveMember(boardID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	s.invalidateCache()
	return s.reload(boardID)
}

func (s *service) Target(boardID uint64) (policy.BoardTarget, error) {
	board, err := s.load(boardID)
	if err != nil {
		return policy.BoardTarget{}, err
	}
	return targetOf(board), nil
}

func (s *service) load(boardID uint64) (*Board, error) {
	board, err := s.repo.GetBoardByID(boardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("board %d does not exist", boardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return board, nil
}

func (s *service) reload(boardID uint64) (*Board, error) {
	return s.load(boardID)
}

// Membership changes affect other users' cached lists, so the whole prefix
// is dropped.
func (s *service) invalidateCache() {
	if s.redisP == nil {
		return
	}
	deleted := s.redisP.DelPattern(context.Background(), s.cachePrefix+":*")
	if deleted > 0 {
		s.logger.Debugw("Board list cache invalidated", "deleted_keys", deleted)
	}
}

func targetOf(board *Board) policy.BoardTarget {
	memberIDs := make([]uint64, 0, len(board.Members))
	for _, m := range board.Members {
		memberIDs = append(memberIDs, m.ID)
	}
	return policy.BoardTarget{
		BoardID:   board.ID,
		CreatorID: board.CreatorID,
		MemberIDs: memberIDs,
	}
}
