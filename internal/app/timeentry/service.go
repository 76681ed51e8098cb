package timeentry

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/policy"
)

type Service interface {
	LogTime(id policy.Identity, cardID uint64, req CreateEntryRequest) (*Entry, error)
	ListByCard(id policy.Identity, cardID uint64) (*SummaryResponse, error)
	ListMine(id policy.Identity, from, to string) (*UserSummaryResponse, error)
	UpdateEntry(id policy.Identity, entryID uint64, req UpdateEntryRequest) (*Entry, error)
	DeleteEntry(id policy.Identity, entryID uint64) error
}

type service struct {
	repo     Repository
	cardRepo card.Repository
	boardSvc board.Service
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, cardRepo card.Repository, boardSvc board.Service, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		cardRepo: cardRepo,
		boardSvc: boardSvc,
		logger:   logger.Sugar(),
	}
}

func (s *service) LogTime(id policy.Identity, cardID uint64, req CreateEntryRequest) (*Entry, error) {
	if err := s.authorizeCard(id, policy.ActionEdit, cardID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(dayLayout, req.Day); err != nil {
		return nil, apperr.Invariant("day must be formatted as %s", dayLayout)
	}

	entry := &Entry{
		CardID: cardID,
		UserID: id.UserID,
		Day:    req.Day,
		Hours:  req.Hours,
		Note:   req.Note,
	}
	if err := s.repo.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to log time: %w", err)
	}
	s.sync(cardID)
	return entry, nil
}

func (s *service) ListByCard(id policy.Identity, cardID uint64) (*SummaryResponse, error) {
	if err := s.authorizeCard(id, policy.ActionView, cardID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByCard(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	total, err := s.repo.SumByCard(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum time entries: %w", err)
	}
	return &SummaryResponse{Entries: entries, Total: total}, nil
}

// ListMine reports the caller's own entries, so no board check applies.
func (s *service) ListMine(id policy.Identity, from, to string) (*UserSummaryResponse, error) {
	for _, day := range []string{from, to} {
		if day == "" {
			continue
		}
		if _, err := time.Parse(dayLayout, day); err != nil {
			return nil, apperr.Invariant("range bounds must be formatted as %s", dayLayout)
		}
	}

	entries, err := s.repo.ListByUser(id.UserID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	var (
		days  []DayTotal
		total float64
	)
	for _, entry := range entries {
		total += entry.Hours
		if n := len(days); n > 0 && days[n-1].Day == entry.Day {
			days[n-1].Hours += entry.Hours
			continue
		}
		days = append(days, DayTotal{Day: entry.Day, Hours: entry.Hours})
	}
	return &UserSummaryResponse{Entries: entries, Days: days, Total: total}, nil
}

func (s *service) UpdateEntry(id policy.Identity, entryID uint64, req UpdateEntryRequest) (*Entry, error) {
	entry, err := s.loadOwn(id, entryID)
	if err != nil {
		return nil, err
	}
	if req.Day != nil {
		if _, err := time.Parse(dayLayout, *req.Day); err != nil {
			return nil, apperr.Invariant("day must be formatted as %s", dayLayout)
		}
		entry.Day = *req.Day
	}
	if req.Hours != nil {
		if *req.Hours <= 0 {
			return nil, apperr.Invariant("hours must be positive")
		}
		entry.Hours = *req.Hours
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}
	if err := s.repo.UpdateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to update time entry: %w", err)
	}
	s.sync(entry.CardID)
	return entry, nil
}

func (s *service) DeleteEntry(id policy.Identity, entryID uint64) error {
	entry, err := s.loadOwn(id, entryID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEntry(entryID); err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	s.sync(entry.CardID)
	return nil
}

// loadOwn resolves an entry its author may change; others need board manage
// rights.
func (s *service) loadOwn(id policy.Identity, entryID uint64) (*Entry, error) {
	entry, err := s.repo.GetEntryByID(entryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("time entry %d does not exist", entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load time entry: %w", err)
	}
	if entry.UserID == id.UserID {
		return entry, nil
	}
	if err := s.authorizeCard(id, policy.ActionManage, entry.CardID); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) authorizeCard(id policy.Identity, action policy.Action, cardID uint64) error {
	c, err := s.cardRepo.GetCardByID(cardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("card %d does not exist", cardID)
	}
	if err != nil {
		return fmt.Errorf("failed to load card: %w", err)
	}
	target, err := s.boardSvc.Target(c.BoardID)
	if err != nil {
		return err
	}
	return policy.Authorize(id, action, target)
}

func (s *service) sync(cardID uint64) {
	if err := s.repo.SyncCardActualHours(cardID); err != nil {
		s.logger.Warnw("Failed to sync card actual hours", "card_id", cardID, "error", err)
	}
}
