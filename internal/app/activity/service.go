package activity

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/apperr"
)

type Service interface {
	// Append records one entry and returns it along with its
	// timestamp-ordered position in the card's feed.
	Append(cardID, userID uint64, entryType, detail string) (*Entry, int, error)
	Feed(cardID uint64) ([]*Entry, error)
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Sugar(),
	}
}

func (s *service) Append(cardID, userID uint64, entryType, detail string) (*Entry, int, error) {
	if !IsValidType(entryType) {
		return nil, 0, apperr.Invariant("unknown activity type %q", entryType)
	}
	entry := &Entry{
		CardID:    cardID,
		UserID:    userID,
		Type:      entryType,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Append(entry); err != nil {
		return nil, 0, fmt.Errorf("failed to append activity: %w", err)
	}
	count, err := s.repo.CountByCard(cardID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return entry, int(count) - 1, nil
}

func (s *service) Feed(cardID uint64) ([]*Entry, error) {
	return s.repo.ListByCard(cardID)
}
