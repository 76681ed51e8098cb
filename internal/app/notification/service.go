package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/policy"
	"taskboard/internal/providers/redis"
	"taskboard/internal/utils"
)

const unreadCacheTTL = time.Minute

// MembersResolver reports a board's current member set. Resolution happens at
// dispatch time, so members added after an event still receive its
// notification and removed ones do not.
type MembersResolver interface {
	ResolveMembers(boardID uint64) ([]uint64, error)
}

type Draft struct {
	Type    string
	Title   string
	Message string
	BoardID *uint64
	CardID  *uint64
}

type Service interface {
	NotifyUser(userID uint64, draft Draft) (*Notification, error)
	NotifyBoardMembers(boardID, excludeUserID uint64, draft Draft) error

	ListNotifications(id policy.Identity) (*ListResponse, error)
	MarkRead(id policy.Identity, notificationID uint64) error
	MarkAllRead(id policy.Identity) error
	Clear(id policy.Identity) error
	UnreadCount(id policy.Identity) (int64, error)
}

type service struct {
	repo     Repository
	resolver MembersResolver
	redisP   *redis.RedisProvider
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, resolver MembersResolver, redisP *redis.RedisProvider, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		resolver: resolver,
		redisP:   redisP,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

// NotifyUser stores one notification after checking its referenced entities
// still exist; events about deleted cards or boards are dropped rather than
// delivered dangling.
func (s *service) NotifyUser(userID uint64, draft Draft) (*Notification, error) {
	if draft.CardID != nil {
		exists, err := s.repo.CardExists(*draft.CardID)
		if err != nil {
			return nil, fmt.Errorf("failed to check card: %w", err)
		}
		if !exists {
			s.logger.Debugw("Dropping notification for deleted card", "card_id", *draft.CardID)
			return nil, nil
		}
	}
	if draft.BoardID != nil {
		exists, err := s.repo.BoardExists(*draft.BoardID)
		if err != nil {
			return nil, fmt.Errorf("failed to check board: %w", err)
		}
		if !exists {
			s.logger.Debugw("Dropping notification for deleted board", "board_id", *draft.BoardID)
			return nil, nil
		}
	}

	n := &Notification{
		UserID:  userID,
		Type:    draft.Type,
		Title:   draft.Title,
		Message: draft.Message,
		BoardID: draft.BoardID,
		CardID:  draft.CardID,
	}
	if err := s.repo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.invalidate(userID)
	if s.eventBus != nil {
		s.eventBus.Publish("notification_created", map[string]interface{}{
			"user_id":         userID,
			"notification_id": n.ID,
			"type":            n.Type,
			"title":           n.Title,
			"message":         n.Message,
		})
	}
	return n, nil
}

// NotifyBoardMembers fans a draft out to every current board member, one
// notification per member. The exclusion is caller-controlled: passing zero
// delivers to the full member list, passing the acting user suppresses their
// own copy. Individual failures do not stop the fan-out; if some deliveries
// fail the aggregate error reports which ones.
func (s *service) NotifyBoardMembers(boardID, excludeUserID uint64, draft Draft) error {
	members, err := s.resolver.ResolveMembers(boardID)
	if err != nil {
		return fmt.Errorf("failed to resolve board members: %w", err)
	}

	var failures []string
	delivered := 0
	for _, userID := range members {
		if userID == excludeUserID {
			continue
		}
		if _, err := s.NotifyUser(userID, draft); err != nil {
			s.logger.Warnw("Failed to notify member", "user_id", userID, "board_id", boardID, "error", err)
			failures = append(failures, fmt.Sprintf("user %d: %v", userID, err))
			continue
		}
		delivered++
	}

	if len(failures) > 0 {
		return apperr.Partial(fmt.Sprintf("delivered %d of %d notifications", delivered, delivered+len(failures)), failures)
	}
	return nil
}

func (s *service) ListNotifications(id policy.Identity) (*ListResponse, error) {
	notifications, err := s.repo.ListByUser(id.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := s.UnreadCount(id)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead is idempotent: re-marking a read notification succeeds without
// effect.
func (s *service) MarkRead(id policy.Identity, notificationID uint64) error {
	n, err := s.repo.GetByID(notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("notification %d does not exist", notificationID)
	}
	if err != nil {
		return fmt.Errorf("failed to load notification: %w", err)
	}
	if n.UserID != id.UserID {
		return apperr.Unauthorized("notification %d belongs to another user", notificationID)
	}
	if n.Read {
		return nil
	}
	if err := s.repo.MarkRead(notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	s.invalidate(id.UserID)
	return nil
}

func (s *service) MarkAllRead(id policy.Identity) error {
	if err := s.repo.MarkAllRead(id.UserID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	s.invalidate(id.UserID)
	return nil
}

func (s *service) Clear(id policy.Identity) error {
	if err := s.repo.Clear(id.UserID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	s.invalidate(id.UserID)
	return nil
}

func (s *service) UnreadCount(id policy.Identity) (int64, error) {
	cacheKey := fmt.Sprintf("notifications:unread:%d", id.UserID)
	if s.redisP != nil {
		if cached, err := s.redisP.Get(context.Background(), cacheKey).Int64(); err == nil {
			return cached, nil
		}
	}
	count, err := s.repo.UnreadCount(id.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if s.redisP != nil {
		s.redisP.SetEX(context.Background(), cacheKey, count, unreadCacheTTL)
	}
	return count, nil
}

func (s *service) invalidate(userID uint64) {
	if s.redisP == nil {
		return
	}
	s.redisP.Del(context.Background(), fmt.Sprintf("notifications:unread:%d", userID))
}
