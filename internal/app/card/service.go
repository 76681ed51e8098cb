package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/column"
	"taskboard/internal/app/label"
	"taskboard/internal/app/recurrence"
	"taskboard/internal/policy"
	"taskboard/internal/providers/minio"
	"taskboard/internal/providers/redis"
	"taskboard/internal/utils"
)

const cardCacheTTL = 2 * time.Minute

type Service interface {
	ListBoardCards(id policy.Identity, boardID uint64) ([]*Card, error)
	GetCard(id policy.Identity, cardID uint64) (*Card, error)
	CreateCard(id policy.Identity, columnID uint64, req CreateCardRequest) (*Card, error)
	UpdateCard(id policy.Identity, cardID uint64, req UpdateCardRequest) (*Card, error)
	MoveCard(id policy.Identity, cardID uint64, req MoveCardRequest) (*Card, error)
	CompleteCard(id policy.Identity, cardID uint64) (*Card, error)
	ReopenCard(id policy.Identity, cardID uint64) (*Card, error)
	DeleteCard(id policy.Identity, cardID uint64) error

	AddSubtask(id policy.Identity, cardID uint64, req SubtaskRequest) (*Subtask, error)
	UpdateSubtask(id policy.Identity, subtaskID uint64, req UpdateSubtaskRequest) (*Subtask, error)
	DeleteSubtask(id policy.Identity, subtaskID uint64) error

	AddComment(id policy.Identity, cardID uint64, req CommentRequest) (*Comment, error)
	DeleteComment(id policy.Identity, commentID uint64) error

	AddLabel(id policy.Identity, cardID, labelID uint64) error
	RemoveLabel(id policy.Identity, cardID, labelID uint64) error
	AddMember(id policy.Identity, cardID, userID uint64) error
	RemoveMember(id policy.Identity, cardID, userID uint64) error

	UploadAttachment(ctx context.Context, id policy.Identity, cardID uint64, file *multipart.FileHeader) (*Attachment, error)
	DeleteAttachment(ctx context.Context, id policy.Identity, attachmentID uint64) error

	SetRecurrence(id policy.Identity, cardID uint64, req RecurrenceRequest) (*Card, error)
	ClearRecurrence(id policy.Identity, cardID uint64) (*Card, error)

	recurrence.Store
}

type service struct {
	repo        Repository
	boardSvc    board.Service
	columnSvc   column.Service
	labelRepo   label.Repository
	activitySvc activity.Service
	minioP      *minio.MinioProvider
	redisP      *redis.RedisProvider
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	columnSvc column.Service,
	labelRepo label.Repository,
	activitySvc activity.Service,
	minioP *minio.MinioProvider,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		boardSvc:    boardSvc,
		columnSvc:   columnSvc,
		labelRepo:   labelRepo,
		activitySvc: activitySvc,
		minioP:      minioP,
		redisP:      redisP,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
	}
}

func (s *service) ListBoardCards(id policy.Identity, boardID uint64) ([]*Card, error) {
	if err := s.authorize(id, policy.ActionView, boardID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("cards:board:%d", boardID)
	if s.redisP != nil {
		if cached, err := s.redisP.Get(context.Background(), cacheKey).Result(); err == nil && cached != "" {
			var cards []*Card
			if json.Unmarshal([]byte(cached), &cards) == nil {
				return cards, nil
			}
		}
	}

	cards, err := s.repo.ListByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	if s.redisP != nil && len(cards) > 0 {
		if data, err := json.Marshal(cards); err == nil {
			s.redisP.SetEX(context.Background(), cacheKey, data, cardCacheTTL)
		}
	}
	return cards, nil
}

func (s *service) GetCard(id policy.Identity, cardID uint64) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionView, card.BoardID); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *service) CreateCard(id policy.Identity, columnID uint64, req CreateCardRequest) (*Card, error) {
	col, err := s.columnSvc.GetColumn(columnID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, col.BoardID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !IsValidPriority(priority) {
		return nil, apperr.Invariant("unknown priority %q", priority)
	}
	if req.StartDate != nil && req.DueDate != nil && req.DueDate.Before(*req.StartDate) {
		return nil, apperr.Invariant("due date precedes start date")
	}

	card := &Card{
		BoardID:        col.BoardID,
		ColumnID:       columnID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       priority,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
		EstimatedHours: req.Estimated,
		CreatorID:      id.UserID,
	}
	index := int(^uint(0) >> 1)
	if req.Index != nil {
		index = *req.Index
	}
	if err := s.repo.CreateCard(card, index); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeCreated, "card created")
	s.publish("card_created", card, id.UserID)
	return s.load(card.ID)
}

func (s *service) UpdateCard(id policy.Identity, cardID uint64, req UpdateCardRequest) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title == "" {
		return nil, apperr.Invariant("card title must not be empty")
	}
	if req.Priority != nil && !IsValidPriority(*req.Priority) {
		return nil, apperr.Invariant("unknown priority %q", *req.Priority)
	}

	var priorityChanged, dueChanged, otherChanged bool
	if req.Title != nil && *req.Title != card.Title {
		card.Title = *req.Title
		otherChanged = true
	}
	if req.Description != nil && *req.Description != card.Description {
		card.Description = *req.Description
		otherChanged = true
	}
	if req.Priority != nil && *req.Priority != card.Priority {
		card.Priority = *req.Priority
		priorityChanged = true
	}
	if req.Estimated != nil && *req.Estimated != card.EstimatedHours {
		card.EstimatedHours = *req.Estimated
		otherChanged = true
	}
	if req.StartDate != nil {
		card.StartDate = req.StartDate
		otherChanged = true
	}
	if req.DueDate != nil || req.ClearDue {
		if req.ClearDue {
			card.DueDate = nil
		} else {
			card.DueDate = req.DueDate
		}
		// A changed due date re-arms the due-soon notification.
		card.DueSoonNotifiedAt = nil
		dueChanged = true
	}
	if card.StartDate != nil && card.DueDate != nil && card.DueDate.Before(*card.StartDate) {
		return nil, apperr.Invariant("due date precedes start date")
	}

	if err := s.repo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.invalidate(card.BoardID)
	// Exactly one feed entry per update, tagged by the most specific change.
	switch {
	case priorityChanged && !dueChanged && !otherChanged:
		s.record(card, id.UserID, activity.TypePriority, fmt.Sprintf("priority set to %s", card.Priority))
	case dueChanged && !priorityChanged && !otherChanged:
		s.record(card, id.UserID, activity.TypeDueDate, "due date changed")
	default:
		s.record(card, id.UserID, activity.TypeUpdated, "card updated")
	}
	s.publish("card_updated", card, id.UserID)
	return s.load(cardID)
}

func (s *service) MoveCard(id policy.Identity, cardID uint64, req MoveCardRequest) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}

	target, err := s.columnSvc.GetColumn(req.ColumnID)
	if err != nil {
		return nil, err
	}
	if target.BoardID != card.BoardID {
		return nil, apperr.Invariant("column %d belongs to another board", req.ColumnID)
	}

	if err := s.repo.MoveCard(cardID, req.ColumnID, req.Index); err != nil {
		return nil, fmt.Errorf("failed to move card: %w", err)
	}

	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeMoved, fmt.Sprintf("moved to %s", target.Title))
	moved, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	s.publish("card_moved", moved, id.UserID)
	return moved, nil
}

func (s *service) CompleteCard(id policy.Identity, cardID uint64) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	if card.CompletedAt != nil {
		return card, nil
	}

	now := time.Now().UTC()
	card.CompletedAt = &now
	if err := s.repo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to complete card: %w", err)
	}

	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeUpdated, "card completed")
	s.publish("card_completed", card, id.UserID)
	return card, nil
}

func (s *service) ReopenCard(id policy.Identity, cardID uint64) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	if card.CompletedAt == nil {
		return card, nil
	}

	card.CompletedAt = nil
	if err := s.repo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to reopen card: %w", err)
	}

	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeUpdated, "card reopened")
	s.publish("card_updated", card, id.UserID)
	return card, nil
}

func (s *service) DeleteCard(id policy.Identity, cardID uint64) error {
	card, err := s.load(cardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	if err := s.repo.DeleteCard(cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if s.minioP != nil && len(card.Attachments) > 0 {
		if err := s.minioP.DeleteCardObjects(context.Background(), cardID); err != nil {
			s.logger.Warnw("Failed to delete card objects", "card_id", cardID, "error", err)
		}
	}
	s.invalidate(card.BoardID)
	s.logger.Infow("Card deleted", "card_id", cardID, "board_id", card.BoardID)
	return nil
}

func (s *service) AddSubtask(id policy.Identity, cardID uint64, req SubtaskRequest) (*Subtask, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	st := &Subtask{CardID: cardID, Title: req.Title}
	if err := s.repo.CreateSubtask(st); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeSubtask, fmt.Sprintf("subtask %q added", st.Title))
	return st, nil
}

func (s *service) UpdateSubtask(id policy.Identity, subtaskID uint64, req UpdateSubtaskRequest) (*Subtask, error) {
	st, err := s.repo.GetSubtaskByID(subtaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("subtask %d does not exist", subtaskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subtask: %w", err)
	}
	card, err := s.load(st.CardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, apperr.Invariant("subtask title must not be empty")
		}
		st.Title = *req.Title
	}
	if req.Done != nil {
		st.Done = *req.Done
	}
	if err := s.repo.UpdateSubtask(st); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeSubtask, fmt.Sprintf("subtask %q updated", st.Title))
	return st, nil
}

func (s *service) DeleteSubtask(id policy.Identity, subtaskID uint64) error {
	st, err := s.repo.GetSubtaskByID(subtaskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("subtask %d does not exist", subtaskID)
	}
	if err != nil {
		return fmt.Errorf("failed to load subtask: %w", err)
	}
	card, err := s.load(st.CardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	if err := s.repo.DeleteSubtask(subtaskID); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeSubtask, fmt.Sprintf("subtask %q removed", st.Title))
	return nil
}

func (s *service) AddComment(id policy.Identity, cardID uint64, req CommentRequest) (*Comment, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	cm := &Comment{CardID: cardID, UserID: id.UserID, Content: req.Content}
	if err := s.repo.CreateComment(cm); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeComment, "comment added")
	return cm, nil
}

func (s *service) DeleteComment(id policy.Identity, commentID uint64) error {
	cm, err := s.repo.GetCommentByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("comment %d does not exist", commentID)
	}
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	card, err := s.load(cm.CardID)
	if err != nil {
		return err
	}
	// Authors delete their own comments; otherwise board manage rights apply.
	if cm.UserID != id.UserID {
		if err := s.authorize(id, policy.ActionManage, card.BoardID); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteComment(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	s.invalidate(card.BoardID)
	return nil
}

func (s *service) AddLabel(id policy.Identity, cardID, labelID uint64) error {
	card, err := s.load(cardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	lbl, err := s.labelRepo.GetLabelByID(labelID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("label %d does not exist", labelID)
	}
	if err != nil {
		return fmt.Errorf("failed to load label: %w", err)
	}
	if err := s.repo.AttachLabel(cardID, labelID); err != nil {
		return fmt.Errorf("failed to attach label: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeLabel, fmt.Sprintf("label %q added", lbl.Name))
	return nil
}

func (s *service) RemoveLabel(id policy.Identity, cardID, labelID uint64) error {
	card, err := s.load(cardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	if err := s.repo.DetachLabel(cardID, labelID); err != nil {
		return fmt.Errorf("failed to detach label: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeLabel, "label removed")
	return nil
}

func (s *service) AddMember(id policy.Identity, cardID, userID uint64) error {
	card, err := s.load(cardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	target, err := s.boardSvc.Target(card.BoardID)
	if err != nil {
		return err
	}
	if !isBoardMember(target, userID) {
		return apperr.Invariant("user %d is not a member of board %d", userID, card.BoardID)
	}
	if err := s.repo.AttachMember(cardID, userID); err != nil {
		return fmt.Errorf("failed to attach member: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeMember, fmt.Sprintf("user %d assigned", userID))
	return nil
}

func (s *service) RemoveMember(id policy.Identity, cardID, userID uint64) error {
	card, err := s.load(cardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	if err := s.repo.DetachMember(cardID, userID); err != nil {
		return fmt.Errorf("failed to detach member: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeMember, fmt.Sprintf("user %d unassigned", userID))
	return nil
}

func (s *service) UploadAttachment(ctx context.Context, id policy.Identity, cardID uint64, file *multipart.FileHeader) (*Attachment, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	if s.minioP == nil {
		return nil, apperr.External("file storage is not configured", nil)
	}

	count, err := s.repo.CountAttachments(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attachments: %w", err)
	}
	if int(count) >= s.minioP.MaxFilesPerCard() {
		return nil, apperr.Invariant("card %d already holds %d attachments", cardID, count)
	}

	uploaded, err := s.minioP.UploadCardFile(ctx, cardID, file)
	if err != nil {
		return nil, apperr.External("failed to store attachment", err)
	}

	at := &Attachment{
		CardID:      cardID,
		FileID:      uploaded.FileID,
		FileName:    uploaded.FileName,
		FileURL:     uploaded.FileURL,
		FileSize:    uploaded.FileSize,
		ContentType: uploaded.ContentType,
		ObjectName:  uploaded.ObjectName,
		UploaderID:  id.UserID,
	}
	if err := s.repo.CreateAttachment(at); err != nil {
		_ = s.minioP.DeleteObject(ctx, uploaded.ObjectName)
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}

	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeAttachment, fmt.Sprintf("attachment %q added", at.FileName))
	return at, nil
}

func (s *service) DeleteAttachment(ctx context.Context, id policy.Identity, attachmentID uint64) error {
	at, err := s.repo.GetAttachmentByID(attachmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("attachment %d does not exist", attachmentID)
	}
	if err != nil {
		return fmt.Errorf("failed to load attachment: %w", err)
	}
	card, err := s.load(at.CardID)
	if err != nil {
		return err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return err
	}
	if err := s.repo.DeleteAttachment(attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if s.minioP != nil {
		if err := s.minioP.DeleteObject(ctx, at.ObjectName); err != nil {
			s.logger.Warnw("Failed to delete stored object", "object", at.ObjectName, "error", err)
		}
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeAttachment, fmt.Sprintf("attachment %q removed", at.FileName))
	return nil
}

func (s *service) SetRecurrence(id policy.Identity, cardID uint64, req RecurrenceRequest) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}
	if card.ParentRecurrenceID != nil {
		return nil, apperr.Invariant("card %d is a generated occurrence and cannot recur", cardID)
	}

	pattern := recurrence.Pattern{
		Type:           recurrence.Type(req.Type),
		Interval:       req.Interval,
		DaysOfWeek:     req.DaysOfWeek,
		DayOfMonth:     req.DayOfMonth,
		Start:          req.Start,
		EndDate:        req.EndDate,
		MaxOccurrences: req.MaxCount,
	}
	if err := pattern.Validate(); err != nil {
		return nil, err
	}

	typ := req.Type
	start := req.Start
	card.RecurrenceType = &typ
	card.RecurrenceInterval = req.Interval
	card.RecurrenceDaysOfWeek = encodeWeekdays(req.DaysOfWeek)
	card.RecurrenceDayOfMonth = req.DayOfMonth
	card.RecurrenceStart = &start
	card.RecurrenceEndDate = req.EndDate
	card.RecurrenceMaxCount = req.MaxCount
	card.RecurrenceCreatedCount = 0
	card.RecurrenceLastCreated = nil

	if err := s.repo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to set recurrence: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeUpdated, fmt.Sprintf("recurrence set to %s", req.Type))
	return card, nil
}

func (s *service) ClearRecurrence(id policy.Identity, cardID uint64) (*Card, error) {
	card, err := s.load(cardID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(id, policy.ActionEdit, card.BoardID); err != nil {
		return nil, err
	}

	card.RecurrenceType = nil
	card.RecurrenceInterval = 0
	card.RecurrenceDaysOfWeek = ""
	card.RecurrenceDayOfMonth = 0
	card.RecurrenceStart = nil
	card.RecurrenceEndDate = nil
	card.RecurrenceMaxCount = nil
	card.RecurrenceCreatedCount = 0
	card.RecurrenceLastCreated = nil

	if err := s.repo.UpdateCard(card); err != nil {
		return nil, fmt.Errorf("failed to clear recurrence: %w", err)
	}
	s.invalidate(card.BoardID)
	s.record(card, id.UserID, activity.TypeUpdated, "recurrence cleared")
	return card, nil
}

// ListTemplates feeds the recurrence scheduler.
func (s *service) ListTemplates(ctx context.Context) ([]recurrence.Template, error) {
	cards, err := s.repo.ListRecurringTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring cards: %w", err)
	}
	templates := make([]recurrence.Template, 0, len(cards))
	for _, c := range cards {
		p := c.Pattern()
		if p == nil {
			continue
		}
		templates = append(templates, recurrence.Template{
			CardID:       c.ID,
			Pattern:      *p,
			LastCreated:  c.RecurrenceLastCreated,
			CreatedCount: c.RecurrenceCreatedCount,
		})
	}
	return templates, nil
}

func (s *service) Materialize(ctx context.Context, cardID uint64, due time.Time) (bool, error) {
	clone, err := s.repo.MaterializeOccurrence(cardID, due)
	if err != nil {
		return false, fmt.Errorf("failed to materialize occurrence: %w", err)
	}
	if clone == nil {
		return false, nil
	}
	s.invalidate(clone.BoardID)
	s.record(clone, clone.CreatorID, activity.TypeCreated, "recurring card created")
	s.publish("card_created", clone, clone.CreatorID)
	return true, nil
}

func (s *service) ScanDueSoon(ctx context.Context, window time.Duration) error {
	now := time.Now().UTC()
	cards, err := s.repo.ListDueSoonUnnotified(now, window)
	if err != nil {
		return fmt.Errorf("failed to scan due-soon cards: %w", err)
	}
	for _, c := range cards {
		if err := s.repo.MarkDueSoonNotified(c.ID, now); err != nil {
			s.logger.Warnw("Failed to mark due-soon card", "card_id", c.ID, "error", err)
			continue
		}
		s.publish("card_due_soon", c, c.CreatorID)
	}
	return nil
}

func (s *service) load(cardID uint64) (*Card, error) {
	card, err := s.repo.GetCardByID(cardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("card %d does not exist", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return card, nil
}

func (s *service) authorize(id policy.Identity, action policy.Action, boardID uint64) error {
	target, err := s.boardSvc.Target(boardID)
	if err != nil {
		return err
	}
	return policy.Authorize(id, action, target)
}

func (s *service) invalidate(boardID uint64) {
	if s.redisP == nil {
		return
	}
	s.redisP.Del(context.Background(), fmt.Sprintf("cards:board:%d", boardID))
}

func (s *service) record(card *Card, userID uint64, entryType, detail string) {
	if _, _, err := s.activitySvc.Append(card.ID, userID, entryType, detail); err != nil {
		s.logger.Warnw("Failed to record activity", "card_id", card.ID, "type", entryType, "error", err)
	}
}

func (s *service) publish(event string, card *Card, actorID uint64) {
	if s.eventBus == nil {
		return
	}
	data := map[string]interface{}{
		"card_id":   card.ID,
		"board_id":  card.BoardID,
		"column_id": card.ColumnID,
		"title":     card.Title,
		"actor_id":  actorID,
	}
	if card.DueDate != nil {
		data["due_date"] = card.DueDate.Format(time.RFC3339)
	}
	s.eventBus.Publish(event, data)
}

func isBoardMember(target policy.BoardTarget, userID uint64) bool {
	if target.CreatorID == userID {
		return true
	}
	for _, id := range target.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
