package card

import (
	"time"

	"gorm.io/gorm"

	"taskboard/internal/ordering"
)

type Repository interface {
	GetCardByID(id uint64) (*Card, error)
	ListByColumn(columnID uint64) ([]*Card, error)
	ListByBoard(boardID uint64) ([]*Card, error)
	CreateCard(card *Card, index int) error
	UpdateCard(card *Card) error
	MoveCard(id, columnID uint64, index int) error
	DeleteCard(id uint64) error

	CreateSubtask(st *Subtask) error
	GetSubtaskByID(id uint64) (*Subtask, error)
	UpdateSubtask(st *Subtask) error
	DeleteSubtask(id uint64) error

	CreateComment(cm *Comment) error
	GetCommentByID(id uint64) (*Comment, error)
	DeleteComment(id uint64) error

	CreateAttachment(at *Attachment) error
	GetAttachmentByID(id uint64) (*Attachment, error)
	DeleteAttachment(id uint64) error
	CountAttachments(cardID uint64) (int64, error)

	AttachLabel(cardID, labelID uint64) error
	DetachLabel(cardID, labelID uint64) error
	AttachMember(cardID, userID uint64) error
	DetachMember(cardID, userID uint64) error

	ListRecurringTemplates() ([]*Card, error)
	MaterializeOccurrence(templateID uint64, due time.Time) (*Card, error)
	ListDueSoonUnnotified(now time.Time, window time.Duration) ([]*Card, error)
	MarkDueSoonNotified(cardID uint64, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCardByID(id uint64) (*Card, error) {
	var card Card
	err := r.db.
		Preload("Labels").
		Preload("Members").
		Preload("Subtasks").
		Preload("Comments").
		Preload("Attachments").
		Where("id = ?", id).
		First(&card).Error
	return &card, err
}

func (r *repository) ListByColumn(columnID uint64) ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Preload("Labels").
		Preload("Members").
		Where("column_id = ?", columnID).
		Order("position ASC").
		Find(&cards).Error
	return cards, err
}

func (r *repository) ListByBoard(boardID uint64) ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Preload("Labels").
		Preload("Members").
		Preload("Subtasks").
		Where("board_id = ?", boardID).
		Order("column_id ASC, position ASC").
		Find(&cards).Error
	return cards, err
}

// CreateCard inserts the card at index within its column and renumbers the
// column's sequence in the same transaction.
func (r *repository) CreateCard(card *Card, index int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := columnCardIDs(tx, card.ColumnID)
		if err != nil {
			return err
		}
		card.Position = len(ids)
		if err := tx.Create(card).Error; err != nil {
			return err
		}
		return renumberCards(tx, ordering.InsertAt(ids, card.ID, index))
	})
}

func (r *repository) UpdateCard(card *Card) error {
	return r.db.Omit("Labels", "Members", "Subtasks", "Comments", "Attachments").Save(card).Error
}

// MoveCard relocates a card, renumbering the source and target columns
// atomically so both sequences stay dense.
func (r *repository) MoveCard(id, columnID uint64, index int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card Card
		if err := tx.Where("id = ?", id).First(&card).Error; err != nil {
			return err
		}

		if card.ColumnID == columnID {
			ids, err := columnCardIDs(tx, columnID)
			if err != nil {
				return err
			}
			return renumberCards(tx, ordering.MoveTo(ids, id, index))
		}

		source, err := columnCardIDs(tx, card.ColumnID)
		if err != nil {
			return err
		}
		if err := renumberCards(tx, ordering.RemoveFrom(source, id)); err != nil {
			return err
		}

		if err := tx.Model(&Card{}).Where("id = ?", id).Update("column_id", columnID).Error; err != nil {
			return err
		}

		target, err := columnCardIDs(tx, columnID)
		if err != nil {
			return err
		}
		return renumberCards(tx, ordering.MoveTo(target, id, index))
	})
}

// DeleteCard cascades to the card's owned children (and any generated
// occurrences pointing at it), then closes the column's position gap.
func (r *repository) DeleteCard(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card Card
		if err := tx.Where("id = ?", id).First(&card).Error; err != nil {
			return err
		}

		for _, stmt := range []string{
			"DELETE FROM card_subtasks WHERE card_id = ?",
			"DELETE FROM card_comments WHERE card_id = ?",
			"DELETE FROM card_attachments WHERE card_id = ?",
			"DELETE FROM card_activity WHERE card_id = ?",
			"DELETE FROM time_entries WHERE card_id = ?",
			"DELETE FROM card_labels WHERE card_id = ?",
			"DELETE FROM card_members WHERE card_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		// Generated occurrences outlive their template but lose the link.
		if err := tx.Exec("UPDATE cards SET parent_recurrence_id = NULL WHERE parent_recurrence_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&Card{}, id).Error; err != nil {
			return err
		}

		ids, err := columnCardIDs(tx, card.ColumnID)
		if err != nil {
			return err
		}
		return renumberCards(tx, ids)
	})
}

func (r *repository) CreateSubtask(st *Subtask) error {
	return r.db.Create(st).Error
}

func (r *repository) GetSubtaskByID(id uint64) (*Subtask, error) {
	var st Subtask
	err := r.db.Where("id = ?", id).First(&st).Error
	return &st, err
}

func (r *repository) UpdateSubtask(st *Subtask) error {
	return r.db.Save(st).Error
}

func (r *repository) DeleteSubtask(id uint64) error {
	return r.db.Delete(&Subtask{}, id).Error
}

func (r *repository) CreateComment(cm *Comment) error {
	return r.db.Create(cm).Error
}

func (r *repository) GetCommentByID(id uint64) (*Comment, error) {
	var cm Comment
	err := r.db.Where("id = ?", id).First(&cm).Error
	return &cm, err
}

func (r *repository) DeleteComment(id uint64) error {
	return r.db.Delete(&Comment{}, id).Error
}

func (r *repository) CreateAttachment(at *Attachment) error {
	return r.db.Create(at).Error
}

func (r *repository) GetAttachmentByID(id uint64) (*Attachment, error) {
	var at Attachment
	err := r.db.Where("id = ?", id).First(&at).Error
	return &at, err
}

func (r *repository) DeleteAttachment(id uint64) error {
	return r.db.Delete(&Attachment{}, id).Error
}

func (r *repository) CountAttachments(cardID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&Attachment{}).Where("card_id = ?", cardID).Count(&count).Error
	return count, err
}

func (r *repository) AttachLabel(cardID, labelID uint64) error {
	return r.db.Exec(
		"INSERT INTO card_labels (card_id, label_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, labelID,
	).Error
}

func (r *repository) DetachLabel(cardID, labelID uint64) error {
	return r.db.Exec(
		"DELETE FROM card_labels WHERE card_id = ? AND label_id = ?",
		cardID, labelID,
	).Error
}

func (r *repository) AttachMember(cardID, userID uint64) error {
	return r.db.Exec(
		"INSERT INTO card_members (card_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		cardID, userID,
	).Error
}

func (r *repository) DetachMember(cardID, userID uint64) error {
	return r.db.Exec(
		"DELETE FROM card_members WHERE card_id = ? AND user_id = ?",
		cardID, userID,
	).Error
}

func (r *repository) ListRecurringTemplates() ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Where("recurrence_type IS NOT NULL").
		Find(&cards).Error
	return cards, err
}

// MaterializeOccurrence clones the template into a new card due on the given
// date. The guarded update on recurrence_last_created makes the operation
// idempotent: a second invocation for the same (template, due) pair, even from
// a concurrent scheduler, matches zero rows and creates nothing.
func (r *repository) MaterializeOccurrence(templateID uint64, due time.Time) (*Card, error) {
	var created *Card
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var tpl Card
		if err := tx.
			Preload("Labels").
			Preload("Subtasks").
			Where("id = ?", templateID).
			First(&tpl).Error; err != nil {
			return err
		}
		if tpl.RecurrenceType == nil {
			return nil
		}
		if tpl.RecurrenceMaxCount != nil && tpl.RecurrenceCreatedCount >= *tpl.RecurrenceMaxCount {
			return nil
		}

		res := tx.Exec(
			`UPDATE cards
			 SET recurrence_last_created = ?, recurrence_created_count = recurrence_created_count + 1
			 WHERE id = ? AND (recurrence_last_created IS NULL OR recurrence_last_created < ?)`,
			due, templateID, due,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		ids, err := columnCardIDs(tx, tpl.ColumnID)
		if err != nil {
			return err
		}

		dueCopy := due
		clone := &Card{
			BoardID:            tpl.BoardID,
			ColumnID:           tpl.ColumnID,
			Title:              tpl.Title,
			Description:        tpl.Description,
			Priority:           tpl.Priority,
			Position:           len(ids),
			DueDate:            &dueCopy,
			EstimatedHours:     tpl.EstimatedHours,
			ParentRecurrenceID: &tpl.ID,
			CreatorID:          tpl.CreatorID,
		}
		if err := tx.Omit("Labels", "Members", "Subtasks", "Comments", "Attachments").Create(clone).Error; err != nil {
			return err
		}

		for _, l := range tpl.Labels {
			if err := tx.Exec(
				"INSERT INTO card_labels (card_id, label_id) VALUES (?, ?)",
				clone.ID, l.ID,
			).Error; err != nil {
				return err
			}
		}
		for _, st := range tpl.Subtasks {
			if err := tx.Create(&Subtask{CardID: clone.ID, Title: st.Title, Done: false}).Error; err != nil {
				return err
			}
		}

		created = clone
		return nil
	})
	return created, err
}

func (r *repository) ListDueSoonUnnotified(now time.Time, window time.Duration) ([]*Card, error) {
	var cards []*Card
	err := r.db.
		Where("due_date IS NOT NULL").
		Where("due_date >= ? AND due_date <= ?", now, now.Add(window)).
		Where("completed_at IS NULL").
		Where("due_soon_notified_at IS NULL").
		Find(&cards).Error
	return cards, err
}

func (r *repository) MarkDueSoonNotified(cardID uint64, at time.Time) error {
	return r.db.Model(&Card{}).Where("id = ?", cardID).Update("due_soon_notified_at", at).Error
}

func columnCardIDs(tx *gorm.DB, columnID uint64) ([]uint64, error) {
	var ids []uint64
	err := tx.Model(&Card{}).
		Where("column_id = ?", columnID).
		Order("position ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func renumberCards(tx *gorm.DB, ids []uint64) error {
	for pos, id := range ids {
		if err := tx.Model(&Card{}).Where("id = ?", id).Update("position", pos).Error; err != nil {
			return err
		}
	}
	return nil
}
