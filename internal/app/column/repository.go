package column

import (
	"gorm.io/gorm"

	"taskboard/internal/ordering"
)

type Repository interface {
	GetColumnByID(id uint64) (*Column, error)
	ListByBoard(boardID uint64) ([]*Column, error)
	CreateColumn(col *Column, index int) error
	UpdateColumn(col *Column) error
	MoveColumn(id uint64, newIndex int) error
	DeleteColumn(id uint64) error
	CardCount(columnID uint64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetColumnByID(id uint64) (*Column, error) {
	var col Column
	err := r.db.Where("id = ?", id).First(&col).Error
	return &col, err
}

func (r *repository) ListByBoard(boardID uint64) ([]*Column, error) {
	var cols []*Column
	err := r.db.
		Where("board_id = ?", boardID).
		Order("position ASC").
		Find(&cols).Error
	return cols, err
}

// CreateColumn inserts the column at index and renumbers the board's whole
// sequence in the same transaction, so no request ever observes a duplicate
// or gapped position.
func (r *repository) CreateColumn(col *Column, index int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := orderedIDs(tx, col.BoardID)
		if err != nil {
			return err
		}
		col.Position = len(ids)
		if err := tx.Create(col).Error; err != nil {
			return err
		}
		return renumber(tx, ordering.InsertAt(ids, col.ID, index))
	})
}

func (r *repository) UpdateColumn(col *Column) error {
	return r.db.Save(col).Error
}

func (r *repository) MoveColumn(id uint64, newIndex int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var col Column
		if err := tx.Where("id = ?", id).First(&col).Error; err != nil {
			return err
		}
		ids, err := orderedIDs(tx, col.BoardID)
		if err != nil {
			return err
		}
		return renumber(tx, ordering.MoveTo(ids, id, newIndex))
	})
}

// DeleteColumn cascades to the column's cards and their owned children, then
// closes the position gap.
func (r *repository) DeleteColumn(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var col Column
		if err := tx.Where("id = ?", id).First(&col).Error; err != nil {
			return err
		}

		cardSub := "SELECT id FROM cards WHERE column_id = ?"
		for _, stmt := range []string{
			"DELETE FROM card_subtasks WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_comments WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_attachments WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_activity WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM time_entries WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_labels WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM card_members WHERE card_id IN (" + cardSub + ")",
			"DELETE FROM cards WHERE column_id = ?",
		} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}

		if err := tx.Delete(&Column{}, id).Error; err != nil {
			return err
		}

		ids, err := orderedIDs(tx, col.BoardID)
		if err != nil {
			return err
		}
		return renumber(tx, ids)
	})
}

func (r *repository) CardCount(columnID uint64) (int64, error) {
	var count int64
	err := r.db.Table("cards").Where("column_id = ?", columnID).Count(&count).Error
	return count, err
}

func orderedIDs(tx *gorm.DB, boardID uint64) ([]uint64, error) {
	var ids []uint64
	err := tx.Model(&Column{}).
		Where("board_id = ?", boardID).
		Order("position ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func renumber(tx *gorm.DB, ids []uint64) error {
	for pos, id := range ids {
		if err := tx.Model(&Column{}).Where("id = ?", id).Update("position", pos).Error; err != nil {
			return err
		}
	}
	return nil
}
