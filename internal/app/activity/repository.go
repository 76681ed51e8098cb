package activity

import "gorm.io/gorm"

type Repository interface {
	Append(entry *Entry) error
	ListByCard(cardID uint64) ([]*Entry, error)
	CountByCard(cardID uint64) (int64, error)
	DeleteByCard(cardID uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(entry *Entry) error {
	return r.db.Create(entry).Error
}

func (r *repository) ListByCard(cardID uint64) ([]*Entry, error) {
	var entries []*Entry
	err := r.db.
		Where("card_id = ?", cardID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) CountByCard(cardID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&Entry{}).Where("card_id = ?", cardID).Count(&count).Error
	return count, err
}

func (r *repository) DeleteByCard(cardID uint64) error {
	return r.db.Where("card_id = ?", cardID).Delete(&Entry{}).Error
}
