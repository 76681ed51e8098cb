package timeentry

import "gorm.io/gorm"

type Repository interface {
	CreateEntry(e *Entry) error
	GetEntryByID(id uint64) (*Entry, error)
	ListByCard(cardID uint64) ([]*Entry, error)
	ListByUser(userID uint64, from, to string) ([]*Entry, error)
	UpdateEntry(e *Entry) error
	DeleteEntry(id uint64) error
	SumByCard(cardID uint64) (float64, error)
	SyncCardActualHours(cardID uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateEntry(e *Entry) error {
	return r.db.Create(e).Error
}

func (r *repository) GetEntryByID(id uint64) (*Entry, error) {
	var e Entry
	err := r.db.Where("id = ?", id).First(&e).Error
	return &e, err
}

func (r *repository) ListByCard(cardID uint64) ([]*Entry, error) {
	var entries []*Entry
	err := r.db.
		Where("card_id = ?", cardID).
		Order("day ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) ListByUser(userID uint64, from, to string) ([]*Entry, error) {
	q := r.db.Where("user_id = ?", userID)
	if from != "" {
		q = q.Where("day >= ?", from)
	}
	if to != "" {
		q = q.Where("day <= ?", to)
	}
	var entries []*Entry
	err := q.Order("day ASC, id ASC").Find(&entries).Error
	return entries, err
}

func (r *repository) UpdateEntry(e *Entry) error {
	return r.db.Save(e).Error
}

func (r *repository) DeleteEntry(id uint64) error {
	return r.db.Delete(&Entry{}, id).Error
}

func (r *repository) SumByCard(cardID uint64) (float64, error) {
	var total float64
	err := r.db.Model(&Entry{}).
		Where("card_id = ?", cardID).
		Select("COALESCE(SUM(hours), 0)").
		Scan(&total).Error
	return total, err
}

// SyncCardActualHours keeps the card's rollup in step with its entries.
func (r *repository) SyncCardActualHours(cardID uint64) error {
	return r.db.Exec(
		`UPDATE cards
		 SET actual_hours = (SELECT COALESCE(SUM(hours), 0) FROM time_entries WHERE card_id = ?)
		 WHERE id = ?`,
		cardID, cardID,
	).Error
}
