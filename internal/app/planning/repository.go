package planning

import "gorm.io/gorm"

type Repository interface {
	CreateRecord(rec *Record) error
	GetRecordByID(id uint64) (*Record, error)
	ListByBoard(boardID uint64, kind string) ([]*Record, error)
	UpdateRecord(rec *Record) error
	DeleteRecord(id uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRecord(rec *Record) error {
	return r.db.Create(rec).Error
}

func (r *repository) GetRecordByID(id uint64) (*Record, error) {
	var rec Record
	err := r.db.Where("id = ?", id).First(&rec).Error
	return &rec, err
}

func (r *repository) ListByBoard(boardID uint64, kind string) ([]*Record, error) {
	q := r.db.Where("board_id = ?", boardID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var records []*Record
	err := q.Order("id ASC").Find(&records).Error
	return records, err
}

func (r *repository) UpdateRecord(rec *Record) error {
	return r.db.Save(rec).Error
}

func (r *repository) DeleteRecord(id uint64) error {
	return r.db.Delete(&Record{}, id).Error
}
