package label

import "gorm.io/gorm"

type Repository interface {
	GetAllLabels() ([]*Label, error)
	GetLabelByID(id uint64) (*Label, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAllLabels() ([]*Label, error) {
	var labels []*Label
	err := r.db.
		Order("id ASC").
		Find(&labels).Error
	return labels, err
}

func (r *repository) GetLabelByID(id uint64) (*Label, error) {
	var label Label
	err := r.db.Where("id = ?", id).First(&label).Error
	return &label, err
}
