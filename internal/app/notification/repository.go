package notification

import "gorm.io/gorm"

type Repository interface {
	Create(n *Notification) error
	GetByID(id uint64) (*Notification, error)
	ListByUser(userID uint64) ([]*Notification, error)
	MarkRead(id uint64) error
	MarkAllRead(userID uint64) error
	Clear(userID uint64) error
	UnreadCount(userID uint64) (int64, error)

	CardExists(cardID uint64) (bool, error)
	BoardExists(boardID uint64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(n *Notification) error {
	return r.db.Create(n).Error
}

func (r *repository) GetByID(id uint64) (*Notification, error) {
	var n Notification
	err := r.db.Where("id = ?", id).First(&n).Error
	return &n, err
}

func (r *repository) ListByUser(userID uint64) ([]*Notification, error) {
	var notifications []*Notification
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(200).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead is a plain flag write: repeating it is harmless.
func (r *repository) MarkRead(id uint64) error {
	return r.db.Model(&Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (r *repository) MarkAllRead(userID uint64) error {
	return r.db.Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
}

func (r *repository) Clear(userID uint64) error {
	return r.db.Where("user_id = ?", userID).Delete(&Notification{}).Error
}

func (r *repository) UnreadCount(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&count).Error
	return count, err
}

func (r *repository) CardExists(cardID uint64) (bool, error) {
	var count int64
	err := r.db.Table("cards").Where("id = ?", cardID).Count(&count).Error
	return count > 0, err
}

func (r *repository) BoardExists(boardID uint64) (bool, error) {
	var count int64
	err := r.db.Table("boards").Where("id = ?", boardID).Count(&count).Error
	return count > 0, err
}
