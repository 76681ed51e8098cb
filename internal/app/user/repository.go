package user

import "gorm.io/gorm"

type Repository interface {
	CreateUser(user *User) error
	GetUserByID(id uint64) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByUsername(username string) (*User, error)
	GetUsersByIDs(ids []uint64) ([]*User, error)
	SearchUsers(query string, limit int) ([]*User, error)
	UpdateUser(user *User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) GetUserByID(id uint64) (*User, error) {
	var user User
	err := r.db.Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *repository) GetUserByEmail(email string) (*User, error) {
	var user User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *repository) GetUserByUsername(username string) (*User, error) {
	var user User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *repository) GetUsersByIDs(ids []uint64) ([]*User, error) {
	var users []*User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *repository) SearchUsers(query string, limit int) ([]*User, error) {
	var users []*User
	pattern := "%" + query + "%"
	err := r.db.
		Where("username ILIKE ? OR email ILIKE ? OR display_name ILIKE ?", pattern, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *repository) UpdateUser(user *User) error {
	return r.db.Save(user).Error
}
