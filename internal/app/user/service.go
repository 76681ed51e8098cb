package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskboard/internal/apperr"
	"taskboard/internal/providers/directory"
)

type Service interface {
	GetUserByID(id uint64) (*User, error)
	UpdateProfile(id uint64, req UpdateProfileRequest) (*User, error)
	SearchUsers(query string) ([]*User, error)
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Sugar(),
	}
}

func (s *service) GetUserByID(id uint64) (*User, error) {
	user, err := s.repo.GetUserByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %d does not exist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *service) UpdateProfile(id uint64, req UpdateProfileRequest) (*User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Title != nil {
		user.Title = *req.Title
	}
	if err := s.repo.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *service) SearchUsers(query string) ([]*User, error) {
	return s.repo.SearchUsers(query, 50)
}

// DirectorySource exposes the local user table as one source of the
// aggregated directory search.
type DirectorySource struct {
	repo Repository
}

func NewDirectorySource(repo Repository) *DirectorySource {
	return &DirectorySource{repo: repo}
}

func (d *DirectorySource) Name() string {
	return "local"
}

func (d *DirectorySource) Search(ctx context.Context, query string) ([]directory.Person, error) {
	users, err := d.repo.SearchUsers(query, 50)
	if err != nil {
		return nil, err
	}
	people := make([]directory.Person, 0, len(users))
	for _, u := range users {
		people = append(people, directory.Person{
			ID:          strconv.FormatUint(u.ID, 10),
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Department:  u.Department,
			Title:       u.Title,
		})
	}
	return people, nil
}
