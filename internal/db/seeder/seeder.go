package seeder

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/app/label"
	"taskboard/internal/app/user"
	"taskboard/internal/config"
	"taskboard/internal/policy"
)

type Seeder struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *zap.SugaredLogger
}

func NewSeeder(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		cfg:    cfg,
		logger: logger.Sugar(),
	}
}

func (s *Seeder) Seed() error {
	if err := s.seedLabels(); err != nil {
		return fmt.Errorf("failed to seed labels: %w", err)
	}
	if err := s.seedAdmin(); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

var labelPresets = []label.Label{
	{Name: "bug", Color: "#e74c3c"},
	{Name: "feature", Color: "#2ecc71"},
	{Name: "chore", Color: "#95a5a6"},
	{Name: "docs", Color: "#3498db"},
	{Name: "design", Color: "#9b59b6"},
	{Name: "blocked", Color: "#e67e22"},
	{Name: "urgent", Color: "#c0392b"},
}

func (s *Seeder) seedLabels() error {
	for _, preset := range labelPresets {
		var count int64
		if err := s.db.Model(&label.Label{}).Where("name = ?", preset.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		preset := preset
		if err := s.db.Create(&preset).Error; err != nil {
			return err
		}
		s.logger.Infow("Label preset installed", "name", preset.Name)
	}
	return nil
}

func (s *Seeder) seedAdmin() error {
	var count int64
	if err := s.db.Model(&user.User{}).Where("role = ?", policy.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &user.User{
		Username:     "admin",
		Email:        s.cfg.AdminEmail,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         policy.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}
	s.logger.Infow("Bootstrap admin created", "email", admin.Email)
	return nil
}
