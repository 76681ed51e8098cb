package db

import (
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/automation"
	"taskboard/internal/app/board"
	"taskboard/internal/app/card"
	"taskboard/internal/app/column"
	"taskboard/internal/app/label"
	"taskboard/internal/app/notification"
	"taskboard/internal/app/planning"
	"taskboard/internal/app/timeentry"
	"taskboard/internal/app/user"
	"taskboard/internal/config"
)

func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.PostgresDSN()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)

	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(
		&user.User{},
		&board.Board{},
		&column.Column{},
		&label.Label{},
		&card.Card{},
		&card.Subtask{},
		&card.Comment{},
		&card.Attachment{},
		&activity.Entry{},
		&timeentry.Entry{},
		&notification.Notification{},
		&automation.Rule{},
		&automation.Execution{},
		&planning.Record{},
	); err != nil {
		return err
	}
	logger.Info("Database migrated")
	return nil
}
