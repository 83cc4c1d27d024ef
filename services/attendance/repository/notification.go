package repository

import (
	"attendance/domain"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(database *gorm.DB) domain.NotificationLogRepo {
	return &notificationLogRepository{
		db: database,
	}
}

func (nlr *notificationLogRepository) Record(ctx context.Context, entry *domain.NotificationLog) error {
	if err := nlr.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("could not insert notification log: %w", err)
	}
	return nil
}

func (nlr *notificationLogRepository) History(ctx context.Context, limit, offset int) ([]domain.NotificationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var entries []domain.NotificationLog
	err := nlr.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch notification history: %w", err)
	}
	return entries, nil
}
