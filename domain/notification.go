package domain

import (
	"context"
	"time"
)

// NotificationLog is one delivery attempt. Failed rows double as the
// dead-letter record for sends that were dropped after their single attempt.
type NotificationLog struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID *int      `json:"student_id"`
	Channel   string    `gorm:"type:varchar(20);not null" json:"channel"`
	Recipient string    `gorm:"type:varchar(255);not null" json:"recipient"`
	Success   bool      `gorm:"not null" json:"success"`
	Detail    *string   `gorm:"type:varchar(512)" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (NotificationLog) TableName() string { return "notification_logs" }

type NotificationLogRepo interface {
	Record(ctx context.Context, entry *NotificationLog) error
	History(ctx context.Context, limit, offset int) ([]NotificationLog, error)
}

type NotificationUseCase interface {
	History(ctx context.Context, limit, offset int) ([]NotificationLog, error)
}
