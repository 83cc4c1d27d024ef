package usecase

import (
	"attendance/domain"
	"context"
	"time"
)

type notificationUseCase struct {
	repo    domain.NotificationLogRepo
	TimeOut time.Duration
}

func NewNotificationUseCase(repo domain.NotificationLogRepo, to time.Duration) domain.NotificationUseCase {
	return &notificationUseCase{
		repo:    repo,
		TimeOut: to,
	}
}

func (nu *notificationUseCase) History(ctx context.Context, limit, offset int) ([]domain.NotificationLog, error) {
	ctx, cancel := context.WithTimeout(ctx, nu.TimeOut)
	defer cancel()

	return nu.repo.History(ctx, limit, offset)
}
