package usecase

import (
	"attendance/domain"
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
)

type authUseCase struct {
	repo    domain.AuthRepo
	TimeOut time.Duration
}

func NewAuthUseCase(repo domain.AuthRepo, to time.Duration) domain.AuthUseCase {
	return &authUseCase{
		repo:    repo,
		TimeOut: to,
	}
}

func (auc *authUseCase) Login(ctx context.Context, data *domain.LoginRequest) (*domain.LoginResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, auc.TimeOut)
	defer cancel()

	if _, err := govalidator.ValidateStruct(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return auc.repo.Login(ctx, data)
}
