package repository

import (
	"attendance/domain"
	"attendance/middleware"
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type authRepository struct {
	users domain.UserRepo
}

func NewAuthRepository(users domain.UserRepo) domain.AuthRepo {
	return &authRepository{
		users: users,
	}
}

func (ar *authRepository) Login(ctx context.Context, data *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := ar.users.FindByUsername(ctx, data.Username)
	if err != nil || user == nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password))
	if err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token, err : %v", err)
	}

	return &domain.LoginResponse{Token: token, Role: user.Role}, nil
}
