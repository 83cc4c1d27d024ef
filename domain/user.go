package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// User is a staff login (admin or teacher account owner).
type User struct {
	UserID    int            `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username  string         `gorm:"type:varchar(150);not null;unique" json:"username" valid:"required~Username is required"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	Role      string         `gorm:"type:varchar(20);not null" json:"role" valid:"required~Role is required,in(admin|teacher|student)~Invalid role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}
