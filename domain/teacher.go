package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Teacher struct {
	ID         int            `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName  string         `gorm:"type:varchar(150);not null" json:"firstName" valid:"required~First name is required"`
	LastName   string         `gorm:"type:varchar(150);not null" json:"lastName" valid:"required~Last name is required"`
	Email      string         `gorm:"type:varchar(255);not null;unique" json:"email" valid:"required~Email is required,email~Invalid email format"`
	Phone      *string        `gorm:"type:varchar(20)" json:"phone"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"`
	Department *string        `gorm:"type:varchar(150)" json:"department"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Teacher) TableName() string { return "teachers" }

func (t *Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

type TeacherRepo interface {
	FindByID(ctx context.Context, id int) (*Teacher, error)
}
