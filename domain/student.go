package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Student is directory reference data. Attendance code only reads it to
// resolve identities and phone numbers; CRUD belongs to the admin surface.
type Student struct {
	ID         int            `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID  string         `gorm:"column:student_id;type:varchar(50);not null;unique" json:"studentId" valid:"required~Student ID is required"`
	FirstName  string         `gorm:"type:varchar(150);not null" json:"firstName" valid:"required~First name is required"`
	LastName   string         `gorm:"type:varchar(150);not null" json:"lastName" valid:"required~Last name is required"`
	Email      *string        `gorm:"type:varchar(255);unique" json:"email" valid:"email~Invalid email format,optional"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"`
	Department *string        `gorm:"type:varchar(150)" json:"department"`
	Batch      *string        `gorm:"type:varchar(50)" json:"batch"`
	Semester   *int           `json:"semester"`
	Section    *string        `gorm:"type:varchar(10)" json:"section"`
	Phone      *string        `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "students" }

func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// StudentRepo is the directory lookup contract. Every finder returns nil
// (not an error) on a miss.
type StudentRepo interface {
	FindByID(ctx context.Context, id int) (*Student, error)
	FindByField(ctx context.Context, field, value string) (*Student, error)
	FindAllByIDs(ctx context.Context, ids []int) ([]Student, error)
	FindAllByCodes(ctx context.Context, codes []string) ([]Student, error)
}
