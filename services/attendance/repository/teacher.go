package repository

import (
	"attendance/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type teacherRepository struct {
	db *gorm.DB
}

func NewTeacherRepository(database *gorm.DB) domain.TeacherRepo {
	return &teacherRepository{
		db: database,
	}
}

func (tr *teacherRepository) FindByID(ctx context.Context, id int) (*domain.Teacher, error) {
	var teacher domain.Teacher
	err := tr.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch teacher: %w", err)
	}
	return &teacher, nil
}
