package repository

import (
	"attendance/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(database *gorm.DB) domain.StudentRepo {
	return &studentRepository{
		db: database,
	}
}

func (sr *studentRepository) FindByID(ctx context.Context, id int) (*domain.Student, error) {
	var student domain.Student
	err := sr.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch student: %w", err)
	}
	return &student, nil
}

// FindByField resolves a student through one of the loose identity fields
// used by marking callers. Full name is stored split, so the name lookup
// concatenates.
func (sr *studentRepository) FindByField(ctx context.Context, field, value string) (*domain.Student, error) {
	q := sr.db.WithContext(ctx)

	switch field {
	case "name":
		q = q.Where("TRIM(CONCAT(first_name, ' ', last_name)) = ?", value)
	case "email":
		q = q.Where("email = ?", value)
	case "studentId":
		q = q.Where("student_id = ?", value)
	default:
		return nil, fmt.Errorf("unsupported student lookup field: %s", field)
	}

	var student domain.Student
	err := q.First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch student by %s: %w", field, err)
	}
	return &student, nil
}

func (sr *studentRepository) FindAllByIDs(ctx context.Context, ids []int) ([]domain.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var students []domain.Student
	err := sr.db.WithContext(ctx).Where("id IN ?", ids).Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch students by ids: %w", err)
	}
	return students, nil
}

func (sr *studentRepository) FindAllByCodes(ctx context.Context, codes []string) ([]domain.Student, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var students []domain.Student
	err := sr.db.WithContext(ctx).Where("student_id IN ?", codes).Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch students by codes: %w", err)
	}
	return students, nil
}
