package repository

import (
	"attendance/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(database *gorm.DB) domain.AttendanceRepo {
	return &attendanceRepository{
		db: database,
	}
}

func (ar *attendanceRepository) FindByStudentAndDate(ctx context.Context, studentName, date string) (*domain.Attendance, error) {
	var record domain.Attendance
	err := ar.db.WithContext(ctx).Where("student_name = ? AND date = ?", studentName, date).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch attendance: %w", err)
	}
	return &record, nil
}

func (ar *attendanceRepository) Create(ctx context.Context, record *domain.Attendance) error {
	err := ar.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("could not insert attendance: %w", err)
	}
	return nil
}

func (ar *attendanceRepository) Query(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, int64, error) {
	q := ar.db.WithContext(ctx).Model(&domain.Attendance{})

	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.StudentName != "" {
		q = q.Where("student_name ILIKE ?", "%"+filter.StudentName+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("could not count attendance: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var records []domain.Attendance
	err := q.Order("date DESC, time_in DESC").Limit(limit).Offset(offset).Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("could not fetch attendance: %w", err)
	}
	return records, total, nil
}

func (ar *attendanceRepository) TodayAttendance(ctx context.Context, date string) ([]domain.Attendance, error) {
	var records []domain.Attendance
	err := ar.db.WithContext(ctx).Where("date = ?", date).Order("time_in ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch today's attendance: %w", err)
	}
	return records, nil
}

func (ar *attendanceRepository) AggregateByStudent(ctx context.Context, startDate, endDate string) ([]domain.AttendanceStats, error) {
	q := ar.db.WithContext(ctx).Model(&domain.Attendance{}).
		Select("student_name, COUNT(id) AS total_days, MIN(date) AS first_attendance, MAX(date) AS last_attendance")

	switch {
	case startDate != "" && endDate != "":
		q = q.Where("date BETWEEN ? AND ?", startDate, endDate)
	case startDate != "":
		q = q.Where("date >= ?", startDate)
	case endDate != "":
		q = q.Where("date <= ?", endDate)
	}

	var stats []domain.AttendanceStats
	err := q.Group("student_name").Order("total_days DESC").Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("could not aggregate attendance: %w", err)
	}
	return stats, nil
}

func (ar *attendanceRepository) FindByStudentNames(ctx context.Context, names []string) ([]domain.Attendance, error) {
	var records []domain.Attendance
	err := ar.db.WithContext(ctx).Where("student_name IN ?", names).
		Order("date DESC, time_in DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch attendance by names: %w", err)
	}
	return records, nil
}

func (ar *attendanceRepository) CreateSession(ctx context.Context, session *domain.AttendanceSession) error {
	if err := ar.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("could not insert attendance session: %w", err)
	}
	return nil
}

func (ar *attendanceRepository) FindSession(ctx context.Context, id int) (*domain.AttendanceSession, error) {
	var session domain.AttendanceSession
	err := ar.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not fetch attendance session: %w", err)
	}
	return &session, nil
}

func (ar *attendanceRepository) AllSessions(ctx context.Context) ([]domain.AttendanceSession, error) {
	var sessions []domain.AttendanceSession
	err := ar.db.WithContext(ctx).Order("date DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("could not fetch attendance sessions: %w", err)
	}
	return sessions, nil
}
