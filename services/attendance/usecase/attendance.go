package usecase

import (
	"attendance/config"
	"attendance/domain"
	"attendance/queue"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/asaskevich/govalidator"
)

type attendanceUseCase struct {
	attendanceRepo domain.AttendanceRepo
	studentRepo    domain.StudentRepo
	teacherRepo    domain.TeacherRepo
	notifier       domain.NotifierRepo
	jobs           queue.Queue
	TimeOut        time.Duration
}

func NewAttendanceUseCase(ar domain.AttendanceRepo, sr domain.StudentRepo, tr domain.TeacherRepo, notifier domain.NotifierRepo, jobs queue.Queue, to time.Duration) domain.AttendanceUseCase {
	return &attendanceUseCase{
		attendanceRepo: ar,
		studentRepo:    sr,
		teacherRepo:    tr,
		notifier:       notifier,
		jobs:           jobs,
		TimeOut:        to,
	}
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}

// Mark records one student for one day. A repeat for the same
// (student, date) pair is reported back as AlreadyMarked, never as an error,
// whether it is caught by the pre-check or by the unique index under a race.
func (au *attendanceUseCase) Mark(ctx context.Context, req *domain.MarkRequest) (*domain.MarkResult, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if _, err := govalidator.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Status == "" {
		req.Status = "present"
	}
	if req.Subject == "" {
		req.Subject = "General"
	}
	// Marking always targets today; callers cannot backdate a record.
	date := todayDate()

	existing, err := au.attendanceRepo.FindByStudentAndDate(ctx, req.StudentName, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &domain.MarkResult{Record: existing, AlreadyMarked: true}, nil
	}

	record := &domain.Attendance{
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Subject:      req.Subject,
		Date:         date,
		TimeIn:       time.Now(),
		Status:       req.Status,
		MarkedBy:     req.MarkedBy,
	}

	err = au.attendanceRepo.Create(ctx, record)
	if errors.Is(err, domain.ErrDuplicate) {
		// Lost the race to a concurrent marker. The winner's row is the record.
		winner, findErr := au.attendanceRepo.FindByStudentAndDate(ctx, req.StudentName, date)
		if findErr != nil {
			return nil, findErr
		}
		return &domain.MarkResult{Record: winner, AlreadyMarked: true}, nil
	}
	if err != nil {
		return nil, err
	}

	config.GetLogrusInstance().Infof("Attendance marked for %s on %s", req.StudentName, date)

	au.notifyStudent(ctx, req, date)

	return &domain.MarkResult{Record: record, AlreadyMarked: false}, nil
}

// notifyStudent is best-effort. A student without a directory entry or a
// phone number simply gets no text.
func (au *attendanceUseCase) notifyStudent(ctx context.Context, req *domain.MarkRequest, date string) {
	var student *domain.Student
	var err error

	if req.StudentEmail != nil && *req.StudentEmail != "" {
		student, err = au.studentRepo.FindByField(ctx, "email", *req.StudentEmail)
		if err != nil {
			config.GetLogrusInstance().Errorf("student lookup by email failed: %v", err)
		}
	}
	if student == nil {
		student, err = au.studentRepo.FindByField(ctx, "name", req.StudentName)
		if err != nil {
			config.GetLogrusInstance().Errorf("student lookup by name failed: %v", err)
		}
	}
	if student == nil {
		student, err = au.studentRepo.FindByField(ctx, "studentId", req.StudentName)
		if err != nil {
			config.GetLogrusInstance().Errorf("student lookup by code failed: %v", err)
		}
	}
	if student == nil || student.Phone == nil || *student.Phone == "" {
		return
	}

	msg := fmt.Sprintf("Your %s attendance for %s is %s.", req.Subject, date, req.Status)
	au.notifier.SendText(ctx, *student.Phone, msg)
}

// parseTimeIn accepts a full timestamp, a bare clock time that gets combined
// with the session date, or nothing at all, in which case now is used.
func parseTimeIn(date, raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, date+" "+raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func (au *attendanceUseCase) Records(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.Query(ctx, filter)
}

func (au *attendanceUseCase) Today(ctx context.Context) ([]domain.Attendance, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.TodayAttendance(ctx, todayDate())
}

func (au *attendanceUseCase) Stats(ctx context.Context, startDate, endDate string) ([]domain.AttendanceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.AggregateByStudent(ctx, startDate, endDate)
}

func (au *attendanceUseCase) Sessions(ctx context.Context) ([]domain.AttendanceSession, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.attendanceRepo.AllSessions(ctx)
}

// SaveSession stores a whole-class roster: one session row plus one
// attendance row per student. Notification fan-out is not done here; the
// saved session id is handed to the queue and a worker picks it up after
// the response has gone out.
func (au *attendanceUseCase) SaveSession(ctx context.Context, submission *domain.SessionSubmission) (*domain.SessionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	log := config.GetLogrusInstance()

	if _, err := govalidator.ValidateStruct(submission); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(submission.Students) == 0 {
		return nil, fmt.Errorf("%w: students list is empty", domain.ErrValidation)
	}
	date := submission.Date

	// Present and absent lists keep the submitted identifier, the student
	// code when there is one, the numeric id otherwise. The worker resolves
	// them back to directory entries.
	var present, absent domain.StringList
	for _, s := range submission.Students {
		ref := rosterRef(s)
		switch s.Status {
		case "present":
			present = append(present, ref)
		case "absent":
			absent = append(absent, ref)
		}
	}

	var teacherName *string
	if submission.TeacherID != nil {
		teacher, err := au.teacherRepo.FindByID(ctx, *submission.TeacherID)
		if err != nil {
			log.Errorf("teacher lookup failed: %v", err)
		}
		if teacher != nil {
			name := teacher.FullName()
			teacherName = &name
		}
	}

	result := &domain.SessionResult{
		PresentCount: len(present),
		AbsentCount:  len(absent),
	}

	for _, s := range submission.Students {
		name := rosterName(s)

		existing, err := au.attendanceRepo.FindByStudentAndDate(ctx, name, date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Records = append(result.Records, domain.MarkResult{Record: existing, AlreadyMarked: true})
			result.AlreadyCount++
			continue
		}

		status := s.Status
		if status == "" {
			status = "present"
		}
		record := &domain.Attendance{
			StudentName:  name,
			StudentEmail: s.Email,
			Subject:      submission.Subject,
			Date:         date,
			TimeIn:       parseTimeIn(date, s.Time),
			Status:       status,
			MarkedBy:     teacherName,
		}
		err = au.attendanceRepo.Create(ctx, record)
		if errors.Is(err, domain.ErrDuplicate) {
			winner, findErr := au.attendanceRepo.FindByStudentAndDate(ctx, name, date)
			if findErr != nil {
				return nil, findErr
			}
			result.Records = append(result.Records, domain.MarkResult{Record: winner, AlreadyMarked: true})
			result.AlreadyCount++
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, domain.MarkResult{Record: record, AlreadyMarked: false})
		result.MarkedCount++
	}

	session := &domain.AttendanceSession{
		Subject:         submission.Subject,
		ClassID:         submission.ClassID,
		Date:            date,
		TeacherName:     teacherName,
		PresentStudents: present,
		AbsentStudents:  absent,
		FilePath:        submission.FilePath,
	}
	if err := au.attendanceRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	result.Session = session

	if au.jobs != nil {
		msg := queue.NewMessage("session", strconv.Itoa(session.ID))
		if err := au.jobs.Publish(ctx, msg); err != nil {
			log.Errorf("could not enqueue notification job for session %d: %v", session.ID, err)
		}
	}

	return result, nil
}

// rosterRef is what goes into the session's present/absent lists: the
// external student code when present, the numeric id otherwise.
func rosterRef(s domain.RosterEntry) string {
	if s.StudentID != nil && *s.StudentID != "" {
		return *s.StudentID
	}
	return strconv.Itoa(s.ID)
}

// rosterName is the display name stored on attendance rows. Entries without
// a name fall back to their identifier so the row stays traceable.
func rosterName(s domain.RosterEntry) string {
	if s.Name != nil && *s.Name != "" {
		return *s.Name
	}
	return rosterRef(s)
}
