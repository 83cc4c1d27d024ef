package usecase

import (
	"attendance/domain"
	"attendance/queue"
	"context"
	"strconv"
	"strings"
	"sync"
)

type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string]*domain.Attendance
	sessions []*domain.AttendanceSession
	nextID   int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]*domain.Attendance{}}
}

func key(name, date string) string { return name + "|" + date }

func (f *fakeAttendanceRepo) FindByStudentAndDate(ctx context.Context, studentName, date string) (*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[key(studentName, date)]; ok {
		return r, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record *domain.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := key(record.StudentName, record.Date)
	if _, ok := f.records[k]; ok {
		return domain.ErrDuplicate
	}
	f.nextID++
	record.ID = f.nextID
	f.records[k] = record
	return nil
}

func (f *fakeAttendanceRepo) Query(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Attendance
	for _, r := range f.records {
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if filter.StudentName != "" && !strings.Contains(strings.ToLower(r.StudentName), strings.ToLower(filter.StudentName)) {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) TodayAttendance(ctx context.Context, date string) ([]domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Attendance
	for _, r := range f.records {
		if r.Date == date {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) AggregateByStudent(ctx context.Context, startDate, endDate string) ([]domain.AttendanceStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, r := range f.records {
		counts[r.StudentName]++
	}
	var out []domain.AttendanceStats
	for name, n := range counts {
		out = append(out, domain.AttendanceStats{StudentName: name, TotalDays: n})
	}
	return out, nil
}

func (f *fakeAttendanceRepo) FindByStudentNames(ctx context.Context, names []string) ([]domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	var out []domain.Attendance
	for _, r := range f.records {
		if wanted[r.StudentName] {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CreateSession(ctx context.Context, session *domain.AttendanceSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session.ID = len(f.sessions) + 1
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeAttendanceRepo) FindSession(ctx context.Context, id int) (*domain.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) AllSessions(ctx context.Context) ([]domain.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AttendanceSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

type fakeStudentRepo struct {
	students []domain.Student
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id int) (*domain.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) FindByField(ctx context.Context, field, value string) (*domain.Student, error) {
	for i := range f.students {
		s := &f.students[i]
		switch field {
		case "name":
			if s.FullName() == value {
				return s, nil
			}
		case "email":
			if s.Email != nil && *s.Email == value {
				return s, nil
			}
		case "studentId":
			if s.StudentID == value {
				return s, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) FindAllByIDs(ctx context.Context, ids []int) ([]domain.Student, error) {
	var out []domain.Student
	for _, id := range ids {
		for i := range f.students {
			if f.students[i].ID == id {
				out = append(out, f.students[i])
			}
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindAllByCodes(ctx context.Context, codes []string) ([]domain.Student, error) {
	var out []domain.Student
	for _, code := range codes {
		for i := range f.students {
			if f.students[i].StudentID == code {
				out = append(out, f.students[i])
			}
		}
	}
	return out, nil
}

type fakeTeacherRepo struct {
	teachers []domain.Teacher
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, id int) (*domain.Teacher, error) {
	for i := range f.teachers {
		if f.teachers[i].ID == id {
			return &f.teachers[i], nil
		}
	}
	return nil, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeNotifier struct {
	mu     sync.Mutex
	texts  []sentMessage
	emails []sentMessage
	fail   bool
}

func (f *fakeNotifier) SendText(ctx context.Context, phoneRaw, message string) domain.SendResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, sentMessage{To: phoneRaw, Body: message})
	if f.fail {
		return domain.SendResult{Success: false, Error: "provider rejected"}
	}
	return domain.SendResult{Success: true, MessageID: "SM" + strconv.Itoa(len(f.texts))}
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) domain.SendResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, sentMessage{To: to, Body: body})
	if f.fail {
		return domain.SendResult{Success: false, Error: "provider rejected"}
	}
	return domain.SendResult{Success: true}
}

func (f *fakeNotifier) sentTexts() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage{}, f.texts...)
}

func (f *fakeNotifier) sentEmails() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage{}, f.emails...)
}

func newTestUseCase(repo *fakeAttendanceRepo, students *fakeStudentRepo, teachers *fakeTeacherRepo, notifier *fakeNotifier, jobs queue.Queue) domain.AttendanceUseCase {
	return NewAttendanceUseCase(repo, students, teachers, notifier, jobs, testTimeout)
}
