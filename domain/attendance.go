package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Attendance is one student-day record. The unique index on
// (student_name, date) is what makes marking idempotent: a second insert
// for the same pair is detected by the database, not by the application.
type Attendance struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentName  string    `gorm:"type:varchar(255);not null;uniqueIndex:unique_student_date" json:"student_name" valid:"required~Student name is required"`
	StudentEmail *string   `gorm:"type:varchar(255)" json:"student_email"`
	Subject      string    `gorm:"type:varchar(150);not null;default:General" json:"subject"`
	Date         string    `gorm:"type:date;not null;uniqueIndex:unique_student_date" json:"date" valid:"required~Date is required"`
	TimeIn       time.Time `gorm:"not null" json:"time_in"`
	Status       string    `gorm:"type:varchar(10);not null;default:present" json:"status"`
	MarkedBy     *string   `gorm:"type:varchar(255)" json:"marked_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Attendance) TableName() string { return "attendances" }

// StringList stores a list of student names as a jsonb column.
type StringList []string

func (sl StringList) Value() (driver.Value, error) {
	if sl == nil {
		return "[]", nil
	}
	b, err := json.Marshal(sl)
	if err != nil {
		return nil, fmt.Errorf("could not marshal string list: %w", err)
	}
	return string(b), nil
}

func (sl *StringList) Scan(value interface{}) error {
	if value == nil {
		*sl = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported string list source: %T", value)
	}
	return json.Unmarshal(raw, sl)
}

// AttendanceSession is one submitted classroom roster. Present and absent
// lists hold display names, mirroring what was marked.
type AttendanceSession struct {
	ID              int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject         string     `gorm:"type:varchar(150);not null" json:"subject" valid:"required~Subject is required"`
	ClassID         string     `gorm:"type:varchar(50);not null" json:"class_id" valid:"required~Class is required"`
	Date            string     `gorm:"type:date;not null" json:"date"`
	TeacherName     *string    `gorm:"type:varchar(255)" json:"teacher_name"`
	PresentStudents StringList `gorm:"type:jsonb" json:"present_students"`
	AbsentStudents  StringList `gorm:"type:jsonb" json:"absent_students"`
	FilePath        *string    `gorm:"type:varchar(512)" json:"file_path"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AttendanceSession) TableName() string { return "attendance_sessions" }

// MarkRequest is a single-student marking call. The day and time are never
// caller-supplied: marking always targets today, stamped at call entry.
type MarkRequest struct {
	StudentName  string  `json:"student_name" valid:"required~Student name is required"`
	StudentEmail *string `json:"student_email"`
	Subject      string  `json:"subject"`
	Status       string  `json:"status"`
	MarkedBy     *string `json:"markedBy"`
}

// MarkResult distinguishes a fresh insert from an idempotent repeat.
type MarkResult struct {
	Record        *Attendance `json:"record"`
	AlreadyMarked bool        `json:"alreadyMarked"`
}

// RosterEntry is one student row inside a bulk session submission. ID and
// StudentID are both accepted; numeric callers send ID, external callers
// send the student code.
type RosterEntry struct {
	ID        int     `json:"id"`
	StudentID *string `json:"studentId"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Status    string  `json:"status"`
	Time      string  `json:"time"`
}

// SessionSubmission is a whole-class roster submitted in one request.
type SessionSubmission struct {
	Subject   string        `json:"subject" valid:"required~Subject is required"`
	ClassID   string        `json:"classId" valid:"required~Class is required"`
	Date      string        `json:"date" valid:"required~Date is required"`
	TeacherID *int          `json:"teacherId"`
	Students  []RosterEntry `json:"students"`
	FilePath  *string       `json:"-"`
}

// SessionResult reports what a bulk submission produced. Records follows the
// roster's input order so callers can tell created rows from reused ones.
type SessionResult struct {
	Session      *AttendanceSession `json:"session"`
	Records      []MarkResult       `json:"records"`
	MarkedCount  int                `json:"marked"`
	AlreadyCount int                `json:"alreadyMarked"`
	PresentCount int                `json:"presentCount"`
	AbsentCount  int                `json:"absentCount"`
}

// AttendanceFilter narrows record listings.
type AttendanceFilter struct {
	Date        string
	StudentName string
	Limit       int
	Offset      int
}

// AttendanceStats is one per-student aggregate row.
type AttendanceStats struct {
	StudentName     string `json:"student_name"`
	TotalDays       int    `json:"total_days"`
	FirstAttendance string `json:"first_attendance"`
	LastAttendance  string `json:"last_attendance"`
}

// HistoryEntry is one day in a student's combined history. Daily records
// and session rosters merge into these on the (date, subject) key.
type HistoryEntry struct {
	Date     string  `json:"date"`
	Subject  string  `json:"subject"`
	Status   string  `json:"status"`
	Time     *string `json:"time"`
	MarkedBy *string `json:"markedBy"`
}

// StudentHistory is the merged view returned to a student's own page.
type StudentHistory struct {
	Student *Student       `json:"student"`
	Entries []HistoryEntry `json:"history"`
	Total   int            `json:"total"`
	Present int            `json:"present"`
	Absent  int            `json:"absent"`
}

type AttendanceRepo interface {
	FindByStudentAndDate(ctx context.Context, studentName, date string) (*Attendance, error)
	Create(ctx context.Context, record *Attendance) error
	Query(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	TodayAttendance(ctx context.Context, date string) ([]Attendance, error)
	AggregateByStudent(ctx context.Context, startDate, endDate string) ([]AttendanceStats, error)
	FindByStudentNames(ctx context.Context, names []string) ([]Attendance, error)
	CreateSession(ctx context.Context, session *AttendanceSession) error
	FindSession(ctx context.Context, id int) (*AttendanceSession, error)
	AllSessions(ctx context.Context) ([]AttendanceSession, error)
}

type AttendanceUseCase interface {
	Mark(ctx context.Context, req *MarkRequest) (*MarkResult, error)
	Records(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	Today(ctx context.Context) ([]Attendance, error)
	Stats(ctx context.Context, startDate, endDate string) ([]AttendanceStats, error)
	SaveSession(ctx context.Context, submission *SessionSubmission) (*SessionResult, error)
	Sessions(ctx context.Context) ([]AttendanceSession, error)
	History(ctx context.Context, studentRef string) (*StudentHistory, error)
	CombinedHistory(ctx context.Context, studentRef string) (*StudentHistory, error)
	NotifyForSession(ctx context.Context, sessionID int)
}
