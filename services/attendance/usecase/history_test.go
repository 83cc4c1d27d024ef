package usecase

import (
	"attendance/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStudent() *fakeStudentRepo {
	email := "ali@example.edu"
	return &fakeStudentRepo{students: []domain.Student{
		{ID: 1, StudentID: "S-100", FirstName: "Ali", LastName: "Khan", Email: &email},
	}}
}

func TestHistoryUnknownStudent(t *testing.T) {
	uc := newTestUseCase(newFakeAttendanceRepo(), &fakeStudentRepo{}, &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	_, err := uc.History(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CombinedHistory(context.Background(), "S-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryResolvesByCode(t *testing.T) {
	repo := newFakeAttendanceRepo()
	require.NoError(t, repo.Create(context.Background(), &domain.Attendance{
		StudentName: "Ali Khan", Date: "2026-08-30", Subject: "Math", Status: "present",
	}))
	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.History(context.Background(), "S-100")
	require.NoError(t, err)
	assert.Equal(t, "Ali Khan", history.Student.FullName())
	require.Len(t, history.Entries, 1)
	assert.Equal(t, 1, history.Present)
}

func TestCombinedHistoryMergesOnDateAndSubject(t *testing.T) {
	repo := newFakeAttendanceRepo()
	teacher := "Nadia Iqbal"
	marker := "Scanner"

	require.NoError(t, repo.Create(context.Background(), &domain.Attendance{
		StudentName: "Ali Khan", Date: "2026-08-30", Subject: "Math",
		Status: "present", TimeIn: time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
		MarkedBy: &marker,
	}))
	require.NoError(t, repo.CreateSession(context.Background(), &domain.AttendanceSession{
		Subject: "Math", ClassID: "CS-3A", Date: "2026-08-30",
		TeacherName:     &teacher,
		PresentStudents: domain.StringList{"S-100"},
	}))

	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.CombinedHistory(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "present", entry.Status)
	require.NotNil(t, entry.Time)
	assert.Equal(t, "09:15:00", *entry.Time)
	require.NotNil(t, entry.MarkedBy)
	assert.Equal(t, "Scanner & Nadia Iqbal", *entry.MarkedBy)
}

func TestCombinedHistoryPresentWins(t *testing.T) {
	repo := newFakeAttendanceRepo()
	teacher := "Nadia Iqbal"

	require.NoError(t, repo.Create(context.Background(), &domain.Attendance{
		StudentName: "Ali Khan", Date: "2026-08-30", Subject: "Math", Status: "absent",
	}))
	require.NoError(t, repo.CreateSession(context.Background(), &domain.AttendanceSession{
		Subject: "Math", ClassID: "CS-3A", Date: "2026-08-30",
		TeacherName:     &teacher,
		PresentStudents: domain.StringList{"1"},
	}))

	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.CombinedHistory(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "present", entry.Status)
	require.NotNil(t, entry.MarkedBy)
	assert.Equal(t, "Nadia Iqbal", *entry.MarkedBy)
}

func TestCombinedHistorySessionOnlyAbsence(t *testing.T) {
	repo := newFakeAttendanceRepo()
	teacher := "Nadia Iqbal"

	require.NoError(t, repo.CreateSession(context.Background(), &domain.AttendanceSession{
		Subject: "Physics", ClassID: "CS-3A", Date: "2026-08-29",
		TeacherName:    &teacher,
		AbsentStudents: domain.StringList{"ali@example.edu"},
	}))

	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.CombinedHistory(context.Background(), "S-100")
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)

	entry := history.Entries[0]
	assert.Equal(t, "absent", entry.Status)
	assert.Equal(t, "Physics", entry.Subject)
	require.NotNil(t, entry.MarkedBy)
	assert.Equal(t, "Nadia Iqbal", *entry.MarkedBy)
	assert.Equal(t, 1, history.Absent)
}

func TestCombinedHistoryFirstSessionPerKeyWins(t *testing.T) {
	repo := newFakeAttendanceRepo()
	first, second := "Nadia Iqbal", "Omar Farooq"

	require.NoError(t, repo.CreateSession(context.Background(), &domain.AttendanceSession{
		Subject: "Math", ClassID: "CS-3A", Date: "2026-08-30",
		TeacherName:     &first,
		PresentStudents: domain.StringList{"1"},
	}))
	require.NoError(t, repo.CreateSession(context.Background(), &domain.AttendanceSession{
		Subject: "Math", ClassID: "CS-3A", Date: "2026-08-30",
		TeacherName:     &second,
		PresentStudents: domain.StringList{"1"},
	}))

	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.CombinedHistory(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	require.NotNil(t, history.Entries[0].MarkedBy)
	assert.Equal(t, "Nadia Iqbal", *history.Entries[0].MarkedBy)
}

func TestCombinedHistorySortsNewestFirst(t *testing.T) {
	repo := newFakeAttendanceRepo()
	for _, date := range []string{"2026-08-28", "2026-08-30", "2026-08-29"} {
		require.NoError(t, repo.Create(context.Background(), &domain.Attendance{
			StudentName: "Ali Khan", Date: date, Subject: "Math", Status: "present",
		}))
	}

	uc := newTestUseCase(repo, seedStudent(), &fakeTeacherRepo{}, &fakeNotifier{}, nil)

	history, err := uc.CombinedHistory(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, "2026-08-30", history.Entries[0].Date)
	assert.Equal(t, "2026-08-29", history.Entries[1].Date)
	assert.Equal(t, "2026-08-28", history.Entries[2].Date)
}
