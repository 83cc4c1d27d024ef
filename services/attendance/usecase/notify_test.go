package usecase

import (
	"attendance/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, repo *fakeAttendanceRepo, present, absent domain.StringList) int {
	t.Helper()
	session := &domain.AttendanceSession{
		Subject:         "Math",
		ClassID:         "CS-3A",
		Date:            "2026-08-31",
		PresentStudents: present,
		AbsentStudents:  absent,
	}
	require.NoError(t, repo.CreateSession(context.Background(), session))
	return session.ID
}

func TestNotifyForSessionResolvesBothIdentifierKinds(t *testing.T) {
	repo := newFakeAttendanceRepo()
	phone1, phone2 := "03001111111", "03002222222"
	students := &fakeStudentRepo{students: []domain.Student{
		{ID: 1, StudentID: "S-100", FirstName: "Ali", LastName: "Khan", Phone: &phone1},
		{ID: 2, StudentID: "S-200", FirstName: "Sara", LastName: "Ahmed", Phone: &phone2},
	}}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, students, &fakeTeacherRepo{}, notifier, nil)

	// One student referenced by numeric id, the other by code.
	id := seedSession(t, repo, domain.StringList{"1"}, domain.StringList{"S-200"})
	uc.NotifyForSession(context.Background(), id)

	texts := notifier.sentTexts()
	require.Len(t, texts, 2)

	byPhone := map[string]string{}
	for _, m := range texts {
		byPhone[m.To] = m.Body
	}
	assert.Contains(t, byPhone[phone1], "present")
	assert.Contains(t, byPhone[phone2], "absent")
}

func TestNotifyForSessionDeduplicates(t *testing.T) {
	repo := newFakeAttendanceRepo()
	phone := "03001111111"
	students := &fakeStudentRepo{students: []domain.Student{
		{ID: 1, StudentID: "S-100", FirstName: "Ali", LastName: "Khan", Phone: &phone},
	}}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, students, &fakeTeacherRepo{}, notifier, nil)

	// Same student appears under its id and its code; present wins.
	id := seedSession(t, repo, domain.StringList{"1"}, domain.StringList{"S-100"})
	uc.NotifyForSession(context.Background(), id)

	texts := notifier.sentTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0].Body, "present")
}

func TestNotifyForSessionSkipsNoPhone(t *testing.T) {
	repo := newFakeAttendanceRepo()
	students := &fakeStudentRepo{students: []domain.Student{
		{ID: 1, StudentID: "S-100", FirstName: "Ali", LastName: "Khan"},
	}}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, students, &fakeTeacherRepo{}, notifier, nil)

	id := seedSession(t, repo, domain.StringList{"1"}, nil)
	uc.NotifyForSession(context.Background(), id)

	assert.Empty(t, notifier.sentTexts())
}

func TestNotifyForSessionEmailsAbsentees(t *testing.T) {
	repo := newFakeAttendanceRepo()
	email := "sara@example.edu"
	students := &fakeStudentRepo{students: []domain.Student{
		{ID: 2, StudentID: "S-200", FirstName: "Sara", LastName: "Ahmed", Email: &email},
	}}
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, students, &fakeTeacherRepo{}, notifier, nil)

	id := seedSession(t, repo, nil, domain.StringList{"S-200"})
	uc.NotifyForSession(context.Background(), id)

	emails := notifier.sentEmails()
	require.Len(t, emails, 1)
	assert.Equal(t, email, emails[0].To)
	assert.Contains(t, emails[0].Body, "absent")
}

func TestNotifyForSessionUnknownSessionIsNoop(t *testing.T) {
	repo := newFakeAttendanceRepo()
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, &fakeStudentRepo{}, &fakeTeacherRepo{}, notifier, nil)

	uc.NotifyForSession(context.Background(), 42)

	assert.Empty(t, notifier.sentTexts())
	assert.Empty(t, notifier.sentEmails())
}

func TestNotifyForSessionUnresolvedRefsSkipped(t *testing.T) {
	repo := newFakeAttendanceRepo()
	notifier := &fakeNotifier{}
	uc := newTestUseCase(repo, &fakeStudentRepo{}, &fakeTeacherRepo{}, notifier, nil)

	id := seedSession(t, repo, domain.StringList{"999", "NOBODY"}, nil)
	uc.NotifyForSession(context.Background(), id)

	assert.Empty(t, notifier.sentTexts())
}
