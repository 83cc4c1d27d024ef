package usecase

import (
	"attendance/domain"
	"context"
	"sort"
	"strconv"
)

const timeOfDayLayout = "15:04:05"

// resolveStudent accepts either the numeric primary key or the external
// student code, which is what the routes put in the path parameter.
func (au *attendanceUseCase) resolveStudent(ctx context.Context, ref string) (*domain.Student, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		student, err := au.studentRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if student != nil {
			return student, nil
		}
	}
	return au.studentRepo.FindByField(ctx, "studentId", ref)
}

// History lists a student's daily records only, newest first.
func (au *attendanceUseCase) History(ctx context.Context, studentRef string) (*domain.StudentHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	student, err := au.resolveStudent(ctx, studentRef)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}

	records, err := au.attendanceRepo.FindByStudentNames(ctx, []string{student.FullName()})
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, attendanceEntry(r))
	}
	return buildHistory(student, entries), nil
}

// CombinedHistory merges the student's daily rows with every session roster
// that mentions them, one entry per (date, subject) pair.
func (au *attendanceUseCase) CombinedHistory(ctx context.Context, studentRef string) (*domain.StudentHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	student, err := au.resolveStudent(ctx, studentRef)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domain.ErrNotFound
	}

	// Attendance rows may have been keyed by name, email or code depending
	// on which caller marked them.
	possibleNames := []string{student.FullName()}
	if student.Email != nil && *student.Email != "" {
		possibleNames = append(possibleNames, *student.Email)
	}
	possibleNames = append(possibleNames, student.StudentID)

	records, err := au.attendanceRepo.FindByStudentNames(ctx, possibleNames)
	if err != nil {
		return nil, err
	}

	sessions, err := au.attendanceRepo.AllSessions(ctx)
	if err != nil {
		return nil, err
	}

	type merged struct {
		date, subject string
		att, sess     *domain.HistoryEntry
	}
	byKey := map[string]*merged{}
	slot := func(date, subject string) *merged {
		key := date + "|" + subject
		m, ok := byKey[key]
		if !ok {
			m = &merged{date: date, subject: subject}
			byKey[key] = m
		}
		return m
	}

	for _, r := range records {
		entry := attendanceEntry(r)
		slot(r.Date, r.Subject).att = &entry
	}

	for _, s := range sessions {
		isPresent := matchesAny(s.PresentStudents, student)
		isAbsent := matchesAny(s.AbsentStudents, student)
		if !isPresent && !isAbsent {
			continue
		}
		status := "absent"
		if isPresent {
			status = "present"
		}
		m := slot(s.Date, s.Subject)
		if m.sess != nil {
			// Several sessions for the same date and subject: the first one
			// wins, they carry the same teacher anyway.
			continue
		}
		m.sess = &domain.HistoryEntry{
			Date:     s.Date,
			Subject:  s.Subject,
			Status:   status,
			MarkedBy: s.TeacherName,
		}
	}

	entries := make([]domain.HistoryEntry, 0, len(byKey))
	for _, m := range byKey {
		entries = append(entries, combine(m.date, m.subject, m.att, m.sess))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})

	return buildHistory(student, entries), nil
}

func attendanceEntry(r domain.Attendance) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		Date:     r.Date,
		Subject:  r.Subject,
		Status:   r.Status,
		MarkedBy: r.MarkedBy,
	}
	if !r.TimeIn.IsZero() {
		t := r.TimeIn.Format(timeOfDayLayout)
		entry.Time = &t
	}
	return entry
}

// combine applies the merge rules for a (date, subject) slot:
// present in either source wins, time comes from the daily row when it has
// one, and when both sources marked the student present the names join.
func combine(date, subject string, att, sess *domain.HistoryEntry) domain.HistoryEntry {
	out := domain.HistoryEntry{Date: date, Subject: subject, Status: "absent"}

	attPresent := att != nil && att.Status == "present"
	sessPresent := sess != nil && sess.Status == "present"

	switch {
	case attPresent || sessPresent:
		out.Status = "present"
	case att != nil && att.Status != "":
		out.Status = att.Status
	case sess != nil && sess.Status != "":
		out.Status = sess.Status
	}

	if att != nil && att.Time != nil {
		out.Time = att.Time
	} else if sess != nil && sess.Time != nil {
		out.Time = sess.Time
	}

	system := "System"
	name := func(e *domain.HistoryEntry) string {
		if e != nil && e.MarkedBy != nil && *e.MarkedBy != "" {
			return *e.MarkedBy
		}
		return system
	}

	var markedBy string
	switch {
	case attPresent && sessPresent:
		attName, sessName := name(att), name(sess)
		if attName == sessName {
			markedBy = attName
		} else {
			markedBy = attName + " & " + sessName
		}
	case attPresent:
		markedBy = name(att)
	case sessPresent:
		markedBy = name(sess)
	case att != nil && att.MarkedBy != nil && *att.MarkedBy != "":
		markedBy = *att.MarkedBy
	case sess != nil && sess.MarkedBy != nil && *sess.MarkedBy != "":
		markedBy = *sess.MarkedBy
	default:
		markedBy = system
	}
	out.MarkedBy = &markedBy

	return out
}

func buildHistory(student *domain.Student, entries []domain.HistoryEntry) *domain.StudentHistory {
	h := &domain.StudentHistory{
		Student: student,
		Entries: entries,
		Total:   len(entries),
	}
	for _, e := range entries {
		switch e.Status {
		case "present":
			h.Present++
		case "absent":
			h.Absent++
		}
	}
	return h
}
