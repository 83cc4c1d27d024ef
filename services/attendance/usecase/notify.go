package usecase

import (
	"attendance/config"
	"attendance/domain"
	"context"
	"fmt"
	"strconv"
	"sync"
)

// NotifyForSession is the worker side of a bulk submission: it loads the
// saved session, resolves roster identifiers back to directory entries and
// texts every student that has a phone on file. It never returns an error;
// notification failures are values recorded per attempt.
func (au *attendanceUseCase) NotifyForSession(ctx context.Context, sessionID int) {
	log := config.GetLogrusInstance()

	session, err := au.attendanceRepo.FindSession(ctx, sessionID)
	if err != nil {
		log.Errorf("could not load session %d: %v", sessionID, err)
		return
	}
	if session == nil {
		log.Warnf("No attendance session found for id %d", sessionID)
		return
	}

	subject := session.Subject
	if subject == "" {
		subject = "Subject"
	}
	date := session.Date

	refs := dedupe(append(append([]string{}, session.PresentStudents...), session.AbsentStudents...))

	var ids []int
	var codes []string
	for _, ref := range refs {
		if id, err := strconv.Atoi(ref); err == nil {
			ids = append(ids, id)
		} else {
			codes = append(codes, ref)
		}
	}

	students, err := au.studentRepo.FindAllByIDs(ctx, ids)
	if err != nil {
		log.Errorf("student lookup by ids failed: %v", err)
	}
	byCode, err := au.studentRepo.FindAllByCodes(ctx, codes)
	if err != nil {
		log.Errorf("student lookup by codes failed: %v", err)
	}
	students = append(students, byCode...)

	// Identifiers that resolve to no directory entry are skipped; there is
	// nobody to text.
	seen := map[int]bool{}
	var wg sync.WaitGroup
	for i := range students {
		student := students[i]
		if seen[student.ID] {
			continue
		}
		seen[student.ID] = true

		status := "absent"
		if matchesAny(session.PresentStudents, &student) {
			status = "present"
		}

		if student.Phone == nil || *student.Phone == "" {
			log.Warnf("No phone on file for student %d, skipping SMS", student.ID)
			au.notifyAbsentByEmail(ctx, &student, subject, date, status)
			continue
		}

		phone := *student.Phone
		message := fmt.Sprintf("Your %s attendance for %s is %s.", subject, date, status)

		wg.Add(1)
		go func(studentID int) {
			defer wg.Done()
			result := au.notifier.SendText(ctx, phone, message)
			if !result.Success {
				log.Errorf("SMS to student %d failed: %s", studentID, result.Error)
			}
		}(student.ID)

		au.notifyAbsentByEmail(ctx, &student, subject, date, status)
	}
	wg.Wait()

	log.Infof("Notification fan-out completed for session %d", sessionID)
}

// Absent students with an email on file also get an absence notice.
func (au *attendanceUseCase) notifyAbsentByEmail(ctx context.Context, student *domain.Student, subject, date, status string) {
	if status != "absent" || student.Email == nil || *student.Email == "" {
		return
	}
	body := fmt.Sprintf("Dear %s,\n\nYou were marked absent for %s on %s. Please contact your teacher if this is incorrect.", student.FullName(), subject, date)
	au.notifier.SendEmail(ctx, *student.Email, "Absence notice: "+subject, body)
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// matchesAny reports whether any identifier in the list points at this
// student: numeric id, student code or email.
func matchesAny(list []string, student *domain.Student) bool {
	id := strconv.Itoa(student.ID)
	for _, ref := range list {
		if ref == id || ref == student.StudentID {
			return true
		}
		if student.Email != nil && ref == *student.Email {
			return true
		}
	}
	return false
}
