package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type attendanceHandler struct {
	uc         domain.AttendanceUseCase
	classifier domain.FaceClassifier
}

func NewAttendanceDelivery(app *fiber.App, uc domain.AttendanceUseCase, classifier domain.FaceClassifier) {
	handler := &attendanceHandler{
		uc:         uc,
		classifier: classifier,
	}

	route := app.Group("/attendance")

	route.Post("/mark", handler.MarkAttendance)
	route.Get("/", handler.GetAttendance)
	route.Get("/today", handler.GetTodayAttendance)
	route.Get("/stats", handler.GetAttendanceStats)
	route.Get("/export", handler.ExportAttendance)
	route.Get("/sessions", handler.GetSessions)
	route.Post("/session", middleware.AuthRequired(), middleware.RoleRequired("teacher", "admin"), handler.SaveSession)
	route.Post("/classify", middleware.AuthRequired(), middleware.RoleRequired("teacher", "admin"), handler.ClassifyAndMark)
	route.Get("/student/:id", handler.GetStudentAttendance)
	route.Get("/student/:id/combined", handler.GetStudentAttendanceCombined)
}

func (ah *attendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	var req domain.MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	ctx := context.Background()
	result, err := ah.uc.Mark(ctx, &req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"message": "Student name is required",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to mark attendance",
		})
	}

	if result.AlreadyMarked {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":       true,
			"message":       "Attendance already marked for today",
			"data":          result.Record,
			"alreadyMarked": true,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Attendance marked successfully",
		"data":          result.Record,
		"alreadyMarked": false,
	})
}

func (ah *attendanceHandler) GetAttendance(c *fiber.Ctx) error {
	filter := domain.AttendanceFilter{
		Date:        c.Query("date"),
		StudentName: c.Query("student_name"),
		Limit:       c.QueryInt("limit", 50),
		Offset:      c.QueryInt("offset", 0),
	}

	records, total, err := ah.uc.Records(context.Background(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch attendance records",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    records,
		"total":   total,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})
}

func (ah *attendanceHandler) GetTodayAttendance(c *fiber.Ctx) error {
	records, err := ah.uc.Today(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch today's attendance",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"date":    time.Now().Format("2006-01-02"),
		"count":   len(records),
		"data":    records,
	})
}

func (ah *attendanceHandler) GetAttendanceStats(c *fiber.Ctx) error {
	stats, err := ah.uc.Stats(context.Background(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch attendance statistics",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (ah *attendanceHandler) GetSessions(c *fiber.Ctx) error {
	sessions, err := ah.uc.Sessions(context.Background())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch attendance sessions",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sessions,
	})
}

// SaveSession accepts the whole-class roster either as multipart form data
// with an optional snapshot file, or as a plain JSON body.
func (ah *attendanceHandler) SaveSession(c *fiber.Ctx) error {
	var submission domain.SessionSubmission

	if subject := c.FormValue("subject"); subject != "" {
		submission.Subject = subject
		submission.ClassID = c.FormValue("classId")
		submission.Date = c.FormValue("date")

		if raw := c.FormValue("teacher_id"); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil {
				submission.TeacherID = &id
			}
		}

		if raw := c.FormValue("students"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &submission.Students); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"success": false,
					"error":   err.Error(),
					"message": "Invalid students payload",
				})
			}
		}

		if file, err := c.FormFile("file"); err == nil {
			uploadDir := config.GetUploadDir()
			if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
				os.MkdirAll(uploadDir, os.ModePerm)
			}
			filePath := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), file.Filename))
			if err := c.SaveFile(file, filePath); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   err.Error(),
					"message": "Failed to save file",
				})
			}
			submission.FilePath = &filePath
		}
	} else if err := c.BodyParser(&submission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	result, err := ah.uc.SaveSession(context.Background(), &submission)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"message": "Missing required fields (subject, classId, date, students)",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to save attendance",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Attendance saved for all students",
		"data":          result.Records,
		"session":       result.Session,
		"marked":        result.MarkedCount,
		"alreadyMarked": result.AlreadyCount,
		"present":       result.PresentCount,
		"absent":        result.AbsentCount,
		"file":          result.Session.FilePath,
	})
}

// ClassifyAndMark runs the face service over a classroom snapshot and marks
// every returned verdict through the regular marking path. A caller that
// already ran the classifier can send the matches directly.
func (ah *attendanceHandler) ClassifyAndMark(c *fiber.Ctx) error {
	var req struct {
		ImageURL string             `json:"image_url"`
		Subject  string             `json:"subject"`
		Roster   []string           `json:"roster"`
		Matches  []domain.FaceMatch `json:"matches"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	ctx := context.Background()
	matches := req.Matches
	if len(matches) == 0 {
		if ah.classifier == nil || req.ImageURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Either matches or an image_url is required",
			})
		}
		var err error
		matches, err = ah.classifier.Classify(ctx, req.ImageURL, req.Roster)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
				"message": "Face classification failed",
			})
		}
	}

	marked := 0
	already := 0
	for _, m := range matches {
		result, err := ah.uc.Mark(ctx, &domain.MarkRequest{
			StudentName: m.StudentRef,
			Subject:     req.Subject,
			Status:      m.Status,
		})
		if err != nil {
			config.GetLogrusInstance().Errorf("could not mark %s from classifier verdict: %v", m.StudentRef, err)
			continue
		}
		if result.AlreadyMarked {
			already++
		} else {
			marked++
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":       true,
		"matches":       matches,
		"marked":        marked,
		"alreadyMarked": already,
	})
}

func (ah *attendanceHandler) GetStudentAttendance(c *fiber.Ctx) error {
	history, err := ah.uc.History(context.Background(), c.Params("id"))
	return ah.renderHistory(c, history, err)
}

func (ah *attendanceHandler) GetStudentAttendanceCombined(c *fiber.Ctx) error {
	history, err := ah.uc.CombinedHistory(context.Background(), c.Params("id"))
	return ah.renderHistory(c, history, err)
}

func (ah *attendanceHandler) renderHistory(c *fiber.Ctx, history *domain.StudentHistory, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Student not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch student attendance",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"name":              history.Student.FullName(),
		"attendanceRecords": history.Entries,
		"total":             history.Total,
		"present":           history.Present,
		"absent":            history.Absent,
	})
}

// ExportAttendance dumps matching attendance rows as CSV.
func (ah *attendanceHandler) ExportAttendance(c *fiber.Ctx) error {
	filter := domain.AttendanceFilter{
		Date:        c.Query("date"),
		StudentName: c.Query("student_name"),
		Limit:       c.QueryInt("limit", 1000),
	}

	records, _, err := ah.uc.Records(context.Background(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to export attendance",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"student_name", "date", "subject", "status", "time_in", "marked_by"})
	for _, r := range records {
		markedBy := ""
		if r.MarkedBy != nil {
			markedBy = *r.MarkedBy
		}
		w.Write([]string{
			r.StudentName,
			r.Date,
			r.Subject,
			r.Status,
			r.TimeIn.Format(time.RFC3339),
			markedBy,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to write CSV",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.csv"`)
	return c.Send(buf.Bytes())
}
