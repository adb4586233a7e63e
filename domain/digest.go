package domain

import (
	"context"
	"time"
)

// CourseAttendanceSummary collapses a student's same-day sessions for one
// course. TotalClasses is the number of sessions held for that course on
// that date, not a constant 1.
type CourseAttendanceSummary struct {
	CourseID     string `json:"course_id"`
	CourseName   string `json:"course_name"`
	TotalClasses int    `json:"total_classes"`
	Attended     int    `json:"attended"`
}

type StudentDailyAttendance struct {
	StudentID   string                    `json:"student_id"`
	StudentName string                    `json:"student_name"`
	PhoneNumber string                    `json:"phone_number"`
	Courses     []CourseAttendanceSummary `json:"courses"`
}

// DigestSender delivers one composed message. Implementations are transport
// adapters (SMS, WhatsApp); composition stays in the usecase.
type DigestSender interface {
	Send(ctx context.Context, to, body string) error
}

type DigestResult struct {
	Sent           int      `json:"sent"`
	Failed         int      `json:"failed"`
	Skipped        int      `json:"skipped"`
	Total          int      `json:"total"`
	FailedStudents []string `json:"failed_students,omitempty"`
}

type NotifierUseCase interface {
	NotifyDaily(ctx context.Context, date time.Time) (*DigestResult, error)
}
