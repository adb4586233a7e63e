package domain

import (
	"context"
	"time"
)

// DateLayout is the wire format for attendance dates.
const DateLayout = "2006-01-02"

type AttendanceRecord struct {
	AttendanceID int       `gorm:"primaryKey;autoIncrement" json:"attendance_id"`
	StudentID    string    `gorm:"type:varchar(255);not null;index:idx_attendance_student_course" json:"student_id" valid:"required~Student ID is required"`
	CourseID     string    `gorm:"type:varchar(255);not null;index:idx_attendance_course_date" json:"course_id" valid:"required~Course ID is required"`
	Date         time.Time `gorm:"type:date;not null;index:idx_attendance_course_date" json:"date"`
	Present      bool      `gorm:"not null" json:"present"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}

// DateKey is the record's date in DateLayout form, used to group same-day
// sessions.
func (r AttendanceRecord) DateKey() string {
	return r.Date.Format(DateLayout)
}

// AttendanceEntry is one row of a bulk submission or update request.
type AttendanceEntry struct {
	StudentID string `json:"student_id" valid:"required~Student ID is required"`
	CourseID  string `json:"course_id" valid:"required~Course ID is required"`
	Date      string `json:"date" valid:"required~Date is required"`
	Present   bool   `json:"present"`
}

type BulkAttendanceRequest struct {
	Attendances []AttendanceEntry `json:"attendances" valid:"required~Attendances are required"`
}

type SkippedRecord struct {
	Record AttendanceRecord `json:"record"`
	Reason string           `json:"reason"`
}

// BulkAttendanceResult reports per-record outcomes of a validated batch.
// Skips are data-layer anomalies (e.g. unknown student), not rule violations.
type BulkAttendanceResult struct {
	Added   []AttendanceRecord `json:"added"`
	Skipped []SkippedRecord    `json:"skipped"`
}

type FailedEntry struct {
	Entry  AttendanceEntry `json:"entry"`
	Reason string          `json:"reason"`
}

type BulkUpdateResult struct {
	Updated []AttendanceRecord `json:"updated"`
	Failed  []FailedEntry      `json:"failed"`
}

// CourseDateStatus is the lock state of one (course, date) pair.
type CourseDateStatus struct {
	Exists       bool   `json:"exists"`
	CourseID     string `json:"course_id"`
	Date         string `json:"date"`
	RecordsCount int    `json:"records_count"`
}

type AttendanceRepo interface {
	// AddBulk inserts a validated batch atomically. The course-date lock is
	// re-checked inside the same transaction as the inserts; a locked pair
	// returns *LockConflictError and writes nothing.
	AddBulk(ctx context.Context, records []AttendanceRecord) (*BulkAttendanceResult, error)
	CountForCourseDate(ctx context.Context, courseID string, date time.Time) (int64, error)
	ListForCourseDate(ctx context.Context, courseID string, date time.Time) ([]AttendanceRecord, error)
	ListForCourse(ctx context.Context, courseID string, from, to *time.Time) ([]AttendanceRecord, error)
	ListForStudentCourse(ctx context.Context, studentID, courseID string) ([]AttendanceRecord, error)
	ListForDate(ctx context.Context, date time.Time) ([]AttendanceRecord, error)
	ListForSemester(ctx context.Context, semID string) ([]AttendanceRecord, error)
	// Update mutates the present flag of the earliest row matching
	// (student, course, date). It never inserts; missing rows return
	// ErrNotFound.
	Update(ctx context.Context, rec AttendanceRecord) (*AttendanceRecord, error)
}

type AttendanceUseCase interface {
	AddBulk(ctx context.Context, entries []AttendanceEntry) (*BulkAttendanceResult, error)
	Update(ctx context.Context, entry AttendanceEntry) (*AttendanceRecord, error)
	UpdateBulk(ctx context.Context, entries []AttendanceEntry) (*BulkUpdateResult, error)
	CourseDateStatus(ctx context.Context, courseID string, date time.Time) (*CourseDateStatus, error)
	CourseAttendance(ctx context.Context, courseID string, date time.Time) ([]AttendanceRecord, error)
	StudentSummary(ctx context.Context, studentID, courseID string) (*AttendanceSummary, error)
}
