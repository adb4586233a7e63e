package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Band is the coloring band applied to a percentage cell.
type Band string

const (
	BandExcellent Band = "excellent" // >= 90
	BandGood      Band = "good"      // 75 - 89
	BandWarning   Band = "warning"   // 60 - 74
	BandCritical  Band = "critical"  // < 60
	BandNone      Band = "none"      // N/A cells
)

func BandFor(pct float64) Band {
	switch {
	case pct >= 90:
		return BandExcellent
	case pct >= 75:
		return BandGood
	case pct >= 60:
		return BandWarning
	default:
		return BandCritical
	}
}

// Percentage rounds present/total to one decimal place, half away from zero.
// A zero total yields 0.
func Percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

// AttendanceSummary is the per-student, per-course aggregate. TotalClasses
// counts the student's own records only, so late joiners are not penalized
// for sessions held before they enrolled.
type AttendanceSummary struct {
	StudentID       string  `json:"student_id"`
	CourseID        string  `json:"course_id"`
	TotalClasses    int     `json:"total_classes"`
	ClassesAttended int     `json:"classes_attended"`
	ClassesMissed   int     `json:"classes_missed"`
	Percentage      float64 `json:"attendance_percentage"`
}

// SessionColumn is one matrix column: a date plus the 1-based lecture
// ordinal distinguishing multiple sessions on that date.
type SessionColumn struct {
	Date    string `json:"date"`
	Lecture int    `json:"lecture"`
}

func (c SessionColumn) Label() string {
	return fmt.Sprintf("%s (Lec %d)", c.Date, c.Lecture)
}

const (
	CellPresent = "P"
	CellAbsent  = "A"
	CellNoData  = "N/A"
)

type CourseMatrixRow struct {
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name"`
	Cells       []string `json:"cells"` // P / A / N/A, aligned with Columns
	Present     int      `json:"present"`
	Absent      int      `json:"absent"`
	Total       int      `json:"total"` // Present + Absent, N/A excluded
	Percentage  float64  `json:"percentage"`
	Band        Band     `json:"band"`
}

type CourseMatrix struct {
	CourseID   string          `json:"course_id"`
	CourseName string          `json:"course_name"`
	Columns    []SessionColumn `json:"columns"`
	Rows       []CourseMatrixRow `json:"rows"`
}

// StudentCourseSummary is one row of the tabular PDF report.
type StudentCourseSummary struct {
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	PresentDays  int     `json:"present_days"`
	TotalClasses int     `json:"total_classes"`
	Percentage   float64 `json:"percentage"`
	Band         Band    `json:"band"`
}

type CourseRef struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
}

func (c CourseRef) Label() string {
	return fmt.Sprintf("%s (%s)", c.CourseName, c.CourseID)
}

// CourseCell is one consolidated-matrix cell. HasData is false when the
// student has no records for the course; such cells render N/A and are
// excluded from the overall percentage.
type CourseCell struct {
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Band       Band    `json:"band"`
	HasData    bool    `json:"has_data"`
}

type SemesterMatrixRow struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	Cells       []CourseCell `json:"cells"` // aligned with Courses
	Overall     float64      `json:"overall_percentage"`
	OverallBand Band         `json:"overall_band"`
}

type SemesterMatrix struct {
	SemID   string              `json:"sem_id"`
	Courses []CourseRef         `json:"courses"`
	Rows    []SemesterMatrixRow `json:"rows"`
}

// CourseReportRequest scopes a single-course report. From and To are
// optional DateLayout bounds; empty means unbounded.
type CourseReportRequest struct {
	CourseID string `json:"course_id" valid:"required~Course ID is required"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type SemesterReportRequest struct {
	SemID string `json:"sem_id" valid:"required~Semester ID is required"`
}

type ReportUseCase interface {
	CourseMatrix(ctx context.Context, courseID string, from, to *time.Time) (*CourseMatrix, error)
	CourseSummaries(ctx context.Context, courseID string, from, to *time.Time) ([]StudentCourseSummary, error)
	SemesterMatrix(ctx context.Context, semID string) (*SemesterMatrix, error)
	CourseReportXLSX(ctx context.Context, courseID string, from, to *time.Time) (string, error)
	CourseReportPDF(ctx context.Context, courseID string, from, to *time.Time) (string, error)
	SemesterReportXLSX(ctx context.Context, semID string) (string, error)
}

// ReportExporter renders aggregated data into a file and returns its path.
type ReportExporter interface {
	CourseMatrixXLSX(m *CourseMatrix) (string, error)
	CourseSummaryPDF(courseID string, from, to *time.Time, rows []StudentCourseSummary) (string, error)
	SemesterMatrixXLSX(m *SemesterMatrix) (string, error)
}
