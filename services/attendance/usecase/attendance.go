package usecase

import (
	"context"
	"fmt"
	"time"

	"attendance/domain"
)

type attendanceUseCase struct {
	repo      domain.AttendanceRepo
	validator *LockValidator
	TimeOut   time.Duration
}

func NewAttendanceUseCase(repo domain.AttendanceRepo, to time.Duration) domain.AttendanceUseCase {
	return &attendanceUseCase{
		repo:      repo,
		validator: NewLockValidator(repo),
		TimeOut:   to,
	}
}

func parseEntry(entry domain.AttendanceEntry) (*domain.AttendanceRecord, error) {
	if entry.StudentID == "" || entry.CourseID == "" {
		return nil, &domain.ValidationError{Reason: "student_id and course_id are required"}
	}

	date, err := time.Parse(domain.DateLayout, entry.Date)
	if err != nil {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", entry.Date)}
	}

	return &domain.AttendanceRecord{
		StudentID: entry.StudentID,
		CourseID:  entry.CourseID,
		Date:      date,
		Present:   entry.Present,
	}, nil
}

// AddBulk validates the batch then writes it as one unit. Shape and lock
// violations reject the whole batch with nothing written; per-record insert
// failures after validation are reported as skips.
func (au *attendanceUseCase) AddBulk(ctx context.Context, entries []domain.AttendanceEntry) (*domain.BulkAttendanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	records := make([]domain.AttendanceRecord, 0, len(entries))
	for _, entry := range entries {
		rec, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := au.validator.Validate(ctx, records); err != nil {
		return nil, err
	}

	return au.repo.AddBulk(ctx, records)
}

// Update flips the present flag of an existing record. The course-date lock
// does not apply: edits are how a locked session gets corrected.
func (au *attendanceUseCase) Update(ctx context.Context, entry domain.AttendanceEntry) (*domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	rec, err := parseEntry(entry)
	if err != nil {
		return nil, err
	}

	return au.repo.Update(ctx, *rec)
}

// UpdateBulk applies Update to each entry independently; one failure never
// blocks the others.
func (au *attendanceUseCase) UpdateBulk(ctx context.Context, entries []domain.AttendanceEntry) (*domain.BulkUpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	if len(entries) == 0 {
		return nil, &domain.ValidationError{Reason: "attendance batch is empty"}
	}

	result := &domain.BulkUpdateResult{}
	for _, entry := range entries {
		rec, err := parseEntry(entry)
		if err != nil {
			result.Failed = append(result.Failed, domain.FailedEntry{Entry: entry, Reason: err.Error()})
			continue
		}

		updated, err := au.repo.Update(ctx, *rec)
		if err != nil {
			result.Failed = append(result.Failed, domain.FailedEntry{Entry: entry, Reason: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, *updated)
	}

	return result, nil
}

func (au *attendanceUseCase) CourseDateStatus(ctx context.Context, courseID string, date time.Time) (*domain.CourseDateStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	count, err := au.repo.CountForCourseDate(ctx, courseID, date)
	if err != nil {
		return nil, err
	}

	return &domain.CourseDateStatus{
		Exists:       count > 0,
		CourseID:     courseID,
		Date:         date.Format(domain.DateLayout),
		RecordsCount: int(count),
	}, nil
}

func (au *attendanceUseCase) CourseAttendance(ctx context.Context, courseID string, date time.Time) ([]domain.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	return au.repo.ListForCourseDate(ctx, courseID, date)
}

// StudentSummary aggregates one student's records for one course. The total
// is the student's own record count, so the denominator never includes
// sessions held before they joined.
func (au *attendanceUseCase) StudentSummary(ctx context.Context, studentID, courseID string) (*domain.AttendanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, au.TimeOut)
	defer cancel()

	records, err := au.repo.ListForStudentCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	attended := 0
	for _, rec := range records {
		if rec.Present {
			attended++
		}
	}

	total := len(records)
	return &domain.AttendanceSummary{
		StudentID:       studentID,
		CourseID:        courseID,
		TotalClasses:    total,
		ClassesAttended: attended,
		ClassesMissed:   total - attended,
		Percentage:      domain.Percentage(attended, total),
	}, nil
}
