package usecase

import (
	"context"
	"fmt"

	"attendance/domain"
)

// MaxBatchRecords caps both the batch size and how many times one student
// may appear in a batch.
const MaxBatchRecords = 3

// LockValidator gates bulk submissions: shape rules first, then a read-only
// check of the course-date lock. The repository re-checks the lock inside
// the insert transaction; the early check rejects doomed batches before
// opening one.
type LockValidator struct {
	repo          domain.AttendanceRepo
	maxBatch      int
	perStudentCap int
}

func NewLockValidator(repo domain.AttendanceRepo) *LockValidator {
	return &LockValidator{
		repo:          repo,
		maxBatch:      MaxBatchRecords,
		perStudentCap: MaxBatchRecords,
	}
}

func (v *LockValidator) Validate(ctx context.Context, records []domain.AttendanceRecord) error {
	if len(records) == 0 {
		return &domain.ValidationError{Reason: "attendance batch is empty"}
	}

	if len(records) > v.maxBatch {
		return &domain.ValidationError{Reason: fmt.Sprintf("cannot add more than %d attendance records at once", v.maxBatch)}
	}

	perStudent := make(map[string]int, len(records))
	for _, rec := range records {
		perStudent[rec.StudentID]++
		if perStudent[rec.StudentID] > v.perStudentCap {
			return &domain.ValidationError{Reason: fmt.Sprintf("student %s appears more than %d times in one batch", rec.StudentID, v.perStudentCap)}
		}
	}

	courseID := records[0].CourseID
	dateKey := records[0].DateKey()
	for _, rec := range records {
		if rec.CourseID != courseID || rec.DateKey() != dateKey {
			return &domain.ValidationError{Reason: "all records in a batch must be for the same course and the same date"}
		}
	}

	count, err := v.repo.CountForCourseDate(ctx, courseID, records[0].Date)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.LockConflictError{
			CourseID:        courseID,
			Date:            dateKey,
			ExistingRecords: int(count),
		}
	}

	return nil
}
