package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"attendance/domain"

	"gorm.io/gorm"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(database *gorm.DB) domain.AttendanceRepo {
	return &attendanceRepository{
		db: database,
	}
}

// AddBulk inserts a batch for one (course, date) pair. The advisory lock,
// the existence check and the inserts all run in one transaction, so two
// concurrent submissions for the same pair cannot both pass the check.
func (ar *attendanceRepository) AddBulk(ctx context.Context, records []domain.AttendanceRecord) (*domain.BulkAttendanceResult, error) {
	if len(records) == 0 {
		return nil, &domain.ValidationError{Reason: "attendance batch is empty"}
	}

	courseID := records[0].CourseID
	dateKey := records[0].DateKey()

	tx := ar.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, &domain.BackendError{Op: "could not begin transaction", Err: err}
	}

	// Serialize concurrent submissions for this course-date. The lock is
	// released automatically at commit/rollback.
	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", courseID+"|"+dateKey).Error; err != nil {
		tx.Rollback()
		return nil, &domain.BackendError{Op: "could not acquire course-date lock", Err: err}
	}

	var existing int64
	err := tx.Model(&domain.AttendanceRecord{}).
		Where("course_id = ? AND date = ?", courseID, dateKey).
		Count(&existing).Error
	if err != nil {
		tx.Rollback()
		return nil, &domain.BackendError{Op: "could not check course-date lock", Err: err}
	}

	if existing > 0 {
		tx.Rollback()
		return nil, &domain.LockConflictError{
			CourseID:        courseID,
			Date:            dateKey,
			ExistingRecords: int(existing),
		}
	}

	result := &domain.BulkAttendanceResult{}
	now := time.Now()

	for i := range records {
		rec := records[i]
		rec.AttendanceID = 0
		rec.CreatedAt = now

		// A failed insert (e.g. unknown student) aborts only its own
		// savepoint; the rest of the batch still commits.
		sp := fmt.Sprintf("attendance_rec_%d", i)
		tx.SavePoint(sp)
		if err := tx.Create(&rec).Error; err != nil {
			tx.RollbackTo(sp)
			result.Skipped = append(result.Skipped, domain.SkippedRecord{
				Record: rec,
				Reason: fmt.Sprintf("could not insert attendance record: %v", err),
			})
			continue
		}
		result.Added = append(result.Added, rec)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &domain.BackendError{Op: "could not commit transaction", Err: err}
	}

	return result, nil
}

// Date parameters are bound as their DATE-layout string so the comparison
// against the date column never carries a time-of-day component.
func (ar *attendanceRepository) CountForCourseDate(ctx context.Context, courseID string, date time.Time) (int64, error) {
	var count int64
	err := ar.db.WithContext(ctx).
		Model(&domain.AttendanceRecord{}).
		Where("course_id = ? AND date = ?", courseID, date.Format(domain.DateLayout)).
		Count(&count).Error
	if err != nil {
		return 0, &domain.BackendError{Op: "could not count attendance records", Err: err}
	}
	return count, nil
}

func (ar *attendanceRepository) ListForCourseDate(ctx context.Context, courseID string, date time.Time) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := ar.db.WithContext(ctx).
		Where("course_id = ? AND date = ?", courseID, date.Format(domain.DateLayout)).
		Order("attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch course attendance", Err: err}
	}
	return records, nil
}

func (ar *attendanceRepository) ListForCourse(ctx context.Context, courseID string, from, to *time.Time) ([]domain.AttendanceRecord, error) {
	query := ar.db.WithContext(ctx).Where("course_id = ?", courseID)
	if from != nil {
		query = query.Where("date >= ?", from.Format(domain.DateLayout))
	}
	if to != nil {
		query = query.Where("date <= ?", to.Format(domain.DateLayout))
	}

	var records []domain.AttendanceRecord
	if err := query.Order("attendance_id").Find(&records).Error; err != nil {
		return nil, &domain.BackendError{Op: "could not fetch course attendance", Err: err}
	}
	return records, nil
}

func (ar *attendanceRepository) ListForStudentCourse(ctx context.Context, studentID, courseID string) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := ar.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch student attendance", Err: err}
	}
	return records, nil
}

func (ar *attendanceRepository) ListForDate(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := ar.db.WithContext(ctx).
		Where("date = ?", date.Format(domain.DateLayout)).
		Order("attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch daily attendance", Err: err}
	}
	return records, nil
}

func (ar *attendanceRepository) ListForSemester(ctx context.Context, semID string) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := ar.db.WithContext(ctx).
		Joins("JOIN course ON course.course_id = attendance.course_id").
		Where("course.sem_id = ?", semID).
		Order("attendance.attendance_id").
		Find(&records).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not fetch semester attendance", Err: err}
	}
	return records, nil
}

// Update changes the present flag of the earliest row matching the record's
// (student, course, date). Insertion locking does not apply here: edits of
// existing attendance are always allowed.
func (ar *attendanceRepository) Update(ctx context.Context, rec domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	var existing domain.AttendanceRecord
	err := ar.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND date = ?", rec.StudentID, rec.CourseID, rec.DateKey()).
		Order("attendance_id").
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.BackendError{Op: "could not fetch attendance record", Err: err}
	}

	err = ar.db.WithContext(ctx).
		Model(&existing).
		Update("present", rec.Present).Error
	if err != nil {
		return nil, &domain.BackendError{Op: "could not update attendance record", Err: err}
	}

	existing.Present = rec.Present
	return &existing, nil
}
