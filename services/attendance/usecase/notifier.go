package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attendance/domain"
)

type notifierUseCase struct {
	attendanceRepo domain.AttendanceRepo
	directoryRepo  domain.DirectoryRepo
	sender         domain.DigestSender
	TimeOut        time.Duration
}

func NewNotifierUseCase(ar domain.AttendanceRepo, dr domain.DirectoryRepo, sender domain.DigestSender, to time.Duration) domain.NotifierUseCase {
	return &notifierUseCase{
		attendanceRepo: ar,
		directoryRepo:  dr,
		sender:         sender,
		TimeOut:        to,
	}
}

// ComposeDigest renders one student's daily digest. Students without a phone
// number or without any recorded course that day are skipped, never messaged
// with an empty body.
func ComposeDigest(s domain.StudentDailyAttendance, date time.Time) (string, error) {
	if s.PhoneNumber == "" {
		return "", domain.ErrSkipNoPhone
	}
	if len(s.Courses) == 0 {
		return "", domain.ErrSkipNoCourses
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s, your attendance on %s:", s.StudentName, date.Format(domain.DateLayout))
	for _, c := range s.Courses {
		sb.WriteString("\n")
		if c.TotalClasses == 1 {
			if c.Attended == 1 {
				fmt.Fprintf(&sb, "- %s: Present", c.CourseName)
			} else {
				fmt.Fprintf(&sb, "- %s: Absent", c.CourseName)
			}
		} else {
			fmt.Fprintf(&sb, "- %s: Present %d/%d", c.CourseName, c.Attended, c.TotalClasses)
		}
	}
	return sb.String(), nil
}

// NotifyDaily aggregates every attendance record of the given date into one
// message per student and hands each to the sender. Per-student failures are
// counted, not fatal.
func (nu *notifierUseCase) NotifyDaily(ctx context.Context, date time.Time) (*domain.DigestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, nu.TimeOut)
	defer cancel()

	// Callers may hand in a wall-clock timestamp (the handler defaults to
	// time.Now()); only the calendar day matters here.
	date, _ = time.Parse(domain.DateLayout, date.Format(domain.DateLayout))

	records, err := nu.attendanceRepo.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoData
	}

	summaries, err := nu.aggregate(ctx, records)
	if err != nil {
		return nil, err
	}

	result := &domain.DigestResult{Total: len(summaries)}
	for _, s := range summaries {
		body, err := ComposeDigest(s, date)
		if err != nil {
			result.Skipped++
			continue
		}

		if err := nu.sender.Send(ctx, s.PhoneNumber, body); err != nil {
			result.Failed++
			result.FailedStudents = append(result.FailedStudents, s.StudentID)
			continue
		}
		result.Sent++
	}
	return result, nil
}

// aggregate collapses one day's records into per-student course summaries,
// preserving the order students and courses first appear in storage.
func (nu *notifierUseCase) aggregate(ctx context.Context, records []domain.AttendanceRecord) ([]domain.StudentDailyAttendance, error) {
	studentIDs := make([]string, 0)
	courseIDs := make([]string, 0)
	seenStudents := make(map[string]bool)
	seenCourses := make(map[string]bool)
	perStudent := make(map[string][]*domain.CourseAttendanceSummary)
	courseSlot := make(map[string]map[string]*domain.CourseAttendanceSummary)

	for _, rec := range records {
		if !seenStudents[rec.StudentID] {
			seenStudents[rec.StudentID] = true
			studentIDs = append(studentIDs, rec.StudentID)
			courseSlot[rec.StudentID] = make(map[string]*domain.CourseAttendanceSummary)
		}
		if !seenCourses[rec.CourseID] {
			seenCourses[rec.CourseID] = true
			courseIDs = append(courseIDs, rec.CourseID)
		}

		slot, ok := courseSlot[rec.StudentID][rec.CourseID]
		if !ok {
			slot = &domain.CourseAttendanceSummary{CourseID: rec.CourseID}
			courseSlot[rec.StudentID][rec.CourseID] = slot
			perStudent[rec.StudentID] = append(perStudent[rec.StudentID], slot)
		}
		slot.TotalClasses++
		if rec.Present {
			slot.Attended++
		}
	}

	students, err := nu.directoryRepo.StudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	courses, err := nu.directoryRepo.CoursesByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.StudentDailyAttendance, 0, len(studentIDs))
	for _, id := range studentIDs {
		s := domain.StudentDailyAttendance{StudentID: id, StudentName: id}
		if student, ok := students[id]; ok {
			s.StudentName = student.StudentName
			if student.PhoneNumber != nil {
				s.PhoneNumber = *student.PhoneNumber
			}
		}
		for _, slot := range perStudent[id] {
			slot.CourseName = slot.CourseID
			if course, ok := courses[slot.CourseID]; ok {
				slot.CourseName = course.CourseName
			}
			s.Courses = append(s.Courses, *slot)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
