package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"attendance/domain"
)

// fakeAttendanceRepo keeps records in a slice, so insertion order doubles as
// storage order the way attendance_id does in Postgres.
type fakeAttendanceRepo struct {
	records   []domain.AttendanceRecord
	nextID    int
	courseSem map[string]string // course id -> semester id
	skipIDs   map[string]string // student id -> skip reason during AddBulk
	listErr   error

	lastListDate time.Time // date argument of the last ListForDate call
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		nextID:    1,
		courseSem: make(map[string]string),
		skipIDs:   make(map[string]string),
	}
}

func (f *fakeAttendanceRepo) seed(studentID, courseID, date string, present bool) domain.AttendanceRecord {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(fmt.Sprintf("bad seed date %q: %v", date, err))
	}
	rec := domain.AttendanceRecord{
		AttendanceID: f.nextID,
		StudentID:    studentID,
		CourseID:     courseID,
		Date:         d,
		Present:      present,
	}
	f.nextID++
	f.records = append(f.records, rec)
	return rec
}

func (f *fakeAttendanceRepo) AddBulk(ctx context.Context, records []domain.AttendanceRecord) (*domain.BulkAttendanceResult, error) {
	count, err := f.CountForCourseDate(ctx, records[0].CourseID, records[0].Date)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &domain.LockConflictError{
			CourseID:        records[0].CourseID,
			Date:            records[0].DateKey(),
			ExistingRecords: int(count),
		}
	}

	result := &domain.BulkAttendanceResult{}
	for _, rec := range records {
		if reason, ok := f.skipIDs[rec.StudentID]; ok {
			result.Skipped = append(result.Skipped, domain.SkippedRecord{Record: rec, Reason: reason})
			continue
		}
		added := f.seed(rec.StudentID, rec.CourseID, rec.DateKey(), rec.Present)
		result.Added = append(result.Added, added)
	}
	return result, nil
}

func (f *fakeAttendanceRepo) CountForCourseDate(ctx context.Context, courseID string, date time.Time) (int64, error) {
	if f.listErr != nil {
		return 0, f.listErr
	}
	var count int64
	key := date.Format(domain.DateLayout)
	for _, rec := range f.records {
		if rec.CourseID == courseID && rec.DateKey() == key {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) list(match func(domain.AttendanceRecord) bool) ([]domain.AttendanceRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.AttendanceRecord
	for _, rec := range f.records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttendanceID < out[j].AttendanceID })
	return out, nil
}

func (f *fakeAttendanceRepo) ListForCourseDate(ctx context.Context, courseID string, date time.Time) ([]domain.AttendanceRecord, error) {
	key := date.Format(domain.DateLayout)
	return f.list(func(r domain.AttendanceRecord) bool {
		return r.CourseID == courseID && r.DateKey() == key
	})
}

func (f *fakeAttendanceRepo) ListForCourse(ctx context.Context, courseID string, from, to *time.Time) ([]domain.AttendanceRecord, error) {
	return f.list(func(r domain.AttendanceRecord) bool {
		if r.CourseID != courseID {
			return false
		}
		if from != nil && r.Date.Before(*from) {
			return false
		}
		if to != nil && r.Date.After(*to) {
			return false
		}
		return true
	})
}

func (f *fakeAttendanceRepo) ListForStudentCourse(ctx context.Context, studentID, courseID string) ([]domain.AttendanceRecord, error) {
	return f.list(func(r domain.AttendanceRecord) bool {
		return r.StudentID == studentID && r.CourseID == courseID
	})
}

func (f *fakeAttendanceRepo) ListForDate(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error) {
	f.lastListDate = date
	key := date.Format(domain.DateLayout)
	return f.list(func(r domain.AttendanceRecord) bool { return r.DateKey() == key })
}

func (f *fakeAttendanceRepo) ListForSemester(ctx context.Context, semID string) ([]domain.AttendanceRecord, error) {
	return f.list(func(r domain.AttendanceRecord) bool { return f.courseSem[r.CourseID] == semID })
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, rec domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	for i := range f.records {
		existing := &f.records[i]
		if existing.StudentID == rec.StudentID && existing.CourseID == rec.CourseID && existing.DateKey() == rec.DateKey() {
			existing.Present = rec.Present
			out := *existing
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDirectoryRepo struct {
	students map[string]domain.Student
	courses  map[string]domain.Course
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		students: make(map[string]domain.Student),
		courses:  make(map[string]domain.Course),
	}
}

func (f *fakeDirectoryRepo) addStudent(id, name, phone string) {
	s := domain.Student{StudentID: id, StudentName: name}
	if phone != "" {
		s.PhoneNumber = &phone
	}
	f.students[id] = s
}

func (f *fakeDirectoryRepo) addCourse(id, name, semID string) {
	f.courses[id] = domain.Course{CourseID: id, CourseName: name, SemID: semID}
}

func (f *fakeDirectoryRepo) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	s, ok := f.students[studentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeDirectoryRepo) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	c, ok := f.courses[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeDirectoryRepo) StudentsByIDs(ctx context.Context, studentIDs []string) (map[string]domain.Student, error) {
	out := make(map[string]domain.Student, len(studentIDs))
	for _, id := range studentIDs {
		if s, ok := f.students[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeDirectoryRepo) CoursesByIDs(ctx context.Context, courseIDs []string) (map[string]domain.Course, error) {
	out := make(map[string]domain.Course, len(courseIDs))
	for _, id := range courseIDs {
		if c, ok := f.courses[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeDirectoryRepo) CoursesBySemester(ctx context.Context, semID string) ([]domain.Course, error) {
	var out []domain.Course
	for _, c := range f.courses {
		if c.SemID == semID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseName < out[j].CourseName })
	return out, nil
}

type sentMessage struct {
	To   string
	Body string
}

type fakeSender struct {
	sent    []sentMessage
	failFor map[string]bool // phone numbers that error on send
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: make(map[string]bool)}
}

func (f *fakeSender) Send(ctx context.Context, to, body string) error {
	if f.failFor[to] {
		return fmt.Errorf("send to %s failed", to)
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return nil
}

type fakeExporter struct {
	courseMatrix   *domain.CourseMatrix
	summaries      []domain.StudentCourseSummary
	semesterMatrix *domain.SemesterMatrix
}

func (f *fakeExporter) CourseMatrixXLSX(m *domain.CourseMatrix) (string, error) {
	f.courseMatrix = m
	return "/tmp/course.xlsx", nil
}

func (f *fakeExporter) CourseSummaryPDF(courseID string, from, to *time.Time, rows []domain.StudentCourseSummary) (string, error) {
	f.summaries = rows
	return "/tmp/course.pdf", nil
}

func (f *fakeExporter) SemesterMatrixXLSX(m *domain.SemesterMatrix) (string, error) {
	f.semesterMatrix = m
	return "/tmp/semester.xlsx", nil
}
