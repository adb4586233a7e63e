package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance/domain"
)

func digestDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, raw)
	require.NoError(t, err)
	return d
}

func TestComposeDigestSingleSession(t *testing.T) {
	date := digestDate(t, "2025-01-15")
	s := domain.StudentDailyAttendance{
		StudentID:   "S1",
		StudentName: "Asha",
		PhoneNumber: "+919876543210",
		Courses: []domain.CourseAttendanceSummary{
			{CourseID: "C1", CourseName: "Databases", TotalClasses: 1, Attended: 1},
			{CourseID: "C2", CourseName: "Networks", TotalClasses: 1, Attended: 0},
		},
	}

	body, err := ComposeDigest(s, date)
	require.NoError(t, err)
	assert.Equal(t,
		"Hello Asha, your attendance on 2025-01-15:\n- Databases: Present\n- Networks: Absent",
		body)
}

func TestComposeDigestMultiSession(t *testing.T) {
	date := digestDate(t, "2025-01-15")
	s := domain.StudentDailyAttendance{
		StudentID:   "S1",
		StudentName: "Asha",
		PhoneNumber: "+919876543210",
		Courses: []domain.CourseAttendanceSummary{
			{CourseID: "C1", CourseName: "Databases", TotalClasses: 3, Attended: 2},
		},
	}

	body, err := ComposeDigest(s, date)
	require.NoError(t, err)
	assert.Contains(t, body, "- Databases: Present 2/3")
}

func TestComposeDigestSkips(t *testing.T) {
	date := digestDate(t, "2025-01-15")

	noPhone := domain.StudentDailyAttendance{
		StudentID: "S1", StudentName: "Asha",
		Courses: []domain.CourseAttendanceSummary{{CourseID: "C1", TotalClasses: 1, Attended: 1}},
	}
	_, err := ComposeDigest(noPhone, date)
	assert.ErrorIs(t, err, domain.ErrSkipNoPhone)

	noCourses := domain.StudentDailyAttendance{
		StudentID: "S1", StudentName: "Asha", PhoneNumber: "+919876543210",
	}
	_, err = ComposeDigest(noCourses, date)
	assert.ErrorIs(t, err, domain.ErrSkipNoCourses)
}

func TestNotifyDaily(t *testing.T) {
	repo := newFakeAttendanceRepo()
	dir := newFakeDirectoryRepo()
	sender := newFakeSender()
	uc := NewNotifierUseCase(repo, dir, sender, testTimeout)

	dir.addCourse("C1", "Databases", "SEM1")
	dir.addCourse("C2", "Networks", "SEM1")
	dir.addStudent("S1", "Asha", "+919876543210")
	dir.addStudent("S2", "Binod", "") // no phone, skipped
	dir.addStudent("S3", "Chitra", "+919876500000")

	// Asha: two sessions of C1 plus one of C2. Binod and Chitra one each.
	repo.seed("S1", "C1", "2025-01-15", true)
	repo.seed("S1", "C1", "2025-01-15", false)
	repo.seed("S1", "C2", "2025-01-15", true)
	repo.seed("S2", "C1", "2025-01-15", true)
	repo.seed("S3", "C1", "2025-01-15", false)
	repo.seed("S1", "C1", "2025-01-16", true) // different date, out of scope

	result, err := uc.NotifyDaily(context.Background(), digestDate(t, "2025-01-15"))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "+919876543210", sender.sent[0].To)
	assert.Equal(t,
		"Hello Asha, your attendance on 2025-01-15:\n- Databases: Present 1/2\n- Networks: Present",
		sender.sent[0].Body)
	assert.Contains(t, sender.sent[1].Body, "Hello Chitra")
	assert.Contains(t, sender.sent[1].Body, "- Databases: Absent")
}

func TestNotifyDailyWallClockTimestamp(t *testing.T) {
	repo := newFakeAttendanceRepo()
	dir := newFakeDirectoryRepo()
	sender := newFakeSender()
	uc := NewNotifierUseCase(repo, dir, sender, testTimeout)

	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "+919876543210")
	repo.seed("S1", "C1", "2025-01-15", true)

	// Mid-afternoon timestamp, the shape the handler's time.Now() default
	// produces. The repository must see the bare calendar day.
	afternoon := time.Date(2025, 1, 15, 14, 23, 45, 0, time.UTC)
	result, err := uc.NotifyDaily(context.Background(), afternoon)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)

	assert.Equal(t, digestDate(t, "2025-01-15"), repo.lastListDate)
	assert.Contains(t, sender.sent[0].Body, "on 2025-01-15:")
}

func TestNotifyDailySendFailureCounted(t *testing.T) {
	repo := newFakeAttendanceRepo()
	dir := newFakeDirectoryRepo()
	sender := newFakeSender()
	sender.failFor["+919876543210"] = true
	uc := NewNotifierUseCase(repo, dir, sender, testTimeout)

	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "+919876543210")
	repo.seed("S1", "C1", "2025-01-15", true)

	result, err := uc.NotifyDaily(context.Background(), digestDate(t, "2025-01-15"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"S1"}, result.FailedStudents)
	assert.Equal(t, 0, result.Sent)
}

func TestNotifyDailyNoRecords(t *testing.T) {
	uc := NewNotifierUseCase(newFakeAttendanceRepo(), newFakeDirectoryRepo(), newFakeSender(), testTimeout)

	_, err := uc.NotifyDaily(context.Background(), digestDate(t, "2025-01-15"))
	assert.ErrorIs(t, err, domain.ErrNoData)
}
