package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance/domain"
)

func newReportFixture() (*fakeAttendanceRepo, *fakeDirectoryRepo, *fakeExporter, domain.ReportUseCase) {
	repo := newFakeAttendanceRepo()
	dir := newFakeDirectoryRepo()
	exporter := &fakeExporter{}
	uc := NewReportUseCase(repo, dir, exporter, testTimeout)
	return repo, dir, exporter, uc
}

func TestSessionOrdinalsStable(t *testing.T) {
	repo := newFakeAttendanceRepo()
	a := repo.seed("S1", "C1", "2025-01-15", true)
	b := repo.seed("S1", "C1", "2025-01-15", false)
	c := repo.seed("S1", "C1", "2025-01-16", true)

	ordinals := sessionOrdinals(repo.records)
	assert.Equal(t, 1, ordinals[a.AttendanceID])
	assert.Equal(t, 2, ordinals[b.AttendanceID])
	assert.Equal(t, 1, ordinals[c.AttendanceID])

	// Same rows, shuffled input: same ordinals.
	shuffled := []domain.AttendanceRecord{c, b, a}
	again := sessionOrdinals(shuffled)
	assert.Equal(t, ordinals, again)
}

func TestCourseMatrixSingleDate(t *testing.T) {
	repo, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "")
	dir.addStudent("S2", "Binod", "")
	repo.seed("S1", "C1", "2025-01-15", true)
	repo.seed("S2", "C1", "2025-01-15", false)

	m, err := uc.CourseMatrix(context.Background(), "C1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Databases", m.CourseName)

	require.Len(t, m.Columns, 1)
	assert.Equal(t, "2025-01-15 (Lec 1)", m.Columns[0].Label())

	require.Len(t, m.Rows, 2)
	asha, binod := m.Rows[0], m.Rows[1]
	assert.Equal(t, "Asha", asha.StudentName)
	assert.Equal(t, []string{"P"}, asha.Cells)
	assert.Equal(t, 1, asha.Present)
	assert.Equal(t, 1, asha.Total)
	assert.Equal(t, 100.0, asha.Percentage)
	assert.Equal(t, domain.BandExcellent, asha.Band)

	assert.Equal(t, []string{"A"}, binod.Cells)
	assert.Equal(t, 0, binod.Present)
	assert.Equal(t, 0.0, binod.Percentage)
	assert.Equal(t, domain.BandCritical, binod.Band)
}

func TestCourseMatrixLateJoiner(t *testing.T) {
	repo, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "")
	dir.addStudent("S2", "Binod", "")

	// Five sessions before Binod enrolls, then one shared session.
	for _, date := range []string{"2025-01-10", "2025-01-11", "2025-01-12", "2025-01-13", "2025-01-14"} {
		repo.seed("S1", "C1", date, true)
	}
	repo.seed("S1", "C1", "2025-01-15", true)
	repo.seed("S2", "C1", "2025-01-15", true)

	m, err := uc.CourseMatrix(context.Background(), "C1", nil, nil)
	require.NoError(t, err)

	require.Len(t, m.Rows, 2)
	binod := m.Rows[1]
	assert.Equal(t, "Binod", binod.StudentName)
	assert.Equal(t, 1, binod.Total) // own records only, never the course-wide 6
	assert.Equal(t, 100.0, binod.Percentage)

	// Sessions Binod was not marked in render N/A.
	naCount := 0
	for _, cell := range binod.Cells {
		if cell == domain.CellNoData {
			naCount++
		}
	}
	assert.Equal(t, 5, naCount)
}

func TestCourseMatrixMultiSessionColumns(t *testing.T) {
	repo, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "")
	repo.seed("S1", "C1", "2025-01-15", true)
	repo.seed("S1", "C1", "2025-01-15", false)

	m, err := uc.CourseMatrix(context.Background(), "C1", nil, nil)
	require.NoError(t, err)

	require.Len(t, m.Columns, 2)
	assert.Equal(t, "2025-01-15 (Lec 1)", m.Columns[0].Label())
	assert.Equal(t, "2025-01-15 (Lec 2)", m.Columns[1].Label())

	row := m.Rows[0]
	assert.Equal(t, []string{"P", "A"}, row.Cells)
	assert.Equal(t, 2, row.Total)
	assert.Equal(t, 50.0, row.Percentage)
	assert.Equal(t, domain.BandCritical, row.Band)
}

func TestCourseMatrixNoData(t *testing.T) {
	_, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")

	_, err := uc.CourseMatrix(context.Background(), "C1", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestCourseSummariesMatchMatrix(t *testing.T) {
	repo, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "")
	repo.seed("S1", "C1", "2025-01-13", true)
	repo.seed("S1", "C1", "2025-01-14", true)
	repo.seed("S1", "C1", "2025-01-15", false)

	rows, err := uc.CourseSummaries(context.Background(), "C1", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].PresentDays)
	assert.Equal(t, 3, rows[0].TotalClasses)
	assert.Equal(t, 66.7, rows[0].Percentage)
	assert.Equal(t, domain.BandWarning, rows[0].Band)
}

func TestSemesterMatrix(t *testing.T) {
	repo, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addCourse("C2", "Networks", "SEM1")
	dir.addStudent("S1", "Asha", "")
	dir.addStudent("S2", "Binod", "")
	repo.courseSem["C1"] = "SEM1"
	repo.courseSem["C2"] = "SEM1"

	// Asha: 2/2 in C1, 1/2 in C2. Binod: 1/1 in C1 only.
	repo.seed("S1", "C1", "2025-01-13", true)
	repo.seed("S1", "C1", "2025-01-14", true)
	repo.seed("S1", "C2", "2025-01-13", true)
	repo.seed("S1", "C2", "2025-01-14", false)
	repo.seed("S2", "C1", "2025-01-14", true)

	m, err := uc.SemesterMatrix(context.Background(), "SEM1")
	require.NoError(t, err)

	require.Len(t, m.Courses, 2)
	assert.Equal(t, "Databases (C1)", m.Courses[0].Label())

	require.Len(t, m.Rows, 2)
	asha := m.Rows[0]
	assert.Equal(t, "Asha", asha.StudentName)
	require.Len(t, asha.Cells, 2)
	assert.Equal(t, 2, asha.Cells[0].Attended)
	assert.Equal(t, 100.0, asha.Cells[0].Percentage)
	assert.Equal(t, 50.0, asha.Cells[1].Percentage)
	assert.Equal(t, 75.0, asha.Overall) // 3 of 4 across both courses
	assert.Equal(t, domain.BandGood, asha.OverallBand)

	binod := m.Rows[1]
	assert.True(t, binod.Cells[0].HasData)
	assert.False(t, binod.Cells[1].HasData)
	assert.Equal(t, domain.BandNone, binod.Cells[1].Band)
	assert.Equal(t, 100.0, binod.Overall) // N/A course excluded from overall
}

func TestSemesterMatrixNoData(t *testing.T) {
	_, dir, _, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")

	_, err := uc.SemesterMatrix(context.Background(), "SEM1")
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestReportExportsDelegateToExporter(t *testing.T) {
	repo, dir, exporter, uc := newReportFixture()
	dir.addCourse("C1", "Databases", "SEM1")
	dir.addStudent("S1", "Asha", "")
	repo.courseSem["C1"] = "SEM1"
	repo.seed("S1", "C1", "2025-01-15", true)

	path, err := uc.CourseReportXLSX(context.Background(), "C1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/course.xlsx", path)
	require.NotNil(t, exporter.courseMatrix)
	assert.Equal(t, "C1", exporter.courseMatrix.CourseID)

	path, err = uc.CourseReportPDF(context.Background(), "C1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/course.pdf", path)
	assert.Len(t, exporter.summaries, 1)

	path, err = uc.SemesterReportXLSX(context.Background(), "SEM1")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/semester.xlsx", path)
	require.NotNil(t, exporter.semesterMatrix)
	assert.Equal(t, "SEM1", exporter.semesterMatrix.SemID)
}
