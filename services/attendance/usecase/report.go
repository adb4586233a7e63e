package usecase

import (
	"context"
	"sort"
	"time"

	"attendance/domain"
)

type reportUseCase struct {
	attendanceRepo domain.AttendanceRepo
	directoryRepo  domain.DirectoryRepo
	exporter       domain.ReportExporter
	TimeOut        time.Duration
}

func NewReportUseCase(ar domain.AttendanceRepo, dr domain.DirectoryRepo, ex domain.ReportExporter, to time.Duration) domain.ReportUseCase {
	return &reportUseCase{
		attendanceRepo: ar,
		directoryRepo:  dr,
		exporter:       ex,
		TimeOut:        to,
	}
}

// sessionOrdinals assigns each record its 1-based lecture number within the
// student's same-day records for the course. Records are numbered in storage
// order (ascending attendance_id), so re-running over the same rows always
// yields the same ordinals.
func sessionOrdinals(records []domain.AttendanceRecord) map[int]int {
	sorted := make([]domain.AttendanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AttendanceID < sorted[j].AttendanceID
	})

	type key struct {
		studentID string
		courseID  string
		dateKey   string
	}

	counts := make(map[key]int)
	ordinals := make(map[int]int, len(records))
	for _, rec := range sorted {
		k := key{rec.StudentID, rec.CourseID, rec.DateKey()}
		counts[k]++
		ordinals[rec.AttendanceID] = counts[k]
	}
	return ordinals
}

// buildCourseMatrix arranges one course's records into a session grid. Each
// column is a (date, lecture) pair; cells default to N/A and N/A never counts
// toward a row's total.
func (ru *reportUseCase) buildCourseMatrix(ctx context.Context, courseID string, records []domain.AttendanceRecord) (*domain.CourseMatrix, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoData
	}

	course, err := ru.directoryRepo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	ordinals := sessionOrdinals(records)

	columnSet := make(map[domain.SessionColumn]bool)
	studentIDs := make([]string, 0)
	seenStudents := make(map[string]bool)
	for _, rec := range records {
		col := domain.SessionColumn{Date: rec.DateKey(), Lecture: ordinals[rec.AttendanceID]}
		columnSet[col] = true
		if !seenStudents[rec.StudentID] {
			seenStudents[rec.StudentID] = true
			studentIDs = append(studentIDs, rec.StudentID)
		}
	}

	columns := make([]domain.SessionColumn, 0, len(columnSet))
	for col := range columnSet {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool {
		if columns[i].Date != columns[j].Date {
			return columns[i].Date < columns[j].Date
		}
		return columns[i].Lecture < columns[j].Lecture
	})
	columnIndex := make(map[domain.SessionColumn]int, len(columns))
	for i, col := range columns {
		columnIndex[col] = i
	}

	students, err := ru.directoryRepo.StudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	rowIndex := make(map[string]*domain.CourseMatrixRow, len(studentIDs))
	for _, id := range studentIDs {
		cells := make([]string, len(columns))
		for i := range cells {
			cells[i] = domain.CellNoData
		}
		row := &domain.CourseMatrixRow{StudentID: id, StudentName: id, Cells: cells}
		if s, ok := students[id]; ok {
			row.StudentName = s.StudentName
		}
		rowIndex[id] = row
	}

	for _, rec := range records {
		col := domain.SessionColumn{Date: rec.DateKey(), Lecture: ordinals[rec.AttendanceID]}
		row := rowIndex[rec.StudentID]
		if rec.Present {
			row.Cells[columnIndex[col]] = domain.CellPresent
			row.Present++
		} else {
			row.Cells[columnIndex[col]] = domain.CellAbsent
			row.Absent++
		}
	}

	rows := make([]domain.CourseMatrixRow, 0, len(rowIndex))
	for _, row := range rowIndex {
		row.Total = row.Present + row.Absent
		row.Percentage = domain.Percentage(row.Present, row.Total)
		row.Band = domain.BandFor(row.Percentage)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StudentName != rows[j].StudentName {
			return rows[i].StudentName < rows[j].StudentName
		}
		return rows[i].StudentID < rows[j].StudentID
	})

	return &domain.CourseMatrix{
		CourseID:   course.CourseID,
		CourseName: course.CourseName,
		Columns:    columns,
		Rows:       rows,
	}, nil
}

func (ru *reportUseCase) CourseMatrix(ctx context.Context, courseID string, from, to *time.Time) (*domain.CourseMatrix, error) {
	ctx, cancel := context.WithTimeout(ctx, ru.TimeOut)
	defer cancel()

	return ru.courseMatrix(ctx, courseID, from, to)
}

func (ru *reportUseCase) CourseSummaries(ctx context.Context, courseID string, from, to *time.Time) ([]domain.StudentCourseSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, ru.TimeOut)
	defer cancel()

	matrix, err := ru.courseMatrix(ctx, courseID, from, to)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.StudentCourseSummary, 0, len(matrix.Rows))
	for _, row := range matrix.Rows {
		summaries = append(summaries, domain.StudentCourseSummary{
			StudentID:    row.StudentID,
			StudentName:  row.StudentName,
			PresentDays:  row.Present,
			TotalClasses: row.Total,
			Percentage:   row.Percentage,
			Band:         row.Band,
		})
	}
	return summaries, nil
}

// courseMatrix builds the matrix on the caller's context, for callers that
// already set a deadline.
func (ru *reportUseCase) courseMatrix(ctx context.Context, courseID string, from, to *time.Time) (*domain.CourseMatrix, error) {
	records, err := ru.attendanceRepo.ListForCourse(ctx, courseID, from, to)
	if err != nil {
		return nil, err
	}
	return ru.buildCourseMatrix(ctx, courseID, records)
}

// SemesterMatrix builds the consolidated view: one column per course in the
// semester, one row per student with records in it. Each cell totals the
// student's own records for that course; the overall percentage spans only
// the courses they have data in.
func (ru *reportUseCase) SemesterMatrix(ctx context.Context, semID string) (*domain.SemesterMatrix, error) {
	ctx, cancel := context.WithTimeout(ctx, ru.TimeOut)
	defer cancel()

	courses, err := ru.directoryRepo.CoursesBySemester(ctx, semID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, domain.ErrNoData
	}

	records, err := ru.attendanceRepo.ListForSemester(ctx, semID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoData
	}

	courseIndex := make(map[string]int, len(courses))
	refs := make([]domain.CourseRef, 0, len(courses))
	for i, c := range courses {
		courseIndex[c.CourseID] = i
		refs = append(refs, domain.CourseRef{CourseID: c.CourseID, CourseName: c.CourseName})
	}

	type tally struct {
		attended int
		total    int
	}

	studentIDs := make([]string, 0)
	seenStudents := make(map[string]bool)
	tallies := make(map[string][]tally)
	for _, rec := range records {
		ci, ok := courseIndex[rec.CourseID]
		if !ok {
			continue
		}
		if !seenStudents[rec.StudentID] {
			seenStudents[rec.StudentID] = true
			studentIDs = append(studentIDs, rec.StudentID)
			tallies[rec.StudentID] = make([]tally, len(courses))
		}
		t := &tallies[rec.StudentID][ci]
		t.total++
		if rec.Present {
			t.attended++
		}
	}

	students, err := ru.directoryRepo.StudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.SemesterMatrixRow, 0, len(studentIDs))
	for _, id := range studentIDs {
		row := domain.SemesterMatrixRow{StudentID: id, StudentName: id}
		if s, ok := students[id]; ok {
			row.StudentName = s.StudentName
		}

		cells := make([]domain.CourseCell, len(courses))
		sumAttended, sumTotal := 0, 0
		for i, t := range tallies[id] {
			if t.total == 0 {
				cells[i] = domain.CourseCell{Band: domain.BandNone}
				continue
			}
			pct := domain.Percentage(t.attended, t.total)
			cells[i] = domain.CourseCell{
				Attended:   t.attended,
				Total:      t.total,
				Percentage: pct,
				Band:       domain.BandFor(pct),
				HasData:    true,
			}
			sumAttended += t.attended
			sumTotal += t.total
		}
		row.Cells = cells
		row.Overall = domain.Percentage(sumAttended, sumTotal)
		row.OverallBand = domain.BandFor(row.Overall)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StudentName != rows[j].StudentName {
			return rows[i].StudentName < rows[j].StudentName
		}
		return rows[i].StudentID < rows[j].StudentID
	})

	return &domain.SemesterMatrix{SemID: semID, Courses: refs, Rows: rows}, nil
}

func (ru *reportUseCase) CourseReportXLSX(ctx context.Context, courseID string, from, to *time.Time) (string, error) {
	matrix, err := ru.CourseMatrix(ctx, courseID, from, to)
	if err != nil {
		return "", err
	}
	return ru.exporter.CourseMatrixXLSX(matrix)
}

func (ru *reportUseCase) CourseReportPDF(ctx context.Context, courseID string, from, to *time.Time) (string, error) {
	summaries, err := ru.CourseSummaries(ctx, courseID, from, to)
	if err != nil {
		return "", err
	}
	return ru.exporter.CourseSummaryPDF(courseID, from, to, summaries)
}

func (ru *reportUseCase) SemesterReportXLSX(ctx context.Context, semID string) (string, error) {
	matrix, err := ru.SemesterMatrix(ctx, semID)
	if err != nil {
		return "", err
	}
	return ru.exporter.SemesterMatrixXLSX(matrix)
}
