package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"attendance/domain"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Band fills for spreadsheet cells and PDF rows.
var bandFills = map[domain.Band]string{
	domain.BandExcellent: "C6EFCE",
	domain.BandGood:      "E2EFDA",
	domain.BandWarning:   "FFEB9C",
	domain.BandCritical:  "FFC7CE",
	domain.BandNone:      "D9D9D9",
}

var bandRGB = map[domain.Band][3]int{
	domain.BandExcellent: {198, 239, 206},
	domain.BandGood:      {226, 239, 218},
	domain.BandWarning:   {255, 235, 156},
	domain.BandCritical:  {255, 199, 206},
	domain.BandNone:      {217, 217, 217},
}

type reportExporter struct {
	outputDir string
}

func NewReportExporter(outputDir string) domain.ReportExporter {
	return &reportExporter{
		outputDir: outputDir,
	}
}

func (re *reportExporter) outputPath(name string) (string, error) {
	if err := os.MkdirAll(re.outputDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create export directory: %w", err)
	}
	return filepath.Join(re.outputDir, name), nil
}

func (re *reportExporter) bandStyles(f *excelize.File) (map[domain.Band]int, error) {
	styles := make(map[domain.Band]int, len(bandFills))
	for band, color := range bandFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, fmt.Errorf("could not create cell style: %w", err)
		}
		styles[band] = id
	}
	return styles, nil
}

// CourseMatrixXLSX renders the single-course matrix: one column per
// (date, lecture) session, P/A/N-A cells, then Present/Absent/Total and a
// band-colored percentage.
func (re *reportExporter) CourseMatrixXLSX(m *domain.CourseMatrix) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance Report"
	f.SetSheetName("Sheet1", sheet)

	styles, err := re.bandStyles(f)
	if err != nil {
		return "", err
	}

	header := []string{"Student ID", "Student Name"}
	for _, col := range m.Columns {
		header = append(header, col.Label())
	}
	header = append(header, "Present", "Absent", "Total", "Percentage")

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", err
		}
	}

	for r, row := range m.Rows {
		values := []interface{}{row.StudentID, row.StudentName}
		for _, c := range row.Cells {
			values = append(values, c)
		}
		values = append(values, row.Present, row.Absent, row.Total, fmt.Sprintf("%.1f%%", row.Percentage))

		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}

		// N/A session cells get the neutral fill so they read as "no
		// session", not as absences.
		for i, c := range row.Cells {
			if c != domain.CellNoData {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+3, r+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles[domain.BandNone]); err != nil {
				return "", err
			}
		}

		pctCell, err := excelize.CoordinatesToCellName(len(header), r+2)
		if err != nil {
			return "", err
		}
		if err := f.SetCellStyle(sheet, pctCell, pctCell, styles[row.Band]); err != nil {
			return "", err
		}
	}

	if err := re.autoWidth(f, sheet, header); err != nil {
		return "", err
	}

	path, err := re.outputPath(fmt.Sprintf("course_%s_%s.xlsx", m.CourseID, uuid.NewString()))
	if err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("could not save report: %w", err)
	}
	return path, nil
}

// SemesterMatrixXLSX renders the consolidated matrix: one column per course,
// "present/total (pct%)" cells, and an overall percentage per student.
func (re *reportExporter) SemesterMatrixXLSX(m *domain.SemesterMatrix) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Semester Report"
	f.SetSheetName("Sheet1", sheet)

	styles, err := re.bandStyles(f)
	if err != nil {
		return "", err
	}

	header := []string{"Student ID", "Student Name"}
	for _, course := range m.Courses {
		header = append(header, course.Label())
	}
	header = append(header, "Overall")

	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return "", err
		}
	}

	for r, row := range m.Rows {
		rowNum := r + 2

		for i, v := range []interface{}{row.StudentID, row.StudentName} {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return "", err
			}
		}

		for i, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(i+3, rowNum)
			if err != nil {
				return "", err
			}
			value := domain.CellNoData
			if c.HasData {
				value = fmt.Sprintf("%d/%d (%.1f%%)", c.Attended, c.Total, c.Percentage)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return "", err
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles[c.Band]); err != nil {
				return "", err
			}
		}

		overallCell, err := excelize.CoordinatesToCellName(len(header), rowNum)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, overallCell, fmt.Sprintf("%.1f%%", row.Overall)); err != nil {
			return "", err
		}
		if err := f.SetCellStyle(sheet, overallCell, overallCell, styles[row.OverallBand]); err != nil {
			return "", err
		}
	}

	if err := re.autoWidth(f, sheet, header); err != nil {
		return "", err
	}

	path, err := re.outputPath(fmt.Sprintf("semester_%s_%s.xlsx", m.SemID, uuid.NewString()))
	if err != nil {
		return "", err
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("could not save report: %w", err)
	}
	return path, nil
}

// CourseSummaryPDF renders the tabular per-student summary.
func (re *reportExporter) CourseSummaryPDF(courseID string, from, to *time.Time, rows []domain.StudentCourseSummary) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	pdf.CellFormat(190, 10, fmt.Sprintf("Attendance Report for Course: %s", courseID), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 10, fmt.Sprintf("From: %s to %s", rangeLabel(from, "beginning"), rangeLabel(to, "today")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Student ID", "Name", "Present", "Total", "Percentage"}
	widths := []float64{40, 60, 20, 20, 30}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		rgb := bandRGB[row.Band]
		pdf.SetFillColor(rgb[0], rgb[1], rgb[2])

		cells := []string{
			row.StudentID,
			row.StudentName,
			fmt.Sprintf("%d", row.PresentDays),
			fmt.Sprintf("%d", row.TotalClasses),
			fmt.Sprintf("%.1f%%", row.Percentage),
		}
		for i, c := range cells {
			fill := i == len(cells)-1
			pdf.CellFormat(widths[i], 7, c, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	path, err := re.outputPath(fmt.Sprintf("course_%s_%s.pdf", courseID, uuid.NewString()))
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("could not save report: %w", err)
	}
	return path, nil
}

func (re *reportExporter) autoWidth(f *excelize.File, sheet string, header []string) error {
	for i, h := range header {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(len(h) + 2)
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func rangeLabel(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format(domain.DateLayout)
}
