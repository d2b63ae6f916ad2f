package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/internal/attendance"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// XLSXContentType of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrExportGenerateFail = errors.New("failed to generate the xlsx file")

// ExportService builds spreadsheet exports.
//
// Workbooks are returned as a buffer; the handler sets the download headers.
type ExportService interface {
	// CourseAttendance exports the roster of a course with one column per
	// session (P, A or blank) followed by the absence percentage and status.
	CourseAttendance(ctx context.Context, actor Actor, courseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── CourseAttendance ──────────────────────
//
// Layout:
//   - row 1: "<code>-<section> <name>" merged across the table
//   - row 2: Student No. | Name | one column per session date | Absence % | Status
//   - rows 3..: one per non-dropped student

func (s *exportService) CourseAttendance(ctx context.Context, actor Actor, courseID string) (*bytes.Buffer, string, error) {
	course, err := loadCourse(ctx, s.repo, s.logger, courseID)
	if err != nil {
		return nil, "", err
	}
	if err := checkTeaches(ctx, s.repo, actor, courseID); err != nil {
		return nil, "", err
	}

	sessions, err := s.repo.Session.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("list sessions failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}
	enrollments, err := s.repo.Enrollment.ListByCourse(ctx, courseID, false)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}
	rows, err := s.repo.Attendance.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", err
	}

	// "studentID:sessionID" → flag
	marks := make(map[string]*bool, len(rows))
	flags := make(map[string][]*bool)
	for _, r := range rows {
		marks[r.StudentID+":"+r.CourseSessionID] = r.IsPresent
		flags[r.StudentID] = append(flags[r.StudentID], r.IsPresent)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := len(sessions) + 3 // 0-based index of the status column
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 26)
	if len(sessions) > 0 {
		f.SetColWidth(sheet, colName(2), colName(1+len(sessions)), 11)
	}
	f.SetColWidth(sheet, colName(lastCol-1), colName(lastCol), 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1E4A6B"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	riskStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})

	// title
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s-%s %s", course.Code, course.Section, course.Name))
	f.MergeCell(sheet, "A1", cell(colName(lastCol), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// header
	row := 2
	f.SetCellValue(sheet, cell("A", row), "Student No.")
	f.SetCellValue(sheet, cell("B", row), "Name")
	for i, sess := range sessions {
		f.SetCellValue(sheet, cell(colName(2+i), row), formatDate(sess.Date))
	}
	f.SetCellValue(sheet, cell(colName(lastCol-1), row), "Absence %")
	f.SetCellValue(sheet, cell(colName(lastCol), row), "Status")
	f.SetCellStyle(sheet, cell("A", row), cell(colName(lastCol), row), headerStyle)

	// data
	row = 3
	for _, e := range enrollments {
		if e.Student == nil {
			continue
		}
		f.SetCellValue(sheet, cell("A", row), e.Student.StudentNumber)
		f.SetCellValue(sheet, cell("B", row), e.Student.User.FullName())
		for i, sess := range sessions {
			f.SetCellValue(sheet, cell(colName(2+i), row), mark(marks[e.StudentID+":"+sess.CourseSessionID]))
		}

		summary := attendance.Summarize(flags[e.StudentID])
		f.SetCellValue(sheet, cell(colName(lastCol-1), row), summary.AbsencePercentage)
		statusCell := cell(colName(lastCol), row)
		f.SetCellValue(sheet, statusCell, string(summary.Status))
		if summary.Status == attendance.StatusAtRisk {
			f.SetCellStyle(sheet, statusCell, statusCell, riskStyle)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s-%s.xlsx", course.Code, course.Section)
	return buf, filename, nil
}

// ── helpers ──

func mark(flag *bool) string {
	switch {
	case flag == nil:
		return ""
	case *flag:
		return "P"
	default:
		return "A"
	}
}

// colName converts a 0-based column index to its letter name.
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
