package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

const maxImportRows = 1000

// ImportStudentRow is one parsed spreadsheet row.
type ImportStudentRow struct {
	Row           int
	FirstName     string
	LastName      string
	Email         string
	StudentNumber string
	Major         string
	Department    string
}

// ParseStudentImport reads the first sheet of an xlsx workbook. The first
// row is a header; columns may come in any order.
func ParseStudentImport(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, ErrImportUnreadable
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(sheetRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(sheetRows[0])
	for _, required := range []string{"first_name", "last_name", "email", "student_number"} {
		if col[required] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportStudentRow
	for i := 1; i < len(sheetRows); i++ {
		r := sheetRows[i]
		item := ImportStudentRow{
			Row:           i + 1,
			FirstName:     cell(r, "first_name"),
			LastName:      cell(r, "last_name"),
			Email:         cell(r, "email"),
			StudentNumber: cell(r, "student_number"),
			Major:         cell(r, "major"),
			Department:    cell(r, "department"),
		}
		if item == (ImportStudentRow{Row: item.Row}) {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex maps known column names to their index, -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"first_name":     -1,
		"last_name":      -1,
		"email":          -1,
		"student_number": -1,
		"major":          -1,
		"department":     -1,
	}
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		switch key {
		case "first_name", "firstname":
			idx["first_name"] = i
		case "last_name", "lastname":
			idx["last_name"] = i
		case "email", "e-mail":
			idx["email"] = i
		case "student_number", "student_id", "student_no":
			idx["student_number"] = i
		case "major":
			idx["major"] = i
		case "department":
			idx["department"] = i
		}
	}
	return idx
}

// ImportStudents creates one account per valid row. Rows are independent:
// a bad row is reported and skipped.
func (s *studentService) ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportResult, error) {
	resp := &dto.ImportResult{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportError{Row: row, Reason: reason})
	}

	seenEmail := make(map[string]bool, len(rows))
	seenNumber := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.FirstName == "" || row.LastName == "" || row.Email == "" || row.StudentNumber == "" {
			fail(row.Row, "required field is empty")
			continue
		}
		email := strings.ToLower(row.Email)
		if seenEmail[email] || seenNumber[row.StudentNumber] {
			fail(row.Row, "duplicate row in file")
			continue
		}
		seenEmail[email] = true
		seenNumber[row.StudentNumber] = true

		if err := checkEmailFree(ctx, s.repo, email, ""); err != nil {
			fail(row.Row, importReason(err, "email already registered: "+row.Email))
			continue
		}
		if err := s.checkNumberFree(ctx, row.StudentNumber, ""); err != nil {
			fail(row.Row, importReason(err, "student number already registered: "+row.StudentNumber))
			continue
		}

		if err := s.importRow(ctx, row); err != nil {
			s.logger.Error("import student row failed", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "could not create student")
			continue
		}
		resp.Success++
	}

	s.logger.Info("students imported",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *studentService) importRow(ctx context.Context, row ImportStudentRow) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var deptID *string
		if row.Department != "" {
			dept, err := tx.Department.Ensure(ctx, row.Department)
			if err != nil {
				return err
			}
			deptID = &dept.DepartmentID
		}

		user, err := newUser(ctx, tx, row.FirstName, row.LastName, row.Email, row.StudentNumber, model.RoleStudent)
		if err != nil {
			return err
		}
		return tx.Student.Create(ctx, &model.Student{
			UserID:        user.UserID,
			StudentNumber: row.StudentNumber,
			DepartmentID:  deptID,
			Major:         row.Major,
		})
	})
}

func importReason(err error, conflict string) string {
	if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrStudentNumberTaken) {
		return conflict
	}
	return "lookup failed"
}
