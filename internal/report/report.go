package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var ErrNoRecords = errors.New("failed to generate report, 0 attendance records were provided")

// Generator holds the state for the Excel report generation process.
type Generator struct {
	file *excelize.File
}

// AttendanceRow holds the structured row for the excel file.
type AttendanceRow struct {
	EmployeeID string    `json:"employee_id"` // Caller-facing ID of the employee
	FullName   string    `json:"full_name"`   // Full name of the employee
	Date       time.Time `json:"date"`        // Date the attendance record is for
	Status     string    `json:"status"`      // Present or Absent
	MarkedAt   time.Time `json:"marked_at"`   // Timestamp the record was created
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateExcelReport generates an Excel report from the given attendance
// rows, one sheet per status, each sheet formatted with a styled header row
// and a table. If no rows are provided, it returns ErrNoRecords. The
// function returns a bytes.Buffer containing the workbook or an error if
// any operation fails.
func GenerateExcelReport(rows []AttendanceRow) (*bytes.Buffer, error) {
	var err error

	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	rowsByStatus := make(map[string][]AttendanceRow)
	for _, row := range rows {
		rowsByStatus[row.Status] = append(rowsByStatus[row.Status], row)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err = gen.addSheets(rowsByStatus); err != nil {
		return nil, fmt.Errorf("failed to add sheets: %w", err)
	}

	// setup first sheet as active
	gen.file.SetActiveSheet(0)

	// delete default sheet
	if sheetIndex, _ := gen.file.GetSheetIndex("Sheet1"); sheetIndex != -1 {
		if err = gen.file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet 'Sheet1': %w", err)
		}
	}

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

// addSheets adds one sheet per status in rowsByStatus, sets each sheet up
// and fills it with the attendance rows of that status. It returns an
// error if any operation fails during the process.
func (g *Generator) addSheets(rowsByStatus map[string][]AttendanceRow) error {
	var err error
	headerIndex := 2

	for status, rowsInStatus := range rowsByStatus {
		sheetName := truncateSheetName(status)

		if _, err = g.file.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to generate new sheet '%s': %w", sheetName, err)
		}

		if err = g.setupSheet(sheetName, len(rowsInStatus)); err != nil {
			return fmt.Errorf("failed to setup sheet '%s': %w", sheetName, err)
		}

		// Fill data
		for i, row := range rowsInStatus {
			if err = g.addRow(sheetName, i+headerIndex, row); err != nil { // i+2, because the first row - header
				return fmt.Errorf("failed to add row '%d': %w", i+headerIndex, err)
			}
		}
	}

	return nil
}

// setupSheet initializes the specified sheet with headers, styles, and column widths.
// It creates a header style, sets the row height for the headers, and populates the headers
// in the first row. It also configures the width for each column and adds a table to the sheet.
//
// Parameters:
// - sheetName: The name of the sheet to set up.
// - rowCount: The number of attendance rows to determine the range of the table.
//
// Returns:
// - error: An error if any operation fails, otherwise returns nil.
func (g *Generator) setupSheet(sheetName string, rowCount int) error {
	var err error

	// Style creating
	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	// Headers creating
	rowHeight := 20
	headers := []string{"Employee ID", "Full Name", "Date", "Status", "Marked At"}
	if err = g.file.SetRowHeight(sheetName, 1, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	// Setup width column
	widths := map[string]float64{
		"A": 15, "B": 35, "C": 14, "D": 12, "E": 22, //nolint:mnd // const values for row width
	}
	for col, width := range widths {
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Add table
	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:E%d", rowCount+1),
		Name:      "table_" + strings.ReplaceAll(sheetName, " ", ""),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

// addRow adds a new row to the specified sheet with the details of the
// given attendance record. If the operation fails, it returns an error.
func (g *Generator) addRow(sheetName string, rowNum int, row AttendanceRow) error {
	rowData := []interface{}{
		row.EmployeeID,
		row.FullName,
		row.Date.Format("2006-01-02"),
		row.Status,
		row.MarkedAt.Format("2006-01-02 15:04:05"),
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheetName, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}

// truncateSheetName truncates the given sheet name to a maximum of 31 runes.
// If the name exceeds 31 runes, it returns the first 31 runes of the name.
// Otherwise, it returns the name as is.
func truncateSheetName(name string) string {
	if utf8.RuneCountInString(name) > 31 {
		runes := []rune(name)
		return string(runes[:31])
	}
	return name
}
