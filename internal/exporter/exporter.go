// Package exporter renders application listings into spreadsheet form for
// recruiters.
package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hireflow/pkg/models"
)

const sheetName = "Applications"

var columns = []string{"ID", "Full Name", "Email", "Phone", "Status", "Resume URL", "Submitted", "Last Processed", "Rejection Reason"}

// ExportApplications produces an xlsx workbook listing every application of a
// vacancy
func ExportApplications(vacancy *models.Vacancy, apps []*models.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("Applications for %s", vacancy.Title)); err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row, app := range apps {
		values := []interface{}{
			app.ID,
			app.FullName,
			app.Email,
			app.Phone,
			string(app.Status),
			app.ResumeURL,
			app.CreatedAt.Format("2006-01-02 15:04"),
			"",
			app.RejectionReason,
		}
		if !app.LastProcessedAt.IsZero() {
			values[7] = app.LastProcessedAt.Format("2006-01-02 15:04")
		}

		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+4)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "I", 22); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
