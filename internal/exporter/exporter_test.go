package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"hireflow/pkg/models"
)

func TestExportApplicationsWritesRows(t *testing.T) {
	vacancy := &models.Vacancy{ID: "vac-1", Title: "Backend Engineer"}
	apps := []*models.Application{
		{
			ID:        "app-1",
			FullName:  "Ada Lovelace",
			Email:     "ada@example.com",
			Status:    models.ApplicationStatusInReview,
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:              "app-2",
			FullName:        "Grace Hopper",
			Email:           "grace@example.com",
			Status:          models.ApplicationStatusDiscarded,
			CreatedAt:       time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			RejectionReason: "Profile not selected",
		},
	}

	data, err := ExportApplications(vacancy, apps)
	if err != nil {
		t.Fatalf("ExportApplications: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	title, _ := f.GetCellValue(sheetName, "A1")
	if title != "Applications for Backend Engineer" {
		t.Errorf("unexpected title %q", title)
	}

	header, _ := f.GetCellValue(sheetName, "B3")
	if header != "Full Name" {
		t.Errorf("unexpected header %q", header)
	}

	name, _ := f.GetCellValue(sheetName, "B4")
	if name != "Ada Lovelace" {
		t.Errorf("unexpected first row name %q", name)
	}

	reason, _ := f.GetCellValue(sheetName, "I5")
	if reason != "Profile not selected" {
		t.Errorf("unexpected rejection reason %q", reason)
	}
}
