package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/idms/ems/pkg/filter"
)

// ExportService renders the filtered employee list as an XLSX workbook
type ExportService struct {
	repo EmployeeStore
}

// NewExportService creates a new export service
func NewExportService(repo EmployeeStore) *ExportService {
	return &ExportService{
		repo: repo,
	}
}

var exportHeader = []interface{}{
	"Full Name", "Date of Birth", "Email", "Department",
	"Phone Number", "Designation", "Gender",
}

// ExportXLSX builds a workbook containing the employees matching the
// filters, in the same newest-first order as the list endpoint.
func (s *ExportService) ExportXLSX(ctx context.Context, f filter.Filters) (*excelize.File, error) {
	employees, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	const sheet = "Employees"

	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := file.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, e := range employees {
		row := []interface{}{
			e.FullName,
			e.DOB.Format("2006-01-02"),
			e.Email,
			e.Department,
			e.PhoneNumber,
			e.Designation,
			e.Gender,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return file, nil
}
