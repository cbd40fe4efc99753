// Package export writes employee listings to spreadsheet workbooks.
package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hongminglow/gestionrh/internal/models"
)

// SheetName is the worksheet holding the employee rows.
const SheetName = "Employees"

var headers = []any{"ID", "Surname", "Given name", "Job title", "Removed"}

// Employees writes one row per employee under a bold header row.
func Employees(w io.Writer, employees []models.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", bold); err != nil {
		return err
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		removed := "no"
		if e.Removed {
			removed = "yes"
		}
		row := []any{e.ID, e.Surname, e.GivenName, e.JobTitle, removed}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "B", "D", 22); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
