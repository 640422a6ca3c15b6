package reports

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

func writeHeaderRow(f *excelize.File, headings []string) {
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(exportSheet, fmt.Sprintf("%c1", col), h)
		col++
	}
}

// ExportMeasurementsExcel renders one year of measurements as a workbook.
func ExportMeasurementsExcel(ctx context.Context, year int) (*excelize.File, error) {

	measurements, err := yearMeasurements(ctx, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, err
	}

	writeHeaderRow(f, []string{
		"Date", "Category", "SubCategory", "Location",
		"Amount", "Unit", "CalculatedEmissions", "Notes",
	})
	for i, m := range measurements {
		row := i + 2
		f.SetCellValue(exportSheet, "A"+fmt.Sprint(row), m.Date.Time().Format("2006-01-02"))
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(row), m.Category)
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(row), m.SubCategory)
		f.SetCellValue(exportSheet, "D"+fmt.Sprint(row), m.Location)
		f.SetCellValue(exportSheet, "E"+fmt.Sprint(row), m.Amount)
		f.SetCellValue(exportSheet, "F"+fmt.Sprint(row), m.Unit)
		f.SetCellValue(exportSheet, "G"+fmt.Sprint(row), utils.Round4(m.CalculatedEmissions))
		f.SetCellValue(exportSheet, "H"+fmt.Sprint(row), m.Notes)
	}
	return f, nil
}

// ExportProjectsExcel renders one year of projects with activity rollups.
func ExportProjectsExcel(ctx context.Context, year int) (*excelize.File, error) {

	projects, err := models.GetProjects(ctx, &year, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, err
	}

	writeHeaderRow(f, []string{
		"Name", "Year", "Status", "StartDate", "EndDate",
		"Activities", "CompletedActivities", "BudgetSpent",
	})
	for i, p := range projects {
		completed := 0
		var spent float64
		for _, a := range p.Activities {
			if a.Status == models.ActivityStatusCompleted {
				completed++
			}
			spent += a.BudgetSpent
		}
		row := i + 2
		f.SetCellValue(exportSheet, "A"+fmt.Sprint(row), p.Name)
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(row), p.Year)
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(row), string(p.Status))
		f.SetCellValue(exportSheet, "D"+fmt.Sprint(row), p.StartDate.Time().Format("2006-01-02"))
		f.SetCellValue(exportSheet, "E"+fmt.Sprint(row), p.EndDate.Time().Format("2006-01-02"))
		f.SetCellValue(exportSheet, "F"+fmt.Sprint(row), len(p.Activities))
		f.SetCellValue(exportSheet, "G"+fmt.Sprint(row), completed)
		f.SetCellValue(exportSheet, "H"+fmt.Sprint(row), utils.Round2(spent))
	}
	return f, nil
}

// ExportSuppliersExcel renders the supplier register as a workbook.
func ExportSuppliersExcel(ctx context.Context) (*excelize.File, error) {

	suppliers, err := models.GetSuppliers(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return nil, err
	}

	writeHeaderRow(f, []string{
		"CompanyName", "Industry", "ContactPerson", "Email",
		"EsgRating", "DataCompleteness", "Status", "AnnualSpend",
	})
	for i, s := range suppliers {
		row := i + 2
		f.SetCellValue(exportSheet, "A"+fmt.Sprint(row), s.CompanyName)
		f.SetCellValue(exportSheet, "B"+fmt.Sprint(row), s.Industry)
		f.SetCellValue(exportSheet, "C"+fmt.Sprint(row), s.ContactPerson)
		f.SetCellValue(exportSheet, "D"+fmt.Sprint(row), s.Email)
		f.SetCellValue(exportSheet, "E"+fmt.Sprint(row), s.EsgRating)
		f.SetCellValue(exportSheet, "F"+fmt.Sprint(row), s.DataCompleteness)
		f.SetCellValue(exportSheet, "G"+fmt.Sprint(row), string(s.Status))
		f.SetCellValue(exportSheet, "H"+fmt.Sprint(row), s.AnnualSpend)
	}
	return f, nil
}
