package reports

import (
	"context"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/jszwec/csvutil"
)

type measurementCsvRow struct {
	Date                string  `csv:"date"`
	Category            string  `csv:"category"`
	SubCategory         string  `csv:"sub_category"`
	Location            string  `csv:"location"`
	Amount              float64 `csv:"amount"`
	Unit                string  `csv:"unit"`
	CalculatedEmissions float64 `csv:"calculated_emissions"`
	Notes               string  `csv:"notes"`
}

// ExportMeasurementsCSV renders one year of measurements as CSV bytes.
func ExportMeasurementsCSV(ctx context.Context, year int) ([]byte, error) {

	measurements, err := yearMeasurements(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := make([]measurementCsvRow, 0, len(measurements))
	for _, m := range measurements {
		rows = append(rows, measurementCsvRow{
			Date:                m.Date.Time().Format("2006-01-02"),
			Category:            m.Category,
			SubCategory:         m.SubCategory,
			Location:            m.Location,
			Amount:              m.Amount,
			Unit:                m.Unit,
			CalculatedEmissions: utils.Round4(m.CalculatedEmissions),
			Notes:               m.Notes,
		})
	}
	return csvutil.Marshal(rows)
}

type projectCsvRow struct {
	Name                string  `csv:"name"`
	Year                int     `csv:"year"`
	Status              string  `csv:"status"`
	StartDate           string  `csv:"start_date"`
	EndDate             string  `csv:"end_date"`
	Activities          int     `csv:"activities"`
	CompletedActivities int     `csv:"completed_activities"`
	BudgetSpent         float64 `csv:"budget_spent"`
}

// ExportProjectsCSV renders one year of projects as CSV bytes.
func ExportProjectsCSV(ctx context.Context, year int) ([]byte, error) {

	projects, err := models.GetProjects(ctx, &year, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]projectCsvRow, 0, len(projects))
	for _, p := range projects {
		completed := 0
		var spent float64
		for _, a := range p.Activities {
			if a.Status == models.ActivityStatusCompleted {
				completed++
			}
			spent += a.BudgetSpent
		}
		rows = append(rows, projectCsvRow{
			Name:                p.Name,
			Year:                p.Year,
			Status:              string(p.Status),
			StartDate:           p.StartDate.Time().Format("2006-01-02"),
			EndDate:             p.EndDate.Time().Format("2006-01-02"),
			Activities:          len(p.Activities),
			CompletedActivities: completed,
			BudgetSpent:         utils.Round2(spent),
		})
	}
	return csvutil.Marshal(rows)
}

type supplierCsvRow struct {
	CompanyName      string  `csv:"company_name"`
	Industry         string  `csv:"industry"`
	ContactPerson    string  `csv:"contact_person"`
	Email            string  `csv:"email"`
	EsgRating        string  `csv:"esg_rating"`
	DataCompleteness float64 `csv:"data_completeness"`
	Status           string  `csv:"status"`
	AnnualSpend      float64 `csv:"annual_spend"`
}

// ExportSuppliersCSV renders the supplier register as CSV bytes.
func ExportSuppliersCSV(ctx context.Context) ([]byte, error) {

	suppliers, err := models.GetSuppliers(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	rows := make([]supplierCsvRow, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, supplierCsvRow{
			CompanyName:      s.CompanyName,
			Industry:         s.Industry,
			ContactPerson:    s.ContactPerson,
			Email:            s.Email,
			EsgRating:        s.EsgRating,
			DataCompleteness: s.DataCompleteness,
			Status:           string(s.Status),
			AnnualSpend:      s.AnnualSpend,
		})
	}
	return csvutil.Marshal(rows)
}
