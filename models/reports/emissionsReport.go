package reports

import (
	"context"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

type EmissionsReport struct {
	Year             int                `json:"year"`
	TotalEmissions   float64            `json:"total_emissions"`
	ByScope          map[int]float64    `json:"by_scope"`
	ByCategory       map[string]float64 `json:"by_category"`
	ByLocation       map[string]float64 `json:"by_location"`
	MonthlyEmissions []MonthlyEmission  `json:"monthly_emissions"`
	MeasurementCount int                `json:"measurement_count"`
}

func GetEmissionsReport(ctx context.Context, year int) (*EmissionsReport, error) {

	measurements, err := yearMeasurements(ctx, year)
	if err != nil {
		return nil, err
	}
	scopes, err := measurementScopes(ctx, measurements)
	if err != nil {
		return nil, err
	}

	report := EmissionsReport{
		Year:             year,
		ByScope:          make(map[int]float64),
		ByCategory:       make(map[string]float64),
		ByLocation:       make(map[string]float64),
		MeasurementCount: len(measurements),
	}

	monthly := make([]float64, 12)
	for _, m := range measurements {
		report.TotalEmissions += m.CalculatedEmissions
		report.ByCategory[m.Category] += m.CalculatedEmissions
		if m.Location != "" {
			report.ByLocation[m.Location] += m.CalculatedEmissions
		}
		if scope, ok := scopes[m.EmissionFactorId]; ok {
			report.ByScope[scope] += m.CalculatedEmissions
		}
		monthIdx := int(m.Date.Time().Month()) - 1
		if monthIdx >= 0 && monthIdx < 12 {
			monthly[monthIdx] += m.CalculatedEmissions
		}
	}
	for i, v := range monthly {
		report.MonthlyEmissions = append(report.MonthlyEmissions, MonthlyEmission{
			Month:     i + 1,
			Emissions: utils.Round2(v),
		})
	}
	report.TotalEmissions = utils.Round2(report.TotalEmissions)
	return &report, nil
}

type TargetsReport struct {
	Year    int                 `json:"year"`
	Stats   *models.TargetStats `json:"stats"`
	Targets []*models.ESGTarget `json:"targets"`
}

func GetTargetsReport(ctx context.Context, year int) (*TargetsReport, error) {

	stats, err := models.GetTargetStats(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := models.GetESGTargets(ctx, nil)
	if err != nil {
		return nil, err
	}

	// scope the listing to targets whose window covers the report year
	var inYear []*models.ESGTarget
	for _, t := range targets {
		if t.BaselineYear <= year && t.TargetYear >= year {
			inYear = append(inYear, t)
		}
	}
	return &TargetsReport{Year: year, Stats: stats, Targets: inYear}, nil
}

type ProjectsReport struct {
	Year       int                       `json:"year"`
	Statistics *models.ProjectStatistics `json:"statistics"`
	Projects   []*models.Project         `json:"projects"`
}

func GetProjectsReport(ctx context.Context, year int) (*ProjectsReport, error) {

	stats, err := models.GetProjectStatistics(ctx, &year)
	if err != nil {
		return nil, err
	}
	projects, err := models.GetProjects(ctx, &year, nil)
	if err != nil {
		return nil, err
	}
	return &ProjectsReport{Year: year, Statistics: stats, Projects: projects}, nil
}

type SuppliersReport struct {
	Year                int                `json:"year"`
	TotalSuppliers      int                `json:"total_suppliers"`
	ByStatus            map[string]int     `json:"by_status"`
	ByRating            map[string]int     `json:"by_rating"`
	AverageCompleteness float64            `json:"average_completeness"`
	TotalAnnualSpend    float64            `json:"total_annual_spend"`
	Suppliers           []*models.Supplier `json:"suppliers"`
}

func GetSuppliersReport(ctx context.Context, year int) (*SuppliersReport, error) {

	suppliers, err := models.GetSuppliers(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	report := SuppliersReport{
		Year:           year,
		TotalSuppliers: len(suppliers),
		ByStatus:       make(map[string]int),
		ByRating:       make(map[string]int),
		Suppliers:      suppliers,
	}
	var completenessSum float64
	for _, s := range suppliers {
		report.ByStatus[string(s.Status)]++
		if s.EsgRating != "" {
			report.ByRating[s.EsgRating]++
		}
		completenessSum += s.DataCompleteness
		report.TotalAnnualSpend += s.AnnualSpend
	}
	if len(suppliers) > 0 {
		report.AverageCompleteness = utils.Round2(completenessSum / float64(len(suppliers)))
	}
	report.TotalAnnualSpend = utils.Round2(report.TotalAnnualSpend)
	return &report, nil
}

type ComprehensiveReport struct {
	Year      int              `json:"year"`
	Company   *models.Company  `json:"company"`
	Emissions *EmissionsReport `json:"emissions"`
	Targets   *TargetsReport   `json:"targets"`
	Projects  *ProjectsReport  `json:"projects"`
	Suppliers *SuppliersReport `json:"suppliers"`
}

func GetComprehensiveReport(ctx context.Context, year int) (*ComprehensiveReport, error) {

	company, err := models.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	emissions, err := GetEmissionsReport(ctx, year)
	if err != nil {
		return nil, err
	}
	targets, err := GetTargetsReport(ctx, year)
	if err != nil {
		return nil, err
	}
	projects, err := GetProjectsReport(ctx, year)
	if err != nil {
		return nil, err
	}
	suppliers, err := GetSuppliersReport(ctx, year)
	if err != nil {
		return nil, err
	}
	return &ComprehensiveReport{
		Year:      year,
		Company:   company,
		Emissions: emissions,
		Targets:   targets,
		Projects:  projects,
		Suppliers: suppliers,
	}, nil
}
