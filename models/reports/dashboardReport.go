package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

// Dashboard views read the cached calculated_emissions column. Live
// resolution through factor revisions happens only in the measurement
// summary endpoint and during recalculation.

type DashboardOverview struct {
	Year               int                   `json:"year"`
	TotalEmissions     float64               `json:"total_emissions"`
	ByScope            map[int]float64       `json:"by_scope"`
	ByCategory         map[string]float64    `json:"by_category"`
	MonthlyEmissions   []MonthlyEmission     `json:"monthly_emissions"`
	RecentMeasurements []*models.Measurement `json:"recent_measurements"`
	ActiveTargets      []*models.ESGTarget   `json:"active_targets"`
	MeasurementCount   int                   `json:"measurement_count"`
}

type MonthlyEmission struct {
	Month     int     `json:"month"`
	Emissions float64 `json:"emissions"`
}

func yearMeasurements(ctx context.Context, year int) ([]*models.Measurement, error) {
	db := config.GetDB()
	start, end := utils.YearRange(year)
	var measurements []*models.Measurement
	err := db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Find(&measurements).Error
	if err != nil {
		return nil, err
	}
	return measurements, nil
}

func measurementScopes(ctx context.Context, measurements []*models.Measurement) (map[int]int, error) {
	db := config.GetDB()

	var factorIds []int
	for _, m := range measurements {
		factorIds = append(factorIds, m.EmissionFactorId)
	}
	factorIds = utils.UniqueSlice(factorIds)

	scopes := make(map[int]int, len(factorIds))
	if len(factorIds) == 0 {
		return scopes, nil
	}

	var factors []*models.EmissionFactor
	if err := db.WithContext(ctx).Select("id, scope").
		Where("id IN ?", factorIds).Find(&factors).Error; err != nil {
		return nil, err
	}
	for _, f := range factors {
		scopes[f.ID] = f.Scope
	}
	return scopes, nil
}

func GetDashboardOverview(ctx context.Context, year int) (*DashboardOverview, error) {

	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	measurements, err := yearMeasurements(ctx, year)
	if err != nil {
		return nil, err
	}
	scopes, err := measurementScopes(ctx, measurements)
	if err != nil {
		return nil, err
	}

	overview := DashboardOverview{
		Year:             year,
		ByScope:          make(map[int]float64),
		ByCategory:       make(map[string]float64),
		MeasurementCount: len(measurements),
	}

	monthly := make([]float64, 12)
	for _, m := range measurements {
		overview.TotalEmissions += m.CalculatedEmissions
		overview.ByCategory[m.Category] += m.CalculatedEmissions
		if scope, ok := scopes[m.EmissionFactorId]; ok {
			overview.ByScope[scope] += m.CalculatedEmissions
		}
		monthIdx := int(m.Date.Time().Month()) - 1
		if monthIdx >= 0 && monthIdx < 12 {
			monthly[monthIdx] += m.CalculatedEmissions
		}
	}
	for i, v := range monthly {
		overview.MonthlyEmissions = append(overview.MonthlyEmissions, MonthlyEmission{
			Month:     i + 1,
			Emissions: utils.Round2(v),
		})
	}
	overview.TotalEmissions = utils.Round2(overview.TotalEmissions)

	db := config.GetDB()
	if err := db.WithContext(ctx).Order("date DESC, id DESC").Limit(5).
		Find(&overview.RecentMeasurements).Error; err != nil {
		return nil, err
	}

	active := models.TargetStatusActive
	targets, err := models.GetESGTargets(ctx, &active)
	if err != nil {
		return nil, err
	}
	overview.ActiveTargets = targets

	return &overview, nil
}

type TrendPoint struct {
	Year      int     `json:"year"`
	Emissions float64 `json:"emissions"`
	Count     int     `json:"count"`
}

// GetEmissionsTrend aggregates cached emissions per year over the last
// `years` calendar years, most recent last.
func GetEmissionsTrend(ctx context.Context, years int) ([]*TrendPoint, error) {

	if years <= 0 {
		years = 5
	}
	currentYear := time.Now().UTC().Year()

	var points []*TrendPoint
	for year := currentYear - years + 1; year <= currentYear; year++ {
		measurements, err := yearMeasurements(ctx, year)
		if err != nil {
			return nil, err
		}
		point := TrendPoint{Year: year, Count: len(measurements)}
		for _, m := range measurements {
			point.Emissions += m.CalculatedEmissions
		}
		point.Emissions = utils.Round2(point.Emissions)
		points = append(points, &point)
	}
	return points, nil
}

type IntensityMetrics struct {
	Year                 int      `json:"year"`
	TotalEmissions       float64  `json:"total_emissions"`
	EmissionsPerAsset    *float64 `json:"emissions_per_asset"`
	EmissionsPerSupplier *float64 `json:"emissions_per_supplier"`
	MeasurementCount     int      `json:"measurement_count"`
}

func GetIntensityMetrics(ctx context.Context, year int) (*IntensityMetrics, error) {

	if year <= 0 {
		year = time.Now().UTC().Year()
	}

	measurements, err := yearMeasurements(ctx, year)
	if err != nil {
		return nil, err
	}

	metrics := IntensityMetrics{Year: year, MeasurementCount: len(measurements)}
	for _, m := range measurements {
		metrics.TotalEmissions += m.CalculatedEmissions
	}
	metrics.TotalEmissions = utils.Round2(metrics.TotalEmissions)

	db := config.GetDB()
	var assetCount, supplierCount int64
	if err := db.WithContext(ctx).Model(&models.Asset{}).Count(&assetCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.Supplier{}).Count(&supplierCount).Error; err != nil {
		return nil, err
	}
	if assetCount > 0 {
		v := utils.Round2(metrics.TotalEmissions / float64(assetCount))
		metrics.EmissionsPerAsset = &v
	}
	if supplierCount > 0 {
		v := utils.Round2(metrics.TotalEmissions / float64(supplierCount))
		metrics.EmissionsPerSupplier = &v
	}
	return &metrics, nil
}

type TargetProgressRow struct {
	Target         *models.ESGTarget `json:"target"`
	YearsRemaining int               `json:"years_remaining"`
	OnTrack        bool              `json:"on_track"`
}

// GetTargetsProgress reports each active target with a simple linear
// on-track check: progress so far versus elapsed share of the target window.
func GetTargetsProgress(ctx context.Context) ([]*TargetProgressRow, error) {

	active := models.TargetStatusActive
	targets, err := models.GetESGTargets(ctx, &active)
	if err != nil {
		return nil, err
	}

	currentYear := time.Now().UTC().Year()
	rows := make([]*TargetProgressRow, 0, len(targets))
	for _, t := range targets {
		row := TargetProgressRow{Target: t}
		row.YearsRemaining = t.TargetYear - currentYear
		if row.YearsRemaining < 0 {
			row.YearsRemaining = 0
		}
		totalYears := t.TargetYear - t.BaselineYear
		if totalYears > 0 {
			elapsed := float64(currentYear-t.BaselineYear) / float64(totalYears) * 100
			if elapsed < 0 {
				elapsed = 0
			}
			if elapsed > 100 {
				elapsed = 100
			}
			row.OnTrack = t.ProgressPercentage >= elapsed
		} else {
			row.OnTrack = t.ProgressPercentage >= 100
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
