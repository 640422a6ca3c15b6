package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// emissionEpsilon is the tolerance below which a recalculated emission is
// considered unchanged and the row is left untouched.
const emissionEpsilon = 0.001

// recalcChunkSize bounds the number of rows updated per transaction during
// a bulk recalculation pass.
const recalcChunkSize = 500

type Measurement struct {
	ID                  int        `gorm:"primary_key" json:"id"`
	Date                DateString `gorm:"not null;index" json:"date" binding:"required"`
	Location            string     `gorm:"size:200" json:"location"`
	Category            string     `gorm:"size:100;not null;index" json:"category" binding:"required"`
	SubCategory         string     `gorm:"size:100" json:"sub_category"`
	Amount              float64    `gorm:"not null" json:"amount"`
	Unit                string     `gorm:"size:50;not null" json:"unit" binding:"required"`
	EmissionFactorId    int        `gorm:"not null;index" json:"emission_factor_id" binding:"required"`
	CalculatedEmissions float64    `json:"calculated_emissions"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMeasurement struct {
	Date             DateString `json:"date" binding:"required"`
	Location         string     `json:"location"`
	Category         string     `json:"category" binding:"required"`
	SubCategory      string     `json:"sub_category"`
	Amount           float64    `json:"amount" binding:"required"`
	Unit             string     `json:"unit" binding:"required"`
	EmissionFactorId int        `json:"emission_factor_id" binding:"required"`
	Notes            string     `json:"notes"`
}

type MeasurementFilter struct {
	Category  *string
	Location  *string
	StartDate *time.Time
	EndDate   *time.Time
	Year      *int
	Month     *int
	Page      int
	PerPage   int
}

// MeasurementInfo embeds the factor state alongside the measurement for
// responses. When an active revision exists, Emissions carries the value
// re-derived live from it; otherwise it equals the cached column.
type MeasurementInfo struct {
	Measurement
	EmissionFactor *EmissionFactorInfo `json:"emission_factor,omitempty"`
	Emissions      float64             `json:"emissions"`
}

type MeasurementPage struct {
	Measurements []*MeasurementInfo `json:"measurements"`
	Total        int64              `json:"total"`
	Page         int                `json:"page"`
	PerPage      int                `json:"per_page"`
	Pages        int                `json:"pages"`
}

type MeasurementSummary struct {
	TotalEmissions float64            `json:"total_emissions"`
	ByScope        map[int]float64    `json:"by_scope"`
	ByCategory     map[string]float64 `json:"by_category"`
	Count          int                `json:"count"`
}

type RecalculationResult struct {
	UpdatedCount      int `json:"updated_count"`
	SkippedCount      int `json:"skipped_count"`
	TotalMeasurements int `json:"total_measurements"`
}

func CreateMeasurement(ctx context.Context, input *NewMeasurement) (*Measurement, error) {

	// the write is rejected when resolution fails, never stored with
	// zero emissions
	factorValue, err := ResolveActiveFactorValue(ctx, input.EmissionFactorId)
	if err != nil {
		return nil, err
	}

	measurement := Measurement{
		Date:                input.Date,
		Location:            input.Location,
		Category:            input.Category,
		SubCategory:         input.SubCategory,
		Amount:              input.Amount,
		Unit:                input.Unit,
		EmissionFactorId:    input.EmissionFactorId,
		CalculatedEmissions: input.Amount * factorValue,
		Notes:               input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&measurement).Error; err != nil {
		return nil, err
	}
	return &measurement, nil
}

func UpdateMeasurement(ctx context.Context, id int, input *NewMeasurement) (*Measurement, error) {

	measurement, err := utils.FetchSingleModel[Measurement](ctx, id)
	if err != nil {
		return nil, err
	}

	factorValue, err := ResolveActiveFactorValue(ctx, input.EmissionFactorId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&measurement).Updates(map[string]interface{}{
		"date":                 input.Date,
		"location":             input.Location,
		"category":             input.Category,
		"sub_category":         input.SubCategory,
		"amount":               input.Amount,
		"unit":                 input.Unit,
		"emission_factor_id":   input.EmissionFactorId,
		"calculated_emissions": input.Amount * factorValue,
		"notes":                input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return measurement, nil
}

func DeleteMeasurement(ctx context.Context, id int) (*Measurement, error) {

	measurement, err := utils.FetchSingleModel[Measurement](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&measurement).Error; err != nil {
		return nil, err
	}
	return measurement, nil
}

func GetMeasurement(ctx context.Context, id int) (*MeasurementInfo, error) {

	measurement, err := utils.FetchSingleModel[Measurement](ctx, id)
	if err != nil {
		return nil, err
	}
	return annotateMeasurement(ctx, measurement)
}

func GetMeasurements(ctx context.Context, filter *MeasurementFilter) (*MeasurementPage, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Measurement{})

	if filter.Category != nil && *filter.Category != "" {
		dbCtx = dbCtx.Where("category = ?", *filter.Category)
	}
	if filter.Location != nil && *filter.Location != "" {
		dbCtx = dbCtx.Where("location = ?", *filter.Location)
	}
	if filter.StartDate != nil {
		dbCtx = dbCtx.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		dbCtx = dbCtx.Where("date <= ?", *filter.EndDate)
	}
	// year/month filters become date ranges so the query works on every driver
	if filter.Year != nil && *filter.Year > 0 {
		if filter.Month != nil && *filter.Month >= 1 && *filter.Month <= 12 {
			start, end := utils.MonthRange(*filter.Year, time.Month(*filter.Month))
			dbCtx = dbCtx.Where("date >= ? AND date < ?", start, end)
		} else {
			start, end := utils.YearRange(*filter.Year)
			dbCtx = dbCtx.Where("date >= ? AND date < ?", start, end)
		}
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var measurements []*Measurement
	err := dbCtx.Order("date DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&measurements).Error
	if err != nil {
		return nil, err
	}

	infos := make([]*MeasurementInfo, 0, len(measurements))
	for _, m := range measurements {
		info, err := annotateMeasurement(ctx, m)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return &MeasurementPage{
		Measurements: infos,
		Total:        total,
		Page:         page,
		PerPage:      perPage,
		Pages:        pages,
	}, nil
}

func annotateMeasurement(ctx context.Context, measurement *Measurement) (*MeasurementInfo, error) {

	info := MeasurementInfo{
		Measurement: *measurement,
		Emissions:   measurement.CalculatedEmissions,
	}

	factor, err := utils.FetchSingleModel[EmissionFactor](ctx, measurement.EmissionFactorId)
	if err != nil {
		// dangling reference, return the measurement as stored
		if err == utils.ErrorRecordNotFound {
			return &info, nil
		}
		return nil, err
	}
	factorInfo, err := annotateFactor(ctx, factor)
	if err != nil {
		return nil, err
	}
	info.EmissionFactor = factorInfo
	if factorInfo.IsUsingRevision {
		info.Emissions = measurement.Amount * factorInfo.CurrentRevision.FactorValue
	}
	return &info, nil
}

// GetMeasurementSummary re-derives every total live through the resolver.
// Dashboard and report views read the cached column instead; the summary is
// the ground truth view after factor revisions change.
func GetMeasurementSummary(ctx context.Context, year *int) (*MeasurementSummary, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Measurement{})
	if year != nil && *year > 0 {
		start, end := utils.YearRange(*year)
		dbCtx = dbCtx.Where("date >= ? AND date < ?", start, end)
	}

	var measurements []*Measurement
	if err := dbCtx.Find(&measurements).Error; err != nil {
		return nil, err
	}

	values, _, err := resolveFactorValues(ctx, measurements)
	if err != nil {
		return nil, err
	}

	scopes, err := factorScopes(ctx, measurements)
	if err != nil {
		return nil, err
	}

	summary := MeasurementSummary{
		ByScope:    make(map[int]float64),
		ByCategory: make(map[string]float64),
	}
	for _, m := range measurements {
		value, ok := values[m.EmissionFactorId]
		if !ok {
			continue
		}
		emissions := m.Amount * value
		summary.TotalEmissions += emissions
		summary.ByCategory[m.Category] += emissions
		if scope, ok := scopes[m.EmissionFactorId]; ok {
			summary.ByScope[scope] += emissions
		}
		summary.Count++
	}
	return &summary, nil
}

// resolveFactorValues batch-resolves the factor value for every distinct
// factor id referenced by the given measurements: one query for the active
// revisions, one for the base factors. Returns the resolved value per factor
// id and the set of ids that resolve to nothing (dangling references).
func resolveFactorValues(ctx context.Context, measurements []*Measurement) (map[int]float64, map[int]bool, error) {

	db := config.GetDB()

	var factorIds []int
	for _, m := range measurements {
		factorIds = append(factorIds, m.EmissionFactorId)
	}
	factorIds = utils.UniqueSlice(factorIds)

	values := make(map[int]float64, len(factorIds))
	dangling := make(map[int]bool)
	if len(factorIds) == 0 {
		return values, dangling, nil
	}

	var factors []*EmissionFactor
	if err := db.WithContext(ctx).Where("id IN ?", factorIds).
		Find(&factors).Error; err != nil {
		return nil, nil, err
	}
	for _, f := range factors {
		values[f.ID] = f.FactorValue
	}

	// active revisions override base values; ordered ascending by version so
	// the highest version wins when more than one row is active
	var revisions []*EmissionFactorRevision
	if err := db.WithContext(ctx).
		Where("parent_factor_id IN ? AND is_active = ?", factorIds, true).
		Order("version ASC").
		Find(&revisions).Error; err != nil {
		return nil, nil, err
	}
	for _, r := range revisions {
		values[r.ParentFactorId] = r.FactorValue
	}

	for _, id := range factorIds {
		if _, ok := values[id]; !ok {
			dangling[id] = true
		}
	}
	return values, dangling, nil
}

func factorScopes(ctx context.Context, measurements []*Measurement) (map[int]int, error) {
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

	var factors []*EmissionFactor
	if err := db.WithContext(ctx).Select("id, scope").
		Where("id IN ?", factorIds).Find(&factors).Error; err != nil {
		return nil, err
	}
	for _, f := range factors {
		scopes[f.ID] = f.Scope
	}
	return scopes, nil
}

// RecalculateAllEmissions re-derives the cached emissions of every
// measurement from the currently resolved factor values. Rows whose cached
// value is already within emissionEpsilon of the new value are left
// untouched, so the pass is idempotent and a second run reports zero
// updates. Updates are committed in chunks to keep transactions bounded.
func RecalculateAllEmissions(ctx context.Context) (*RecalculationResult, error) {

	db := config.GetDB()
	logger := config.GetLogger()

	var measurements []*Measurement
	if err := db.WithContext(ctx).Find(&measurements).Error; err != nil {
		return nil, err
	}

	values, dangling, err := resolveFactorValues(ctx, measurements)
	if err != nil {
		return nil, err
	}

	result := RecalculationResult{TotalMeasurements: len(measurements)}

	type pendingUpdate struct {
		id        int
		emissions float64
	}
	var pending []pendingUpdate

	for _, m := range measurements {
		if dangling[m.EmissionFactorId] {
			logger.WithFields(logrus.Fields{
				"module":         "Measurement",
				"measurement_id": m.ID,
				"factor_id":      m.EmissionFactorId,
			}).Warn("skipping measurement with missing emission factor")
			result.SkippedCount++
			continue
		}
		newEmissions := m.Amount * values[m.EmissionFactorId]
		diff := m.CalculatedEmissions - newEmissions
		if diff < 0 {
			diff = -diff
		}
		if diff > emissionEpsilon {
			pending = append(pending, pendingUpdate{id: m.ID, emissions: newEmissions})
		}
	}

	for start := 0; start < len(pending); start += recalcChunkSize {
		end := start + recalcChunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, u := range chunk {
				if err := tx.Model(&Measurement{}).Where("id = ?", u.id).
					Update("calculated_emissions", u.emissions).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		result.UpdatedCount += len(chunk)
	}

	return &result, nil
}
