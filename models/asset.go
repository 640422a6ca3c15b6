package models

import (
	"context"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

type Asset struct {
	ID                  int         `gorm:"primary_key" json:"id"`
	Name                string      `gorm:"size:200;not null" json:"name" binding:"required"`
	AssetType           string      `gorm:"size:100;not null;index" json:"asset_type" binding:"required"`
	Model               string      `gorm:"size:200" json:"model"`
	Manufacturer        string      `gorm:"size:200" json:"manufacturer"`
	SerialNumber        string      `gorm:"size:100" json:"serial_number"`
	Location            string      `gorm:"size:200" json:"location"`
	InstallationDate    *DateString `json:"installation_date"`
	Capacity            float64     `json:"capacity"`
	CapacityUnit        string      `gorm:"size:50" json:"capacity_unit"`
	PowerRating         float64     `json:"power_rating"`
	EfficiencyRating    float64     `json:"efficiency_rating"`
	AnnualKwh           float64     `json:"annual_kwh"`
	AnnualCo2e          float64     `json:"annual_co2e"`
	MaintenanceSchedule string      `gorm:"size:100" json:"maintenance_schedule"`
	LastMaintenance     *DateString `json:"last_maintenance"`
	NextMaintenance     *DateString `json:"next_maintenance"`
	Status              AssetStatus `gorm:"size:50;default:active" json:"status"`
	Notes               string      `json:"notes"`
	CreatedAt           time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAsset struct {
	Name                string      `json:"name" binding:"required"`
	AssetType           string      `json:"asset_type" binding:"required"`
	Model               string      `json:"model"`
	Manufacturer        string      `json:"manufacturer"`
	SerialNumber        string      `json:"serial_number"`
	Location            string      `json:"location"`
	InstallationDate    *DateString `json:"installation_date"`
	Capacity            float64     `json:"capacity"`
	CapacityUnit        string      `json:"capacity_unit"`
	PowerRating         float64     `json:"power_rating"`
	EfficiencyRating    float64     `json:"efficiency_rating"`
	AnnualKwh           float64     `json:"annual_kwh"`
	AnnualCo2e          float64     `json:"annual_co2e"`
	MaintenanceSchedule string      `json:"maintenance_schedule"`
	LastMaintenance     *DateString `json:"last_maintenance"`
	NextMaintenance     *DateString `json:"next_maintenance"`
	Status              AssetStatus `json:"status"`
	Notes               string      `json:"notes"`
}

// annual_co2e arrives in kgCO2e from clients and is stored in tCO2e.
func kgToTonnes(kg float64) float64 {
	return kg / 1000
}

func CreateAsset(ctx context.Context, input *NewAsset) (*Asset, error) {

	status := input.Status
	if status == "" {
		status = AssetStatusActive
	}

	asset := Asset{
		Name:                input.Name,
		AssetType:           input.AssetType,
		Model:               input.Model,
		Manufacturer:        input.Manufacturer,
		SerialNumber:        input.SerialNumber,
		Location:            input.Location,
		InstallationDate:    input.InstallationDate,
		Capacity:            input.Capacity,
		CapacityUnit:        input.CapacityUnit,
		PowerRating:         input.PowerRating,
		EfficiencyRating:    input.EfficiencyRating,
		AnnualKwh:           input.AnnualKwh,
		AnnualCo2e:          kgToTonnes(input.AnnualCo2e),
		MaintenanceSchedule: input.MaintenanceSchedule,
		LastMaintenance:     input.LastMaintenance,
		NextMaintenance:     input.NextMaintenance,
		Status:              status,
		Notes:               input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func UpdateAsset(ctx context.Context, id int, input *NewAsset) (*Asset, error) {

	asset, err := utils.FetchSingleModel[Asset](ctx, id)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = asset.Status
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&asset).Updates(map[string]interface{}{
		"name":                 input.Name,
		"asset_type":           input.AssetType,
		"model":                input.Model,
		"manufacturer":         input.Manufacturer,
		"serial_number":        input.SerialNumber,
		"location":             input.Location,
		"installation_date":    input.InstallationDate,
		"capacity":             input.Capacity,
		"capacity_unit":        input.CapacityUnit,
		"power_rating":         input.PowerRating,
		"efficiency_rating":    input.EfficiencyRating,
		"annual_kwh":           input.AnnualKwh,
		"annual_co2e":          kgToTonnes(input.AnnualCo2e),
		"maintenance_schedule": input.MaintenanceSchedule,
		"last_maintenance":     input.LastMaintenance,
		"next_maintenance":     input.NextMaintenance,
		"status":               status,
		"notes":                input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func DeleteAsset(ctx context.Context, id int) (*Asset, error) {

	asset, err := utils.FetchSingleModel[Asset](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

func GetAsset(ctx context.Context, id int) (*Asset, error) {
	return utils.FetchSingleModel[Asset](ctx, id)
}

func GetAssets(ctx context.Context, assetType *string, status *AssetStatus) ([]*Asset, error) {

	db := config.GetDB()
	var results []*Asset

	dbCtx := db.WithContext(ctx)
	if assetType != nil && *assetType != "" {
		dbCtx = dbCtx.Where("asset_type = ?", *assetType)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("asset_type, name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func GetAssetTypes(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var types []string
	err := db.WithContext(ctx).Model(&Asset{}).
		Distinct("asset_type").Order("asset_type").Pluck("asset_type", &types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

type AssetFleetSummary struct {
	TotalAssets     int            `json:"total_assets"`
	TotalAnnualKwh  float64        `json:"total_annual_kwh"`
	TotalAnnualCo2e float64        `json:"total_annual_co2e"`
	ByStatus        map[string]int `json:"by_status"`
	ByType          map[string]int `json:"by_type"`
}

func GetAssetFleetSummary(ctx context.Context) (*AssetFleetSummary, error) {

	assets, err := GetAssets(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	summary := AssetFleetSummary{
		TotalAssets: len(assets),
		ByStatus:    make(map[string]int),
		ByType:      make(map[string]int),
	}
	for _, a := range assets {
		summary.TotalAnnualKwh += a.AnnualKwh
		summary.TotalAnnualCo2e += a.AnnualCo2e
		summary.ByStatus[string(a.Status)]++
		summary.ByType[a.AssetType]++
	}
	summary.TotalAnnualKwh = utils.Round2(summary.TotalAnnualKwh)
	summary.TotalAnnualCo2e = utils.Round2(summary.TotalAnnualCo2e)
	return &summary, nil
}

// GetAssetMaintenanceSchedule lists assets with a pending maintenance date,
// soonest first.
func GetAssetMaintenanceSchedule(ctx context.Context) ([]*Asset, error) {

	db := config.GetDB()
	var assets []*Asset
	err := db.WithContext(ctx).
		Where("next_maintenance IS NOT NULL").
		Where("status <> ?", AssetStatusRetired).
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool {
		return assets[i].NextMaintenance.Time().Before(assets[j].NextMaintenance.Time())
	})
	return assets, nil
}

type AssetTypeAnalysis struct {
	AssetType  string  `json:"asset_type"`
	Count      int     `json:"count"`
	TotalKwh   float64 `json:"total_kwh"`
	TotalCo2e  float64 `json:"total_co2e"`
	AverageKwh float64 `json:"average_kwh"`
}

// GetAssetEnergyAnalysis groups annual energy use per asset type.
func GetAssetEnergyAnalysis(ctx context.Context) ([]*AssetTypeAnalysis, error) {
	return assetAnalysisByType(ctx)
}

// GetAssetCarbonAnalysis groups annual emissions per asset type.
func GetAssetCarbonAnalysis(ctx context.Context) ([]*AssetTypeAnalysis, error) {
	return assetAnalysisByType(ctx)
}

func assetAnalysisByType(ctx context.Context) ([]*AssetTypeAnalysis, error) {

	assets, err := GetAssets(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*AssetTypeAnalysis)
	var order []string
	for _, a := range assets {
		entry, ok := byType[a.AssetType]
		if !ok {
			entry = &AssetTypeAnalysis{AssetType: a.AssetType}
			byType[a.AssetType] = entry
			order = append(order, a.AssetType)
		}
		entry.Count++
		entry.TotalKwh += a.AnnualKwh
		entry.TotalCo2e += a.AnnualCo2e
	}

	sort.Strings(order)
	results := make([]*AssetTypeAnalysis, 0, len(order))
	for _, t := range order {
		entry := byType[t]
		entry.TotalKwh = utils.Round2(entry.TotalKwh)
		entry.TotalCo2e = utils.Round2(entry.TotalCo2e)
		if entry.Count > 0 {
			entry.AverageKwh = utils.Round2(entry.TotalKwh / float64(entry.Count))
		}
		results = append(results, entry)
	}
	return results, nil
}
