package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"gorm.io/gorm"
)

type AssetComparison struct {
	ID             int                        `gorm:"primary_key" json:"id"`
	Name           string                     `gorm:"size:200;not null" json:"name" binding:"required"`
	Description    string                     `json:"description"`
	CurrentAssetId *int                       `json:"current_asset_id"`
	CurrentAsset   *Asset                     `gorm:"foreignKey:CurrentAssetId" json:"current_asset,omitempty"`
	CreatedBy      string                     `gorm:"size:100" json:"created_by"`
	Proposals      []*AssetComparisonProposal `gorm:"foreignKey:ComparisonId" json:"proposals"`
	CreatedAt      time.Time                  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAssetComparison struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	CurrentAssetId *int   `json:"current_asset_id"`
}

type AssetComparisonProposal struct {
	ID                    int       `gorm:"primary_key" json:"id"`
	ComparisonId          int       `gorm:"not null;index" json:"comparison_id"`
	Name                  string    `gorm:"size:200;not null" json:"name" binding:"required"`
	Manufacturer          string    `gorm:"size:200" json:"manufacturer"`
	Model                 string    `gorm:"size:200" json:"model"`
	PowerRating           float64   `json:"power_rating"`
	EfficiencyRating      float64   `json:"efficiency_rating"`
	AnnualKwh             float64   `json:"annual_kwh"`
	AnnualCo2e            float64   `json:"annual_co2e"`
	PurchaseCost          float64   `json:"purchase_cost"`
	InstallationCost      float64   `json:"installation_cost"`
	AnnualMaintenanceCost float64   `json:"annual_maintenance_cost"`
	ExpectedLifespan      int       `json:"expected_lifespan"`
	Notes                 string    `json:"notes"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAssetComparisonProposal struct {
	Name                  string  `json:"name" binding:"required"`
	Manufacturer          string  `json:"manufacturer"`
	Model                 string  `json:"model"`
	PowerRating           float64 `json:"power_rating"`
	EfficiencyRating      float64 `json:"efficiency_rating"`
	AnnualKwh             float64 `json:"annual_kwh"`
	AnnualCo2e            float64 `json:"annual_co2e"`
	PurchaseCost          float64 `json:"purchase_cost"`
	InstallationCost      float64 `json:"installation_cost"`
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost"`
	ExpectedLifespan      int     `json:"expected_lifespan"`
	Notes                 string  `json:"notes"`
}

func CreateAssetComparison(ctx context.Context, input *NewAssetComparison) (*AssetComparison, error) {

	if input.CurrentAssetId != nil {
		if err := utils.ValidateResourceId[Asset](ctx, *input.CurrentAssetId); err != nil {
			return nil, err
		}
	}

	createdBy, _ := utils.GetUsernameFromContext(ctx)

	comparison := AssetComparison{
		Name:           input.Name,
		Description:    input.Description,
		CurrentAssetId: input.CurrentAssetId,
		CreatedBy:      createdBy,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&comparison).Error; err != nil {
		return nil, err
	}
	return &comparison, nil
}

func UpdateAssetComparison(ctx context.Context, id int, input *NewAssetComparison) (*AssetComparison, error) {

	comparison, err := utils.FetchSingleModel[AssetComparison](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.CurrentAssetId != nil {
		if err := utils.ValidateResourceId[Asset](ctx, *input.CurrentAssetId); err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&comparison).Updates(map[string]interface{}{
		"name":             input.Name,
		"description":      input.Description,
		"current_asset_id": input.CurrentAssetId,
	}).Error
	if err != nil {
		return nil, err
	}
	return comparison, nil
}

// DeleteAssetComparison removes a comparison with its proposals.
func DeleteAssetComparison(ctx context.Context, id int) (*AssetComparison, error) {

	comparison, err := utils.FetchSingleModel[AssetComparison](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comparison_id = ?", id).
			Delete(&AssetComparisonProposal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comparison).Error
	})
	if err != nil {
		return nil, err
	}
	return comparison, nil
}

func GetAssetComparison(ctx context.Context, id int) (*AssetComparison, error) {
	return utils.FetchSingleModel[AssetComparison](ctx, id, "CurrentAsset", "Proposals")
}

func GetAssetComparisons(ctx context.Context) ([]*AssetComparison, error) {
	return utils.FetchAllModels[AssetComparison](ctx, "CurrentAsset", "Proposals")
}

func CreateAssetComparisonProposal(ctx context.Context, comparisonId int, input *NewAssetComparisonProposal) (*AssetComparisonProposal, error) {

	if err := utils.ValidateResourceId[AssetComparison](ctx, comparisonId); err != nil {
		return nil, err
	}

	proposal := AssetComparisonProposal{
		ComparisonId:          comparisonId,
		Name:                  input.Name,
		Manufacturer:          input.Manufacturer,
		Model:                 input.Model,
		PowerRating:           input.PowerRating,
		EfficiencyRating:      input.EfficiencyRating,
		AnnualKwh:             input.AnnualKwh,
		AnnualCo2e:            input.AnnualCo2e,
		PurchaseCost:          input.PurchaseCost,
		InstallationCost:      input.InstallationCost,
		AnnualMaintenanceCost: input.AnnualMaintenanceCost,
		ExpectedLifespan:      input.ExpectedLifespan,
		Notes:                 input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&proposal).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func DeleteAssetComparisonProposal(ctx context.Context, id int) (*AssetComparisonProposal, error) {

	proposal, err := utils.FetchSingleModel[AssetComparisonProposal](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&proposal).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}

// ProposalAnalysis compares one proposal against the comparison's current
// asset: annual savings and the years the upfront cost takes to pay back.
type ProposalAnalysis struct {
	Proposal           *AssetComparisonProposal `json:"proposal"`
	AnnualKwhSavings   float64                  `json:"annual_kwh_savings"`
	AnnualCo2eSavings  float64                  `json:"annual_co2e_savings"`
	UpfrontCost        float64                  `json:"upfront_cost"`
	PaybackYears       *float64                 `json:"payback_years"`
}

type ComparisonAnalysis struct {
	Comparison *AssetComparison    `json:"comparison"`
	Proposals  []*ProposalAnalysis `json:"proposals"`
}

// GetAssetComparisonAnalysis computes savings and simple payback for every
// proposal versus the current asset. Payback is nil when the proposal saves
// no energy cost equivalent (kWh savings <= 0).
func GetAssetComparisonAnalysis(ctx context.Context, id int, energyCostPerKwh float64) (*ComparisonAnalysis, error) {

	comparison, err := GetAssetComparison(ctx, id)
	if err != nil {
		return nil, err
	}
	if comparison.CurrentAsset == nil {
		return nil, utils.ErrorInvalidState
	}

	current := comparison.CurrentAsset
	analysis := ComparisonAnalysis{Comparison: comparison}
	for _, p := range comparison.Proposals {
		row := ProposalAnalysis{
			Proposal:          p,
			AnnualKwhSavings:  utils.Round2(current.AnnualKwh - p.AnnualKwh),
			AnnualCo2eSavings: utils.Round2(current.AnnualCo2e - p.AnnualCo2e),
			UpfrontCost:       p.PurchaseCost + p.InstallationCost,
		}
		annualSavings := row.AnnualKwhSavings*energyCostPerKwh - p.AnnualMaintenanceCost
		if annualSavings > 0 && row.UpfrontCost > 0 {
			payback := utils.Round2(row.UpfrontCost / annualSavings)
			row.PaybackYears = &payback
		}
		analysis.Proposals = append(analysis.Proposals, &row)
	}
	return &analysis, nil
}
