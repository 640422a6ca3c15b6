package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"gorm.io/gorm"
)

type EmissionFactor struct {
	ID            int        `gorm:"primary_key" json:"id"`
	Name          string     `gorm:"size:200;not null" json:"name" binding:"required"`
	Scope         int        `gorm:"not null" json:"scope" binding:"required,min=1,max=3"`
	Category      string     `gorm:"size:100;not null;index" json:"category" binding:"required"`
	SubCategory   string     `gorm:"size:100" json:"sub_category"`
	FactorValue   float64    `gorm:"not null" json:"factor_value"`
	Unit          string     `gorm:"size:50;not null" json:"unit" binding:"required"`
	Source        string     `gorm:"size:100;not null" json:"source" binding:"required"`
	EffectiveDate DateString `gorm:"not null" json:"effective_date" binding:"required"`
	Description   string     `json:"description"`
	Link          string     `json:"link"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmissionFactor struct {
	Name          string     `json:"name" binding:"required"`
	Scope         int        `json:"scope" binding:"required,min=1,max=3"`
	Category      string     `json:"category" binding:"required"`
	SubCategory   string     `json:"sub_category"`
	FactorValue   float64    `json:"factor_value" binding:"required"`
	Unit          string     `json:"unit" binding:"required"`
	Source        string     `json:"source" binding:"required"`
	EffectiveDate DateString `json:"effective_date" binding:"required"`
	Description   string     `json:"description"`
	Link          string     `json:"link"`
}

// EmissionFactorInfo is a factor merged with its active revision state,
// annotated for list/detail responses.
type EmissionFactorInfo struct {
	EmissionFactor
	RevisionCount   int                     `json:"revision_count"`
	CurrentRevision *EmissionFactorRevision `json:"current_revision,omitempty"`
	IsUsingRevision bool                    `json:"is_using_revision"`
}

func CreateEmissionFactor(ctx context.Context, input *NewEmissionFactor) (*EmissionFactor, error) {

	factor := EmissionFactor{
		Name:          input.Name,
		Scope:         input.Scope,
		Category:      input.Category,
		SubCategory:   input.SubCategory,
		FactorValue:   input.FactorValue,
		Unit:          input.Unit,
		Source:        input.Source,
		EffectiveDate: input.EffectiveDate,
		Description:   input.Description,
		Link:          input.Link,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Create(&factor).Error
	if err != nil {
		return nil, err
	}
	return &factor, nil
}

func GetEmissionFactor(ctx context.Context, id int) (*EmissionFactorInfo, error) {
	factor, err := utils.FetchSingleModel[EmissionFactor](ctx, id)
	if err != nil {
		return nil, err
	}
	return annotateFactor(ctx, factor)
}

func GetEmissionFactors(ctx context.Context, category *string, scope *int) ([]*EmissionFactorInfo, error) {

	db := config.GetDB()
	var factors []*EmissionFactor

	dbCtx := db.WithContext(ctx)
	if category != nil && *category != "" {
		dbCtx = dbCtx.Where("category = ?", *category)
	}
	if scope != nil && *scope > 0 {
		dbCtx = dbCtx.Where("scope = ?", *scope)
	}
	if err := dbCtx.Order("category, name").Find(&factors).Error; err != nil {
		return nil, err
	}

	results := make([]*EmissionFactorInfo, 0, len(factors))
	for _, factor := range factors {
		info, err := annotateFactor(ctx, factor)
		if err != nil {
			return nil, err
		}
		results = append(results, info)
	}
	return results, nil
}

// annotateFactor merges the active revision onto the factor and attaches
// revision metadata for responses.
func annotateFactor(ctx context.Context, factor *EmissionFactor) (*EmissionFactorInfo, error) {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&EmissionFactorRevision{}).
		Where("parent_factor_id = ?", factor.ID).Count(&count).Error; err != nil {
		return nil, err
	}

	info := EmissionFactorInfo{
		EmissionFactor: *factor,
		RevisionCount:  int(count),
	}

	active, err := activeRevision(ctx, factor.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		info.CurrentRevision = active
		info.IsUsingRevision = true
		info.FactorValue = active.FactorValue
		info.Name = active.Name
		info.Source = active.Source
		info.EffectiveDate = active.EffectiveDate
	}
	return &info, nil
}

// DeleteEmissionFactor removes a factor and all of its revisions.
// Factors referenced by measurements cannot be deleted.
func DeleteEmissionFactor(ctx context.Context, id int) (*EmissionFactor, error) {

	factor, err := utils.FetchSingleModel[EmissionFactor](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Measurement](ctx, "emission_factor_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ErrorInvalidState
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_factor_id = ?", id).
			Delete(&EmissionFactorRevision{}).Error; err != nil {
			return err
		}
		return tx.Delete(&factor).Error
	})
	if err != nil {
		return nil, err
	}
	return factor, nil
}

func GetEmissionFactorCategories(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var categories []string
	err := db.WithContext(ctx).Model(&EmissionFactor{}).
		Distinct("category").Order("category").Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func GetEmissionFactorSubCategories(ctx context.Context, category *string) ([]string, error) {
	db := config.GetDB()
	var subCategories []string
	dbCtx := db.WithContext(ctx).Model(&EmissionFactor{}).
		Where("sub_category <> ''")
	if category != nil && *category != "" {
		dbCtx = dbCtx.Where("category = ?", *category)
	}
	err := dbCtx.Distinct("sub_category").Order("sub_category").
		Pluck("sub_category", &subCategories).Error
	if err != nil {
		return nil, err
	}
	return subCategories, nil
}
