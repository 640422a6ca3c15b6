package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmissionFactorRevision struct {
	ID             int        `gorm:"primary_key" json:"id"`
	ParentFactorId int        `gorm:"not null;index" json:"parent_factor_id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Scope          int        `gorm:"not null" json:"scope"`
	Category       string     `gorm:"size:100;not null" json:"category"`
	SubCategory    string     `gorm:"size:100" json:"sub_category"`
	FactorValue    float64    `gorm:"not null" json:"factor_value"`
	Unit           string     `gorm:"size:50;not null" json:"unit"`
	Source         string     `gorm:"size:255;not null" json:"source"`
	EffectiveDate  DateString `gorm:"not null" json:"effective_date"`
	Description    string     `json:"description"`
	Link           string     `json:"link"`
	RevisionNotes  string     `gorm:"not null" json:"revision_notes"`
	Version        int        `gorm:"not null" json:"version"`
	IsActive       *bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedBy      string     `gorm:"size:100" json:"created_by"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type NewEmissionFactorRevision struct {
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
	RevisionNotes string     `json:"revision_notes" binding:"required"`
}

// activeRevision returns the active revision of a factor, or nil when the
// factor has none. Should more than one row be active (left behind by a
// failed activation), the highest version wins and a warning is logged so
// the inconsistency is visible.
func activeRevision(ctx context.Context, factorId int) (*EmissionFactorRevision, error) {
	db := config.GetDB()
	var revisions []*EmissionFactorRevision
	err := db.WithContext(ctx).
		Where("parent_factor_id = ? AND is_active = ?", factorId, true).
		Order("version DESC").
		Find(&revisions).Error
	if err != nil {
		return nil, err
	}
	if len(revisions) == 0 {
		return nil, nil
	}
	if len(revisions) > 1 {
		config.GetLogger().WithFields(logrus.Fields{
			"module":         "EmissionFactorRevision",
			"factor_id":      factorId,
			"active_count":   len(revisions),
			"chosen_version": revisions[0].Version,
		}).Warn("multiple active revisions found, using highest version")
	}
	return revisions[0], nil
}

// ResolveActiveFactorValue returns the factor value every emission
// calculation must use: the active revision's value when one exists,
// otherwise the base factor's value. Pure lookup, no side effects.
func ResolveActiveFactorValue(ctx context.Context, factorId int) (float64, error) {

	active, err := activeRevision(ctx, factorId)
	if err != nil {
		return 0, err
	}
	if active != nil {
		return active.FactorValue, nil
	}

	factor, err := utils.FetchSingleModel[EmissionFactor](ctx, factorId)
	if err != nil {
		return 0, err
	}
	return factor.FactorValue, nil
}

func CreateEmissionFactorRevision(ctx context.Context, factorId int, input *NewEmissionFactorRevision) (*EmissionFactorRevision, error) {

	if err := utils.ValidateResourceId[EmissionFactor](ctx, factorId); err != nil {
		return nil, err
	}

	db := config.GetDB()

	// next version is max(version)+1 within the factor's revision set
	var maxVersion int
	if err := db.WithContext(ctx).Model(&EmissionFactorRevision{}).
		Where("parent_factor_id = ?", factorId).
		Select("COALESCE(MAX(version), 0)").Scan(&maxVersion).Error; err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUsernameFromContext(ctx)

	revision := EmissionFactorRevision{
		ParentFactorId: factorId,
		Name:           input.Name,
		Scope:          input.Scope,
		Category:       input.Category,
		SubCategory:    input.SubCategory,
		FactorValue:    input.FactorValue,
		Unit:           input.Unit,
		Source:         input.Source,
		EffectiveDate:  input.EffectiveDate,
		Description:    input.Description,
		Link:           input.Link,
		RevisionNotes:  input.RevisionNotes,
		Version:        maxVersion + 1,
		IsActive:       utils.NewFalse(),
		CreatedBy:      createdBy,
	}

	if err := db.WithContext(ctx).Create(&revision).Error; err != nil {
		return nil, err
	}
	return &revision, nil
}

// ActivateEmissionFactorRevision makes a revision the single active one for
// its factor and mirrors its snapshot onto the parent factor row, all in one
// transaction. Measurements are NOT recalculated here; run
// RecalculateAllEmissions separately.
//
// Two concurrent activations of sibling revisions are last-writer-wins:
// both transactions deactivate siblings and the later commit determines the
// parent's mirrored values.
func ActivateEmissionFactorRevision(ctx context.Context, revisionId int) (*EmissionFactorRevision, error) {

	revision, err := utils.FetchSingleModel[EmissionFactorRevision](ctx, revisionId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// deactivate every sibling first so at most one row ends up active
		if err := tx.Model(&EmissionFactorRevision{}).
			Where("parent_factor_id = ?", revision.ParentFactorId).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&EmissionFactorRevision{}).
			Where("id = ?", revision.ID).
			Update("is_active", true).Error; err != nil {
			return err
		}

		// mirror the snapshot onto the parent so cached readers see it
		return tx.Model(&EmissionFactor{}).Where("id = ?", revision.ParentFactorId).
			Updates(map[string]interface{}{
				"name":           revision.Name,
				"scope":          revision.Scope,
				"category":       revision.Category,
				"sub_category":   revision.SubCategory,
				"factor_value":   revision.FactorValue,
				"unit":           revision.Unit,
				"source":         revision.Source,
				"effective_date": revision.EffectiveDate,
				"description":    revision.Description,
				"link":           revision.Link,
				"updated_at":     time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	revision.IsActive = utils.NewTrue()
	return revision, nil
}

// DeleteEmissionFactorRevision hard-deletes a revision. The active revision
// and the sole remaining revision of a factor are protected.
func DeleteEmissionFactorRevision(ctx context.Context, revisionId int) (*EmissionFactorRevision, error) {

	revision, err := utils.FetchSingleModel[EmissionFactorRevision](ctx, revisionId)
	if err != nil {
		return nil, err
	}

	if revision.IsActive != nil && *revision.IsActive {
		return nil, utils.ErrorInvalidState
	}

	count, err := utils.ResourceCountWhere[EmissionFactorRevision](ctx,
		"parent_factor_id = ?", revision.ParentFactorId)
	if err != nil {
		return nil, err
	}
	if count <= 1 {
		return nil, utils.ErrorInvalidState
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&revision).Error; err != nil {
		return nil, err
	}
	return revision, nil
}

// GetRevisionHistory returns all revisions of a factor, newest version first.
func GetRevisionHistory(ctx context.Context, factorId int) ([]*EmissionFactorRevision, error) {

	if err := utils.ValidateResourceId[EmissionFactor](ctx, factorId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var revisions []*EmissionFactorRevision
	err := db.WithContext(ctx).
		Where("parent_factor_id = ?", factorId).
		Order("version DESC").
		Find(&revisions).Error
	if err != nil {
		return nil, err
	}
	return revisions, nil
}

func GetEmissionFactorRevision(ctx context.Context, revisionId int) (*EmissionFactorRevision, error) {
	return utils.FetchSingleModel[EmissionFactorRevision](ctx, revisionId)
}
