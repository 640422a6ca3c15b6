package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

type ESGTarget struct {
	ID                 int          `gorm:"primary_key" json:"id"`
	Name               string       `gorm:"size:200;not null" json:"name" binding:"required"`
	Description        string       `json:"description"`
	TargetType         string       `gorm:"size:50;not null" json:"target_type" binding:"required"`
	Scope              *int         `json:"scope"`
	BaselineValue      float64      `gorm:"not null" json:"baseline_value"`
	BaselineYear       int          `gorm:"not null" json:"baseline_year" binding:"required"`
	TargetValue        float64      `gorm:"not null" json:"target_value"`
	TargetYear         int          `gorm:"not null" json:"target_year" binding:"required"`
	Unit               string       `gorm:"size:50;not null" json:"unit" binding:"required"`
	CurrentValue       *float64     `json:"current_value"`
	ProgressPercentage float64      `gorm:"default:0" json:"progress_percentage"`
	Status             TargetStatus `gorm:"size:20;default:active" json:"status"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewESGTarget struct {
	Name               string       `json:"name" binding:"required"`
	Description        string       `json:"description"`
	TargetType         string       `json:"target_type" binding:"required"`
	Scope              *int         `json:"scope"`
	BaselineValue      float64      `json:"baseline_value"`
	BaselineYear       int          `json:"baseline_year" binding:"required"`
	TargetValue        float64      `json:"target_value"`
	TargetYear         int          `json:"target_year" binding:"required"`
	Unit               string       `json:"unit" binding:"required"`
	CurrentValue       *float64     `json:"current_value"`
	ProgressPercentage float64      `json:"progress_percentage"`
	Status             TargetStatus `json:"status"`
}

func (input *NewESGTarget) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[ESGTarget](ctx, id); err != nil {
			return err
		}
	}
	if input.ProgressPercentage < 0 || input.ProgressPercentage > 100 {
		return errors.New("progress_percentage must be between 0 and 100")
	}
	if input.Scope != nil && (*input.Scope < 1 || *input.Scope > 3) {
		return errors.New("scope must be 1, 2 or 3")
	}
	return nil
}

func CreateESGTarget(ctx context.Context, input *NewESGTarget) (*ESGTarget, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = TargetStatusActive
	}

	target := ESGTarget{
		Name:               input.Name,
		Description:        input.Description,
		TargetType:         input.TargetType,
		Scope:              input.Scope,
		BaselineValue:      input.BaselineValue,
		BaselineYear:       input.BaselineYear,
		TargetValue:        input.TargetValue,
		TargetYear:         input.TargetYear,
		Unit:               input.Unit,
		CurrentValue:       input.CurrentValue,
		ProgressPercentage: input.ProgressPercentage,
		Status:             status,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&target).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

func UpdateESGTarget(ctx context.Context, id int, input *NewESGTarget) (*ESGTarget, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	target, err := utils.FetchSingleModel[ESGTarget](ctx, id)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = target.Status
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&target).Updates(map[string]interface{}{
		"name":                input.Name,
		"description":         input.Description,
		"target_type":         input.TargetType,
		"scope":               input.Scope,
		"baseline_value":      input.BaselineValue,
		"baseline_year":       input.BaselineYear,
		"target_value":        input.TargetValue,
		"target_year":         input.TargetYear,
		"unit":                input.Unit,
		"current_value":       input.CurrentValue,
		"progress_percentage": input.ProgressPercentage,
		"status":              status,
	}).Error
	if err != nil {
		return nil, err
	}
	return target, nil
}

func DeleteESGTarget(ctx context.Context, id int) (*ESGTarget, error) {

	target, err := utils.FetchSingleModel[ESGTarget](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&target).Error; err != nil {
		return nil, err
	}
	return target, nil
}

func GetESGTarget(ctx context.Context, id int) (*ESGTarget, error) {
	return utils.FetchSingleModel[ESGTarget](ctx, id)
}

func GetESGTargets(ctx context.Context, status *TargetStatus) ([]*ESGTarget, error) {

	db := config.GetDB()
	var results []*ESGTarget

	dbCtx := db.WithContext(ctx)
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("target_year, name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type TargetStats struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	Achieved        int     `json:"achieved"`
	AtRisk          int     `json:"at_risk"`
	Missed          int     `json:"missed"`
	AverageProgress float64 `json:"average_progress"`
}

// GetTargetStats aggregates counts by status and the average progress of
// active targets.
func GetTargetStats(ctx context.Context) (*TargetStats, error) {

	targets, err := GetESGTargets(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := TargetStats{Total: len(targets)}
	var activeProgress float64
	for _, t := range targets {
		switch t.Status {
		case TargetStatusActive:
			stats.Active++
			activeProgress += t.ProgressPercentage
		case TargetStatusAchieved:
			stats.Achieved++
		case TargetStatusAtRisk:
			stats.AtRisk++
		case TargetStatusMissed:
			stats.Missed++
		}
	}
	if stats.Active > 0 {
		stats.AverageProgress = utils.Round2(activeProgress / float64(stats.Active))
	}
	return &stats, nil
}
