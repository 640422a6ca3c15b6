package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"gorm.io/gorm"
)

type Project struct {
	ID                        int                `gorm:"primary_key" json:"id"`
	Name                      string             `gorm:"size:200;not null" json:"name" binding:"required"`
	Description               string             `json:"description"`
	Year                      int                `gorm:"not null;index" json:"year" binding:"required"`
	StartDate                 DateString         `gorm:"not null" json:"start_date" binding:"required"`
	EndDate                   DateString         `gorm:"not null" json:"end_date" binding:"required"`
	Status                    ProjectStatus      `gorm:"size:50;default:active" json:"status"`
	TargetReductionPercentage *float64           `json:"target_reduction_percentage"`
	TargetReductionAbsolute   *float64           `json:"target_reduction_absolute"`
	TargetReductionUnit       string             `gorm:"size:50" json:"target_reduction_unit"`
	BaselineValue             *float64           `json:"baseline_value"`
	BaselineYear              *int               `json:"baseline_year"`
	Activities                []*ProjectActivity `gorm:"foreignKey:ProjectId" json:"activities"`
	CreatedAt                 time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProject struct {
	Name                      string        `json:"name" binding:"required"`
	Description               string        `json:"description"`
	Year                      int           `json:"year" binding:"required"`
	StartDate                 DateString    `json:"start_date" binding:"required"`
	EndDate                   DateString    `json:"end_date" binding:"required"`
	Status                    ProjectStatus `json:"status"`
	TargetReductionPercentage *float64      `json:"target_reduction_percentage"`
	TargetReductionAbsolute   *float64      `json:"target_reduction_absolute"`
	TargetReductionUnit       string        `json:"target_reduction_unit"`
	BaselineValue             *float64      `json:"baseline_value"`
	BaselineYear              *int          `json:"baseline_year"`
}

type ProjectActivity struct {
	ID                   int            `gorm:"primary_key" json:"id"`
	ProjectId            int            `gorm:"not null;index" json:"project_id"`
	Description          string         `gorm:"not null" json:"description" binding:"required"`
	DueDate              *DateString    `json:"due_date"`
	Status               ActivityStatus `gorm:"size:50;default:pending" json:"status"`
	MeasurementId        *int           `json:"measurement_id"`
	StartDate            *DateString    `json:"start_date"`
	EndDate              *DateString    `json:"end_date"`
	CompletionPercentage float64        `gorm:"default:0" json:"completion_percentage"`
	EstimatedHours       *float64       `json:"estimated_hours"`
	ActualHours          *float64       `json:"actual_hours"`
	DependsOn            IntArray       `gorm:"type:text" json:"depends_on"`
	Blocks               IntArray       `gorm:"type:text" json:"blocks"`
	RiskLevel            RiskLevel      `gorm:"size:20;default:low" json:"risk_level"`
	BudgetAllocated      *float64       `json:"budget_allocated"`
	BudgetSpent          float64        `gorm:"default:0" json:"budget_spent"`
	EmissionCategories   StringArray    `gorm:"type:text" json:"emission_categories"`
	MeasurementIds       IntArray       `gorm:"type:text" json:"measurement_ids"`
	Priority             PriorityLevel  `gorm:"size:20;default:medium" json:"priority"`
	AssignedTo           string         `gorm:"size:100" json:"assigned_to"`
	Notes                string         `json:"notes"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProjectActivity struct {
	Description          string         `json:"description" binding:"required"`
	DueDate              *DateString    `json:"due_date"`
	Status               ActivityStatus `json:"status"`
	MeasurementId        *int           `json:"measurement_id"`
	StartDate            *DateString    `json:"start_date"`
	EndDate              *DateString    `json:"end_date"`
	CompletionPercentage float64        `json:"completion_percentage"`
	EstimatedHours       *float64       `json:"estimated_hours"`
	ActualHours          *float64       `json:"actual_hours"`
	DependsOn            IntArray       `json:"depends_on"`
	Blocks               IntArray       `json:"blocks"`
	RiskLevel            RiskLevel      `json:"risk_level"`
	BudgetAllocated      *float64       `json:"budget_allocated"`
	BudgetSpent          float64        `json:"budget_spent"`
	EmissionCategories   StringArray    `json:"emission_categories"`
	MeasurementIds       IntArray       `json:"measurement_ids"`
	Priority             PriorityLevel  `json:"priority"`
	AssignedTo           string         `json:"assigned_to"`
	Notes                string         `json:"notes"`
}

func CreateProject(ctx context.Context, input *NewProject) (*Project, error) {

	if input.EndDate.Time().Before(input.StartDate.Time()) {
		return nil, errors.New("end_date must not be before start_date")
	}

	status := input.Status
	if status == "" {
		status = ProjectStatusActive
	}

	project := Project{
		Name:                      input.Name,
		Description:               input.Description,
		Year:                      input.Year,
		StartDate:                 input.StartDate,
		EndDate:                   input.EndDate,
		Status:                    status,
		TargetReductionPercentage: input.TargetReductionPercentage,
		TargetReductionAbsolute:   input.TargetReductionAbsolute,
		TargetReductionUnit:       input.TargetReductionUnit,
		BaselineValue:             input.BaselineValue,
		BaselineYear:              input.BaselineYear,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func UpdateProject(ctx context.Context, id int, input *NewProject) (*Project, error) {

	project, err := utils.FetchSingleModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.EndDate.Time().Before(input.StartDate.Time()) {
		return nil, errors.New("end_date must not be before start_date")
	}

	status := input.Status
	if status == "" {
		status = project.Status
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&project).Updates(map[string]interface{}{
		"name":                        input.Name,
		"description":                 input.Description,
		"year":                        input.Year,
		"start_date":                  input.StartDate,
		"end_date":                    input.EndDate,
		"status":                      status,
		"target_reduction_percentage": input.TargetReductionPercentage,
		"target_reduction_absolute":   input.TargetReductionAbsolute,
		"target_reduction_unit":       input.TargetReductionUnit,
		"baseline_value":              input.BaselineValue,
		"baseline_year":               input.BaselineYear,
	}).Error
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project with all of its activities.
func DeleteProject(ctx context.Context, id int) (*Project, error) {

	project, err := utils.FetchSingleModel[Project](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).
			Delete(&ProjectActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func GetProject(ctx context.Context, id int) (*Project, error) {
	return utils.FetchSingleModel[Project](ctx, id, "Activities")
}

func GetProjects(ctx context.Context, year *int, status *ProjectStatus) ([]*Project, error) {

	db := config.GetDB()
	var results []*Project

	dbCtx := db.WithContext(ctx).Preload("Activities")
	if year != nil && *year > 0 {
		dbCtx = dbCtx.Where("year = ?", *year)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if err := dbCtx.Order("year DESC, name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (input *NewProjectActivity) validate(ctx context.Context) error {
	if input.CompletionPercentage < 0 || input.CompletionPercentage > 100 {
		return errors.New("completion_percentage must be between 0 and 100")
	}
	if input.MeasurementId != nil {
		if err := utils.ValidateResourceId[Measurement](ctx, *input.MeasurementId); err != nil {
			return err
		}
	}
	if len(input.MeasurementIds) > 0 {
		if err := utils.ValidateResourcesId[Measurement, int](ctx, input.MeasurementIds); err != nil {
			return err
		}
	}
	return nil
}

func CreateProjectActivity(ctx context.Context, projectId int, input *NewProjectActivity) (*ProjectActivity, error) {

	if err := utils.ValidateResourceId[Project](ctx, projectId); err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = ActivityStatusPending
	}
	risk := input.RiskLevel
	if risk == "" {
		risk = RiskLevelLow
	}
	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	activity := ProjectActivity{
		ProjectId:            projectId,
		Description:          input.Description,
		DueDate:              input.DueDate,
		Status:               status,
		MeasurementId:        input.MeasurementId,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		CompletionPercentage: input.CompletionPercentage,
		EstimatedHours:       input.EstimatedHours,
		ActualHours:          input.ActualHours,
		DependsOn:            input.DependsOn,
		Blocks:               input.Blocks,
		RiskLevel:            risk,
		BudgetAllocated:      input.BudgetAllocated,
		BudgetSpent:          input.BudgetSpent,
		EmissionCategories:   input.EmissionCategories,
		MeasurementIds:       input.MeasurementIds,
		Priority:             priority,
		AssignedTo:           input.AssignedTo,
		Notes:                input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func UpdateProjectActivity(ctx context.Context, id int, input *NewProjectActivity) (*ProjectActivity, error) {

	activity, err := utils.FetchSingleModel[ProjectActivity](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = activity.Status
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&activity).Updates(map[string]interface{}{
		"description":           input.Description,
		"due_date":              input.DueDate,
		"status":                status,
		"measurement_id":        input.MeasurementId,
		"start_date":            input.StartDate,
		"end_date":              input.EndDate,
		"completion_percentage": input.CompletionPercentage,
		"estimated_hours":       input.EstimatedHours,
		"actual_hours":          input.ActualHours,
		"depends_on":            input.DependsOn,
		"blocks":                input.Blocks,
		"risk_level":            input.RiskLevel,
		"budget_allocated":      input.BudgetAllocated,
		"budget_spent":          input.BudgetSpent,
		"emission_categories":   input.EmissionCategories,
		"measurement_ids":       input.MeasurementIds,
		"priority":              input.Priority,
		"assigned_to":           input.AssignedTo,
		"notes":                 input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func DeleteProjectActivity(ctx context.Context, id int) (*ProjectActivity, error) {

	activity, err := utils.FetchSingleModel[ProjectActivity](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func GetProjectActivities(ctx context.Context, projectId int) ([]*ProjectActivity, error) {

	if err := utils.ValidateResourceId[Project](ctx, projectId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*ProjectActivity
	err := db.WithContext(ctx).Where("project_id = ?", projectId).
		Order("due_date, id").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

type ProjectStatistics struct {
	TotalProjects       int            `json:"total_projects"`
	ByStatus            map[string]int `json:"by_status"`
	TotalActivities     int            `json:"total_activities"`
	CompletedActivities int            `json:"completed_activities"`
	AverageCompletion   float64        `json:"average_completion"`
	TotalBudget         float64        `json:"total_budget"`
	TotalSpent          float64        `json:"total_spent"`
}

func GetProjectStatistics(ctx context.Context, year *int) (*ProjectStatistics, error) {

	projects, err := GetProjects(ctx, year, nil)
	if err != nil {
		return nil, err
	}

	stats := ProjectStatistics{
		TotalProjects: len(projects),
		ByStatus:      make(map[string]int),
	}
	var completionSum float64
	for _, p := range projects {
		stats.ByStatus[string(p.Status)]++
		for _, a := range p.Activities {
			stats.TotalActivities++
			completionSum += a.CompletionPercentage
			if a.Status == ActivityStatusCompleted {
				stats.CompletedActivities++
			}
			if a.BudgetAllocated != nil {
				stats.TotalBudget += *a.BudgetAllocated
			}
			stats.TotalSpent += a.BudgetSpent
		}
	}
	if stats.TotalActivities > 0 {
		stats.AverageCompletion = utils.Round2(completionSum / float64(stats.TotalActivities))
	}
	stats.TotalBudget = utils.Round2(stats.TotalBudget)
	stats.TotalSpent = utils.Round2(stats.TotalSpent)
	return &stats, nil
}

// BulkUpdateProjectStatus moves several projects to one status in a single
// transaction.
func BulkUpdateProjectStatus(ctx context.Context, ids []int, status ProjectStatus) (int, error) {

	if len(ids) == 0 {
		return 0, errors.New("no project ids given")
	}
	if err := utils.ValidateResourcesId[Project, int](ctx, ids); err != nil {
		return 0, err
	}

	db := config.GetDB()
	res := db.WithContext(ctx).Model(&Project{}).
		Where("id IN ?", utils.UniqueSlice(ids)).
		Update("status", status)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// GetProjectEmissionCategories lists the distinct measurement categories
// available for linking to activities.
func GetProjectEmissionCategories(ctx context.Context) ([]string, error) {
	return GetEmissionFactorCategories(ctx)
}
