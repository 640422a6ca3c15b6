package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"gorm.io/gorm"
)

type Supplier struct {
	ID               int            `gorm:"primary_key" json:"id"`
	CompanyName      string         `gorm:"size:200;not null" json:"company_name" binding:"required"`
	Industry         string         `gorm:"size:100" json:"industry"`
	ContactPerson    string         `gorm:"size:200" json:"contact_person"`
	Email            string         `gorm:"size:200" json:"email"`
	Phone            string         `gorm:"size:50" json:"phone"`
	EsgRating        string         `gorm:"size:10" json:"esg_rating"`
	DataCompleteness float64        `gorm:"default:0" json:"data_completeness"`
	LastUpdated      *DateString    `json:"last_updated"`
	Status           SupplierStatus `gorm:"size:50;default:pending" json:"status"`
	PriorityLevel    PriorityLevel  `gorm:"size:20;default:medium" json:"priority_level"`
	Scope3Categories StringArray    `gorm:"type:text" json:"scope3_categories"`
	AnnualSpend      float64        `gorm:"default:0" json:"annual_spend"`
	Notes            string         `json:"notes"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	CompanyName      string         `json:"company_name" binding:"required"`
	Industry         string         `json:"industry"`
	ContactPerson    string         `json:"contact_person"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	EsgRating        string         `json:"esg_rating"`
	DataCompleteness float64        `json:"data_completeness"`
	LastUpdated      *DateString    `json:"last_updated"`
	Status           SupplierStatus `json:"status"`
	PriorityLevel    PriorityLevel  `json:"priority_level"`
	Scope3Categories StringArray    `json:"scope3_categories"`
	AnnualSpend      float64        `json:"annual_spend"`
	Notes            string         `json:"notes"`
}

func (input *NewSupplier) validate(ctx context.Context, id int) error {
	if id > 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, id); err != nil {
			return err
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.DataCompleteness < 0 || input.DataCompleteness > 100 {
		return errors.New("data_completeness must be between 0 and 100")
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {

	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
		CompanyName:      input.CompanyName,
		Industry:         input.Industry,
		ContactPerson:    input.ContactPerson,
		Email:            input.Email,
		Phone:            input.Phone,
		EsgRating:        input.EsgRating,
		DataCompleteness: input.DataCompleteness,
		LastUpdated:      input.LastUpdated,
		Status:           defaultIfEmptySupplierStatus(input.Status),
		PriorityLevel:    defaultIfEmptyPriority(input.PriorityLevel),
		Scope3Categories: input.Scope3Categories,
		AnnualSpend:      input.AnnualSpend,
		Notes:            input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func defaultIfEmptySupplierStatus(s SupplierStatus) SupplierStatus {
	if s == "" {
		return SupplierStatusPending
	}
	return s
}

func defaultIfEmptyPriority(p PriorityLevel) PriorityLevel {
	if p == "" {
		return PriorityMedium
	}
	return p
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {

	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchSingleModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&supplier).Updates(map[string]interface{}{
		"company_name":      input.CompanyName,
		"industry":          input.Industry,
		"contact_person":    input.ContactPerson,
		"email":             input.Email,
		"phone":             input.Phone,
		"esg_rating":        input.EsgRating,
		"data_completeness": input.DataCompleteness,
		"last_updated":      input.LastUpdated,
		"status":            defaultIfEmptySupplierStatus(input.Status),
		"priority_level":    defaultIfEmptyPriority(input.PriorityLevel),
		"scope3_categories": input.Scope3Categories,
		"annual_spend":      input.AnnualSpend,
		"notes":             input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier and its ESG standard records.
func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {

	supplier, err := utils.FetchSingleModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("supplier_id = ?", id).
			Delete(&SupplierESGStandard{}).Error; err != nil {
			return err
		}
		return tx.Delete(&supplier).Error
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchSingleModel[Supplier](ctx, id)
}

func GetSuppliers(ctx context.Context, status *SupplierStatus, priority *PriorityLevel) ([]*Supplier, error) {

	db := config.GetDB()
	var results []*Supplier

	dbCtx := db.WithContext(ctx)
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", *status)
	}
	if priority != nil && *priority != "" {
		dbCtx = dbCtx.Where("priority_level = ?", *priority)
	}
	if err := dbCtx.Order("company_name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type SupplierESGStandard struct {
	ID             int          `gorm:"primary_key" json:"id"`
	SupplierId     int          `gorm:"not null;index" json:"supplier_id"`
	StandardType   StandardType `gorm:"size:50;not null" json:"standard_type" binding:"required"`
	Name           string       `gorm:"size:100;not null" json:"name" binding:"required"`
	SubmissionYear int          `json:"submission_year"`
	DocumentLink   string       `gorm:"size:500" json:"document_link"`
	Status         string       `gorm:"size:50;default:active" json:"status"`
	ScoreRating    string       `gorm:"size:20" json:"score_rating"`
	Notes          string       `json:"notes"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplierESGStandard struct {
	StandardType   StandardType `json:"standard_type" binding:"required"`
	Name           string       `json:"name" binding:"required"`
	SubmissionYear int          `json:"submission_year"`
	DocumentLink   string       `json:"document_link"`
	Status         string       `json:"status"`
	ScoreRating    string       `json:"score_rating"`
	Notes          string       `json:"notes"`
}

func CreateSupplierESGStandard(ctx context.Context, supplierId int, input *NewSupplierESGStandard) (*SupplierESGStandard, error) {

	if err := utils.ValidateResourceId[Supplier](ctx, supplierId); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = "active"
	}

	standard := SupplierESGStandard{
		SupplierId:     supplierId,
		StandardType:   input.StandardType,
		Name:           input.Name,
		SubmissionYear: input.SubmissionYear,
		DocumentLink:   input.DocumentLink,
		Status:         status,
		ScoreRating:    input.ScoreRating,
		Notes:          input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&standard).Error; err != nil {
		return nil, err
	}
	return &standard, nil
}

func UpdateSupplierESGStandard(ctx context.Context, id int, input *NewSupplierESGStandard) (*SupplierESGStandard, error) {

	standard, err := utils.FetchSingleModel[SupplierESGStandard](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&standard).Updates(map[string]interface{}{
		"standard_type":   input.StandardType,
		"name":            input.Name,
		"submission_year": input.SubmissionYear,
		"document_link":   input.DocumentLink,
		"status":          input.Status,
		"score_rating":    input.ScoreRating,
		"notes":           input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return standard, nil
}

func DeleteSupplierESGStandard(ctx context.Context, id int) (*SupplierESGStandard, error) {

	standard, err := utils.FetchSingleModel[SupplierESGStandard](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&standard).Error; err != nil {
		return nil, err
	}
	return standard, nil
}

func GetSupplierESGStandards(ctx context.Context, supplierId int) ([]*SupplierESGStandard, error) {

	if err := utils.ValidateResourceId[Supplier](ctx, supplierId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*SupplierESGStandard
	err := db.WithContext(ctx).Where("supplier_id = ?", supplierId).
		Order("standard_type, name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// SupplierAssessmentRow is one line of the assessment matrix view: a
// supplier with its standards grouped by type.
type SupplierAssessmentRow struct {
	Supplier    *Supplier              `json:"supplier"`
	Standards   []*SupplierESGStandard `json:"standards"`
	Frameworks  []*SupplierESGStandard `json:"frameworks"`
	Assessments []*SupplierESGStandard `json:"assessments"`
}

func GetSupplierAssessmentMatrix(ctx context.Context) ([]*SupplierAssessmentRow, error) {

	suppliers, err := GetSuppliers(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var allStandards []*SupplierESGStandard
	if err := db.WithContext(ctx).Order("name").Find(&allStandards).Error; err != nil {
		return nil, err
	}

	bySupplier := make(map[int][]*SupplierESGStandard)
	for _, s := range allStandards {
		bySupplier[s.SupplierId] = append(bySupplier[s.SupplierId], s)
	}

	rows := make([]*SupplierAssessmentRow, 0, len(suppliers))
	for _, supplier := range suppliers {
		row := SupplierAssessmentRow{Supplier: supplier}
		for _, s := range bySupplier[supplier.ID] {
			switch s.StandardType {
			case StandardTypeStandard:
				row.Standards = append(row.Standards, s)
			case StandardTypeFramework:
				row.Frameworks = append(row.Frameworks, s)
			case StandardTypeAssessment:
				row.Assessments = append(row.Assessments, s)
			}
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// SupplierESGOptions lists the predefined standards, frameworks and
// assessments offered by the UI pickers.
type SupplierESGOptions struct {
	Standards   []string `json:"standards"`
	Frameworks  []string `json:"frameworks"`
	Assessments []string `json:"assessments"`
}

func GetSupplierESGOptions() *SupplierESGOptions {
	return &SupplierESGOptions{
		Standards:   []string{"ISO 14001", "ISO 45001", "ISO 50001", "SA8000", "B Corp"},
		Frameworks:  []string{"GRI", "SASB", "TCFD", "CDP", "UN Global Compact"},
		Assessments: []string{"EcoVadis", "CDP Climate", "CDP Water", "Sedex SMETA", "Supplier Self-Assessment"},
	}
}

type BulkAssessmentUpdate struct {
	SupplierId int    `json:"supplier_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// BulkUpdateAssessments updates the status of matching assessment records in
// a single transaction.
func BulkUpdateAssessments(ctx context.Context, updates []*BulkAssessmentUpdate) (int, error) {

	db := config.GetDB()
	var updated int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			res := tx.Model(&SupplierESGStandard{}).
				Where("supplier_id = ? AND name = ? AND standard_type = ?",
					u.SupplierId, u.Name, StandardTypeAssessment).
				Update("status", u.Status)
			if res.Error != nil {
				return res.Error
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
