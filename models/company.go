package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

// Company is a singleton: one profile row per deployment, created with
// defaults on first read.
type Company struct {
	ID                  int         `gorm:"primary_key" json:"id"`
	Name                string      `gorm:"size:200;not null" json:"name"`
	LegalName           string      `gorm:"size:200;not null" json:"legal_name"`
	Industry            string      `gorm:"size:100" json:"industry"`
	Description         string      `json:"description"`
	Website             string      `gorm:"size:200" json:"website"`
	Email               string      `gorm:"size:200" json:"email"`
	Phone               string      `gorm:"size:50" json:"phone"`
	AddressLine1        string      `gorm:"size:200" json:"address_line1"`
	AddressLine2        string      `gorm:"size:200" json:"address_line2"`
	City                string      `gorm:"size:100" json:"city"`
	State               string      `gorm:"size:100" json:"state"`
	PostalCode          string      `gorm:"size:20" json:"postal_code"`
	Country             string      `gorm:"size:100" json:"country"`
	TaxId               string      `gorm:"size:50" json:"tax_id"`
	RegistrationNumber  string      `gorm:"size:50" json:"registration_number"`
	ReportingYear       int         `json:"reporting_year"`
	FiscalYearStart     string      `gorm:"size:5;default:01-01" json:"fiscal_year_start"`
	FiscalYearEnd       string      `gorm:"size:5;default:12-31" json:"fiscal_year_end"`
	Currency            string      `gorm:"size:3;default:USD" json:"currency"`
	Timezone            string      `gorm:"size:50;default:UTC" json:"timezone"`
	ReportingFrameworks StringArray `gorm:"type:text" json:"reporting_frameworks"`
	MaterialityTopics   StringArray `gorm:"type:text" json:"materiality_topics"`
	LogoUrl             string      `gorm:"size:500" json:"logo_url"`
	PrimaryColor        string      `gorm:"size:7;default:#10b981" json:"primary_color"`
	SecondaryColor      string      `gorm:"size:7;default:#3b82f6" json:"secondary_color"`
	CreatedAt           time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name                string      `json:"name" binding:"required"`
	LegalName           string      `json:"legal_name"`
	Industry            string      `json:"industry"`
	Description         string      `json:"description"`
	Website             string      `json:"website"`
	Email               string      `json:"email"`
	Phone               string      `json:"phone"`
	AddressLine1        string      `json:"address_line1"`
	AddressLine2        string      `json:"address_line2"`
	City                string      `json:"city"`
	State               string      `json:"state"`
	PostalCode          string      `json:"postal_code"`
	Country             string      `json:"country"`
	TaxId               string      `json:"tax_id"`
	RegistrationNumber  string      `json:"registration_number"`
	ReportingYear       int         `json:"reporting_year"`
	FiscalYearStart     string      `json:"fiscal_year_start"`
	FiscalYearEnd       string      `json:"fiscal_year_end"`
	Currency            string      `json:"currency"`
	Timezone            string      `json:"timezone"`
	ReportingFrameworks StringArray `json:"reporting_frameworks"`
	MaterialityTopics   StringArray `json:"materiality_topics"`
	LogoUrl             string      `json:"logo_url"`
	PrimaryColor        string      `json:"primary_color"`
	SecondaryColor      string      `json:"secondary_color"`
}

// GetCompany returns the singleton profile, creating a default row when
// none exists yet.
func GetCompany(ctx context.Context) (*Company, error) {

	db := config.GetDB()
	var company Company
	err := db.WithContext(ctx).Order("id").First(&company).Error
	if err == nil {
		return &company, nil
	}

	company = Company{
		Name:            "My Company",
		LegalName:       "My Company",
		ReportingYear:   time.Now().Year(),
		FiscalYearStart: "01-01",
		FiscalYearEnd:   "12-31",
		Currency:        "USD",
		Timezone:        "UTC",
		PrimaryColor:    "#10b981",
		SecondaryColor:  "#3b82f6",
	}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func UpdateCompany(ctx context.Context, input *NewCompany) (*Company, error) {

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	company, err := GetCompany(ctx)
	if err != nil {
		return nil, err
	}

	legalName := input.LegalName
	if legalName == "" {
		legalName = input.Name
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&company).Updates(map[string]interface{}{
		"name":                 input.Name,
		"legal_name":           legalName,
		"industry":             input.Industry,
		"description":          input.Description,
		"website":              input.Website,
		"email":                input.Email,
		"phone":                input.Phone,
		"address_line1":        input.AddressLine1,
		"address_line2":        input.AddressLine2,
		"city":                 input.City,
		"state":                input.State,
		"postal_code":          input.PostalCode,
		"country":              input.Country,
		"tax_id":               input.TaxId,
		"registration_number":  input.RegistrationNumber,
		"reporting_year":       input.ReportingYear,
		"fiscal_year_start":    input.FiscalYearStart,
		"fiscal_year_end":      input.FiscalYearEnd,
		"currency":             input.Currency,
		"timezone":             input.Timezone,
		"reporting_frameworks": input.ReportingFrameworks,
		"materiality_topics":   input.MaterialityTopics,
		"logo_url":             input.LogoUrl,
		"primary_color":        input.PrimaryColor,
		"secondary_color":      input.SecondaryColor,
	}).Error
	if err != nil {
		return nil, err
	}
	return company, nil
}

type CompanyStats struct {
	Users           int64 `json:"users"`
	Measurements    int64 `json:"measurements"`
	EmissionFactors int64 `json:"emission_factors"`
	Suppliers       int64 `json:"suppliers"`
	Targets         int64 `json:"targets"`
	Projects        int64 `json:"projects"`
	Assets          int64 `json:"assets"`
}

func GetCompanyStats(ctx context.Context) (*CompanyStats, error) {

	db := config.GetDB()
	var stats CompanyStats

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&User{}, &stats.Users},
		{&Measurement{}, &stats.Measurements},
		{&EmissionFactor{}, &stats.EmissionFactors},
		{&Supplier{}, &stats.Suppliers},
		{&ESGTarget{}, &stats.Targets},
		{&Project{}, &stats.Projects},
		{&Asset{}, &stats.Assets},
	}
	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &stats, nil
}
