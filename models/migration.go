package models

import (
	"context"
	"log"

	"bitbucket.org/mmdatafocus/esg_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&EmissionFactor{}, &EmissionFactorRevision{},
		&Measurement{},
		&Supplier{}, &SupplierESGStandard{},
		&ESGTarget{},
		&Asset{}, &AssetComparison{}, &AssetComparisonProposal{},
		&Project{}, &ProjectActivity{},
		&Company{},
		&Role{}, &User{}, &APIKey{},
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := SeedSystemRoles(context.Background()); err != nil {
		log.Fatal(err)
	}
}
