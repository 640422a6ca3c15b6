package models_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

// setupTestDB points the config at a throwaway sqlite file, runs migrations
// and returns a context carrying a test identity.
func setupTestDB(t *testing.T) context.Context {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "esg_test.db"))

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	ctx := utils.SetUserIdInContext(context.Background(), 1)
	ctx = utils.SetUsernameInContext(ctx, "test")
	return ctx
}

func date(year int, month time.Month, day int) models.DateString {
	return models.DateString(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func createTestFactor(t *testing.T, ctx context.Context, value float64) *models.EmissionFactor {
	t.Helper()
	factor, err := models.CreateEmissionFactor(ctx, &models.NewEmissionFactor{
		Name:          "Grid Electricity",
		Scope:         2,
		Category:      "Electricity",
		SubCategory:   "Grid",
		FactorValue:   value,
		Unit:          "kgCO2e/kWh",
		Source:        "DEFRA",
		EffectiveDate: date(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("CreateEmissionFactor: %v", err)
	}
	return factor
}

func createTestRevision(t *testing.T, ctx context.Context, factorId int, value float64) *models.EmissionFactorRevision {
	t.Helper()
	revision, err := models.CreateEmissionFactorRevision(ctx, factorId, &models.NewEmissionFactorRevision{
		Name:          "Grid Electricity",
		Scope:         2,
		Category:      "Electricity",
		SubCategory:   "Grid",
		FactorValue:   value,
		Unit:          "kgCO2e/kWh",
		Source:        "DEFRA",
		EffectiveDate: date(2025, time.January, 1),
		RevisionNotes: "annual factor update",
	})
	if err != nil {
		t.Fatalf("CreateEmissionFactorRevision: %v", err)
	}
	return revision
}
