package models_test

import (
	"context"
	"math"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func createTestMeasurement(t *testing.T, ctx context.Context, factorId int, amount float64) *models.Measurement {
	t.Helper()
	measurement, err := models.CreateMeasurement(ctx, &models.NewMeasurement{
		Date:             date(2025, time.March, 15),
		Location:         "HQ",
		Category:         "Electricity",
		SubCategory:      "Grid",
		Amount:           amount,
		Unit:             "kWh",
		EmissionFactorId: factorId,
	})
	if err != nil {
		t.Fatalf("CreateMeasurement: %v", err)
	}
	return measurement
}

func TestMeasurementStoresResolvedEmissions(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)

	measurement := createTestMeasurement(t, ctx, factor.ID, 100)
	if math.Abs(measurement.CalculatedEmissions-50.0) > 1e-9 {
		t.Fatalf("calculated emissions: got %v, want 50.0", measurement.CalculatedEmissions)
	}

	// with an active revision, creation resolves the revision value
	revision := createTestRevision(t, ctx, factor.ID, 0.8)
	if _, err := models.ActivateEmissionFactorRevision(ctx, revision.ID); err != nil {
		t.Fatalf("ActivateEmissionFactorRevision: %v", err)
	}
	second := createTestMeasurement(t, ctx, factor.ID, 100)
	if math.Abs(second.CalculatedEmissions-80.0) > 1e-9 {
		t.Fatalf("calculated emissions with revision: got %v, want 80.0", second.CalculatedEmissions)
	}
}

func TestRecalculationAppliesActiveRevision(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	measurement := createTestMeasurement(t, ctx, factor.ID, 100)

	revision := createTestRevision(t, ctx, factor.ID, 0.8)
	if _, err := models.ActivateEmissionFactorRevision(ctx, revision.ID); err != nil {
		t.Fatalf("ActivateEmissionFactorRevision: %v", err)
	}

	result, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		t.Fatalf("RecalculateAllEmissions: %v", err)
	}
	if result.TotalMeasurements != 1 {
		t.Fatalf("total: got %d, want 1", result.TotalMeasurements)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("updated: got %d, want 1", result.UpdatedCount)
	}

	refreshed, err := models.GetMeasurement(ctx, measurement.ID)
	if err != nil {
		t.Fatalf("GetMeasurement: %v", err)
	}
	if math.Abs(refreshed.CalculatedEmissions-80.0) > 1e-9 {
		t.Fatalf("recalculated emissions: got %v, want 80.0", refreshed.CalculatedEmissions)
	}
}

func TestRecalculationIsIdempotent(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	createTestMeasurement(t, ctx, factor.ID, 100)
	createTestMeasurement(t, ctx, factor.ID, 250)

	revision := createTestRevision(t, ctx, factor.ID, 0.8)
	if _, err := models.ActivateEmissionFactorRevision(ctx, revision.ID); err != nil {
		t.Fatalf("ActivateEmissionFactorRevision: %v", err)
	}

	first, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.UpdatedCount != 2 {
		t.Fatalf("first run updated: got %d, want 2", first.UpdatedCount)
	}

	second, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.UpdatedCount != 0 {
		t.Fatalf("second run updated: got %d, want 0", second.UpdatedCount)
	}
	if second.SkippedCount != 0 {
		t.Fatalf("second run skipped: got %d, want 0", second.SkippedCount)
	}
	if second.TotalMeasurements != 2 {
		t.Fatalf("second run total: got %d, want 2", second.TotalMeasurements)
	}
}

func TestRecalculationSkipsMeasurementsWithMissingFactor(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	measurement := createTestMeasurement(t, ctx, factor.ID, 100)

	// the delete API refuses to orphan measurements, so corrupt the state
	// directly the way an out-of-band migration could
	db := config.GetDB()
	if err := db.Delete(&models.EmissionFactor{}, factor.ID).Error; err != nil {
		t.Fatalf("delete factor row: %v", err)
	}

	result, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		t.Fatalf("RecalculateAllEmissions: %v", err)
	}
	if result.SkippedCount != 1 {
		t.Fatalf("skipped: got %d, want 1", result.SkippedCount)
	}
	if result.UpdatedCount != 0 {
		t.Fatalf("updated: got %d, want 0", result.UpdatedCount)
	}
	if result.TotalMeasurements != 1 {
		t.Fatalf("total: got %d, want 1", result.TotalMeasurements)
	}

	// the stored value must survive untouched
	refreshed, err := models.GetMeasurement(ctx, measurement.ID)
	if err != nil {
		t.Fatalf("GetMeasurement: %v", err)
	}
	if math.Abs(refreshed.CalculatedEmissions-50.0) > 1e-9 {
		t.Fatalf("skipped measurement changed: got %v, want 50.0", refreshed.CalculatedEmissions)
	}
}

func TestResolutionPrefersHighestVersionWhenMultipleActive(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	measurement := createTestMeasurement(t, ctx, factor.ID, 100)

	createTestRevision(t, ctx, factor.ID, 0.6)
	createTestRevision(t, ctx, factor.ID, 0.9)

	// activation keeps a single row active, so force the corrupt state
	// directly to exercise the tie-break
	db := config.GetDB()
	if err := db.Model(&models.EmissionFactorRevision{}).
		Where("parent_factor_id = ?", factor.ID).
		Update("is_active", true).Error; err != nil {
		t.Fatalf("force both revisions active: %v", err)
	}

	value, err := models.ResolveActiveFactorValue(ctx, factor.ID)
	if err != nil {
		t.Fatalf("ResolveActiveFactorValue: %v", err)
	}
	if value != 0.9 {
		t.Fatalf("per-factor resolution: got %v, want highest version value 0.9", value)
	}

	result, err := models.RecalculateAllEmissions(ctx)
	if err != nil {
		t.Fatalf("RecalculateAllEmissions: %v", err)
	}
	if result.UpdatedCount != 1 {
		t.Fatalf("updated: got %d, want 1", result.UpdatedCount)
	}
	refreshed, err := models.GetMeasurement(ctx, measurement.ID)
	if err != nil {
		t.Fatalf("GetMeasurement: %v", err)
	}
	if math.Abs(refreshed.CalculatedEmissions-90.0) > 1e-9 {
		t.Fatalf("batch resolution: got %v, want 90.0", refreshed.CalculatedEmissions)
	}
}

func TestFactorDeletionBlockedByMeasurements(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	createTestMeasurement(t, ctx, factor.ID, 100)

	if _, err := models.DeleteEmissionFactor(ctx, factor.ID); err == nil {
		t.Fatal("deleting a referenced factor should fail")
	}

	summary, err := models.GetMeasurementSummary(ctx, nil)
	if err != nil {
		t.Fatalf("GetMeasurementSummary: %v", err)
	}
	if summary.Count != 1 {
		t.Fatalf("summary count: got %d, want 1", summary.Count)
	}
	if math.Abs(summary.TotalEmissions-50.0) > 1e-9 {
		t.Fatalf("summary total emissions: got %v, want 50.0", summary.TotalEmissions)
	}
}
