package models_test

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func createTestTarget(t *testing.T, ctx context.Context, progress float64, status models.TargetStatus) *models.ESGTarget {
	t.Helper()
	target, err := models.CreateESGTarget(ctx, &models.NewESGTarget{
		Name:               "Reduce scope 2 emissions",
		TargetType:         "emissions_reduction",
		BaselineValue:      1000,
		BaselineYear:       2020,
		TargetValue:        500,
		TargetYear:         2030,
		Unit:               "tCO2e",
		ProgressPercentage: progress,
		Status:             status,
	})
	if err != nil {
		t.Fatalf("CreateESGTarget: %v", err)
	}
	return target
}

func TestTargetProgressValidation(t *testing.T) {
	ctx := setupTestDB(t)

	_, err := models.CreateESGTarget(ctx, &models.NewESGTarget{
		Name:               "Bad progress",
		TargetType:         "emissions_reduction",
		BaselineYear:       2020,
		TargetYear:         2030,
		Unit:               "tCO2e",
		ProgressPercentage: 120,
	})
	if err == nil {
		t.Fatal("progress above 100 should be rejected")
	}

	scope := 4
	_, err = models.CreateESGTarget(ctx, &models.NewESGTarget{
		Name:         "Bad scope",
		TargetType:   "emissions_reduction",
		Scope:        &scope,
		BaselineYear: 2020,
		TargetYear:   2030,
		Unit:         "tCO2e",
	})
	if err == nil {
		t.Fatal("scope outside 1..3 should be rejected")
	}
}

func TestTargetStats(t *testing.T) {
	ctx := setupTestDB(t)

	createTestTarget(t, ctx, 40, models.TargetStatusActive)
	createTestTarget(t, ctx, 60, models.TargetStatusActive)
	createTestTarget(t, ctx, 100, models.TargetStatusAchieved)

	stats, err := models.GetTargetStats(ctx)
	if err != nil {
		t.Fatalf("GetTargetStats: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("total: got %d, want 3", stats.Total)
	}
	if stats.Active != 2 || stats.Achieved != 1 {
		t.Fatalf("status counts: active=%d achieved=%d", stats.Active, stats.Achieved)
	}
	if stats.AverageProgress != 50 {
		t.Fatalf("average progress of active targets: got %v, want 50", stats.AverageProgress)
	}
}
