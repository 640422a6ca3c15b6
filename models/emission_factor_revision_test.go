package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

func TestRevisionVersionSequencing(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)

	for want := 1; want <= 3; want++ {
		revision := createTestRevision(t, ctx, factor.ID, 0.5+float64(want)/10)
		if revision.Version != want {
			t.Fatalf("revision %d: got version %d, want %d", want, revision.Version, want)
		}
		if revision.IsActive == nil || *revision.IsActive {
			t.Fatalf("revision %d: new revisions must start inactive", want)
		}
	}
}

func TestActivationKeepsSingleActiveRevision(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)

	first := createTestRevision(t, ctx, factor.ID, 0.6)
	second := createTestRevision(t, ctx, factor.ID, 0.8)

	if _, err := models.ActivateEmissionFactorRevision(ctx, first.ID); err != nil {
		t.Fatalf("activate first: %v", err)
	}
	if _, err := models.ActivateEmissionFactorRevision(ctx, second.ID); err != nil {
		t.Fatalf("activate second: %v", err)
	}

	history, err := models.GetRevisionHistory(ctx, factor.ID)
	if err != nil {
		t.Fatalf("GetRevisionHistory: %v", err)
	}
	active := 0
	for _, r := range history {
		if r.IsActive != nil && *r.IsActive {
			active++
			if r.ID != second.ID {
				t.Fatalf("wrong revision active: got id %d, want %d", r.ID, second.ID)
			}
		}
	}
	if active != 1 {
		t.Fatalf("got %d active revisions, want exactly 1", active)
	}
}

func TestActivationMirrorsSnapshotOntoFactor(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)
	revision := createTestRevision(t, ctx, factor.ID, 0.8)

	if _, err := models.ActivateEmissionFactorRevision(ctx, revision.ID); err != nil {
		t.Fatalf("ActivateEmissionFactorRevision: %v", err)
	}

	updated, err := models.GetEmissionFactor(ctx, factor.ID)
	if err != nil {
		t.Fatalf("GetEmissionFactor: %v", err)
	}
	if updated.FactorValue != 0.8 {
		t.Fatalf("factor value not mirrored: got %v, want 0.8", updated.FactorValue)
	}
	if !updated.IsUsingRevision {
		t.Fatal("factor should report is_using_revision after activation")
	}
	if updated.CurrentRevision == nil || updated.CurrentRevision.ID != revision.ID {
		t.Fatal("current_revision should reference the activated revision")
	}

	value, err := models.ResolveActiveFactorValue(ctx, factor.ID)
	if err != nil {
		t.Fatalf("ResolveActiveFactorValue: %v", err)
	}
	if value != 0.8 {
		t.Fatalf("resolved value: got %v, want 0.8", value)
	}
}

func TestResolveFallsBackToBaseValue(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)

	value, err := models.ResolveActiveFactorValue(ctx, factor.ID)
	if err != nil {
		t.Fatalf("ResolveActiveFactorValue: %v", err)
	}
	if value != 0.5 {
		t.Fatalf("got %v, want base value 0.5", value)
	}

	if _, err := models.ResolveActiveFactorValue(ctx, 99999); err != utils.ErrorRecordNotFound {
		t.Fatalf("unknown factor: got %v, want ErrorRecordNotFound", err)
	}
}

func TestRevisionDeletionGuards(t *testing.T) {
	ctx := setupTestDB(t)
	factor := createTestFactor(t, ctx, 0.5)

	sole := createTestRevision(t, ctx, factor.ID, 0.6)
	if _, err := models.DeleteEmissionFactorRevision(ctx, sole.ID); err != utils.ErrorInvalidState {
		t.Fatalf("deleting sole revision: got %v, want ErrorInvalidState", err)
	}

	second := createTestRevision(t, ctx, factor.ID, 0.7)
	if _, err := models.ActivateEmissionFactorRevision(ctx, second.ID); err != nil {
		t.Fatalf("ActivateEmissionFactorRevision: %v", err)
	}
	if _, err := models.DeleteEmissionFactorRevision(ctx, second.ID); err != utils.ErrorInvalidState {
		t.Fatalf("deleting active revision: got %v, want ErrorInvalidState", err)
	}

	// inactive revision with siblings can go
	if _, err := models.DeleteEmissionFactorRevision(ctx, sole.ID); err != nil {
		t.Fatalf("deleting inactive revision: %v", err)
	}

	history, err := models.GetRevisionHistory(ctx, factor.ID)
	if err != nil {
		t.Fatalf("GetRevisionHistory: %v", err)
	}
	if len(history) != 1 || history[0].ID != second.ID {
		t.Fatalf("history after delete: got %d revisions, want only the active one", len(history))
	}
}
