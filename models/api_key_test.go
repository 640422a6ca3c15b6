package models_test

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func TestApiKeyLifecycle(t *testing.T) {
	ctx := setupTestDB(t)

	created, err := models.CreateAPIKey(ctx, &models.NewAPIKey{
		Name: "ci pipeline",
		Permissions: models.PermissionMatrix{
			"measurements": {"read": true},
		},
	})
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}
	if !strings.HasPrefix(created.Key, models.ApiKeyPrefix) {
		t.Fatalf("secret %q missing prefix %q", created.Key, models.ApiKeyPrefix)
	}
	if created.KeyPrefix != created.Key[:12] {
		t.Fatalf("key_prefix %q does not match secret head", created.KeyPrefix)
	}
	if created.RateLimit != 1000 {
		t.Fatalf("default rate limit: got %d, want 1000", created.RateLimit)
	}

	authed, err := models.AuthenticateAPIKey(ctx, created.Key)
	if err != nil {
		t.Fatalf("AuthenticateAPIKey: %v", err)
	}
	if authed.ID != created.ID {
		t.Fatalf("authenticated wrong key: got %d, want %d", authed.ID, created.ID)
	}
	if authed.UsageCount != 1 || authed.LastUsed == nil {
		t.Fatalf("usage not recorded: count=%d last_used=%v", authed.UsageCount, authed.LastUsed)
	}
	stored, err := models.GetAPIKey(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetAPIKey: %v", err)
	}
	if stored.UsageCount != authed.UsageCount {
		t.Fatalf("returned usage count %d diverges from persisted %d", authed.UsageCount, stored.UsageCount)
	}
	if !authed.Permissions.Allows("measurements", "read") {
		t.Fatal("permission matrix lost on authentication")
	}
	if authed.Permissions.Allows("measurements", "write") {
		t.Fatal("key must not allow unlisted actions")
	}

	if _, err := models.AuthenticateAPIKey(ctx, models.ApiKeyPrefix+"bogus"); err == nil {
		t.Fatal("unknown secret should not authenticate")
	}
	if _, err := models.AuthenticateAPIKey(ctx, "not-a-key"); err == nil {
		t.Fatal("secret without prefix should not authenticate")
	}

	if _, err := models.ToggleAPIKeyStatus(ctx, created.ID); err != nil {
		t.Fatalf("ToggleAPIKeyStatus: %v", err)
	}
	if _, err := models.AuthenticateAPIKey(ctx, created.Key); err == nil {
		t.Fatal("disabled key should not authenticate")
	}
}

func TestApiKeyRegenerationInvalidatesOldSecret(t *testing.T) {
	ctx := setupTestDB(t)

	created, err := models.CreateAPIKey(ctx, &models.NewAPIKey{Name: "rotating"})
	if err != nil {
		t.Fatalf("CreateAPIKey: %v", err)
	}
	if _, err := models.AuthenticateAPIKey(ctx, created.Key); err != nil {
		t.Fatalf("authenticate before rotation: %v", err)
	}

	rotated, err := models.RegenerateAPIKey(ctx, created.ID)
	if err != nil {
		t.Fatalf("RegenerateAPIKey: %v", err)
	}
	if rotated.Key == created.Key {
		t.Fatal("rotation must mint a new secret")
	}

	if _, err := models.AuthenticateAPIKey(ctx, created.Key); err == nil {
		t.Fatal("old secret should stop working after rotation")
	}
	authed, err := models.AuthenticateAPIKey(ctx, rotated.Key)
	if err != nil {
		t.Fatalf("authenticate after rotation: %v", err)
	}
	if authed.UsageCount != 1 {
		t.Fatalf("usage count should reset on rotation: got %d", authed.UsageCount)
	}
}
