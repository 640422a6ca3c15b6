package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func TestLoginWithUsernameAndEmail(t *testing.T) {
	ctx := setupTestDB(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "reporter",
		Email:    "reporter@example.com",
		Password: "S3cret-pass!",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	info, err := models.Login(ctx, "reporter", "S3cret-pass!")
	if err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if info.UserId != user.ID || info.Token == "" {
		t.Fatalf("login info: user_id=%d token=%q", info.UserId, info.Token)
	}
	if info.Role != models.RoleNameViewer {
		t.Fatalf("default role: got %q, want %q", info.Role, models.RoleNameViewer)
	}

	if _, err := models.Login(ctx, "reporter@example.com", "S3cret-pass!"); err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if _, err := models.Login(ctx, "reporter", "wrong-pass"); err == nil {
		t.Fatal("wrong password should not authenticate")
	}
}

func TestLoginRejectsCorruptedStoredHash(t *testing.T) {
	ctx := setupTestDB(t)

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "reporter",
		Email:    "reporter@example.com",
		Password: "S3cret-pass!",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// a stored value bcrypt cannot parse must fail closed, same as a mismatch
	db := config.GetDB()
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password", "not-a-bcrypt-hash").Error; err != nil {
		t.Fatalf("corrupt stored hash: %v", err)
	}

	if _, err := models.Login(ctx, "reporter", "S3cret-pass!"); err == nil {
		t.Fatal("corrupted stored hash should not authenticate")
	}
}
