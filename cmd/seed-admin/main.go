// seed-admin creates or updates the administrator console user.
//
// Usage (from backend directory):
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Credentials default to admin/ChangeMe123! and can be overridden with
// --username / --password / --email or the SEED_ADMIN_* env vars.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"gorm.io/gorm"
)

func envOrDefault(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	username := flag.String("username", envOrDefault("SEED_ADMIN_USERNAME", "admin"), "admin username")
	password := flag.String("password", envOrDefault("SEED_ADMIN_PASSWORD", "ChangeMe123!"), "admin password")
	email := flag.String("email", envOrDefault("SEED_ADMIN_EMAIL", "admin@example.com"), "admin email")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	// Ensure schema and system roles exist.
	models.MigrateTable()

	var adminRole models.Role
	if err := db.WithContext(ctx).Where("name = ?", models.RoleNameAdministrator).First(&adminRole).Error; err != nil {
		fmt.Fprintf(os.Stderr, "administrator role not found: %v\n", err)
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(*password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Where("username = ?", *username).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username: *username,
			Email:    *email,
			Password: string(hashed),
			RoleId:   adminRole.ID,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user: username=%q role=%q\n", *username, models.RoleNameAdministrator)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", *username).Updates(map[string]any{
		"password":  string(hashed),
		"email":     *email,
		"is_active": utils.NewTrue(),
		"role_id":   adminRole.ID,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user: username=%q role=%q\n", *username, models.RoleNameAdministrator)
}
