package models_test

import (
	"testing"

	"bitbucket.org/mmdatafocus/esg_backend/models"
)

func TestSystemRolesSeeded(t *testing.T) {
	ctx := setupTestDB(t)

	roles, err := models.GetRoles(ctx)
	if err != nil {
		t.Fatalf("GetRoles: %v", err)
	}
	byName := make(map[string]*models.RoleInfo, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}
	for _, name := range []string{
		models.RoleNameAdministrator,
		models.RoleNameManager,
		models.RoleNameAnalyst,
		models.RoleNameViewer,
	} {
		role, ok := byName[name]
		if !ok {
			t.Fatalf("system role %q not seeded", name)
		}
		if role.IsSystemRole == nil || !*role.IsSystemRole {
			t.Fatalf("role %q should be marked as a system role", name)
		}
	}

	admin := byName[models.RoleNameAdministrator]
	perms, err := models.GetRolePermissions(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetRolePermissions: %v", err)
	}
	if !perms.Allows("measurements", "delete") {
		t.Fatal("administrator matrix should allow every action")
	}

	viewer := byName[models.RoleNameViewer]
	viewerPerms, err := models.GetRolePermissions(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("GetRolePermissions viewer: %v", err)
	}
	if viewerPerms.Allows("measurements", "write") {
		t.Fatal("viewer matrix must be read-only")
	}
}

func TestSystemRoleGuards(t *testing.T) {
	ctx := setupTestDB(t)

	roles, err := models.GetRoles(ctx)
	if err != nil {
		t.Fatalf("GetRoles: %v", err)
	}
	var viewer *models.RoleInfo
	for _, r := range roles {
		if r.Name == models.RoleNameViewer {
			viewer = r
		}
	}
	if viewer == nil {
		t.Fatal("viewer role not found")
	}

	if _, err := models.UpdateRole(ctx, viewer.ID, &models.NewRole{Name: "Renamed"}); err == nil {
		t.Fatal("renaming a system role should be rejected")
	}
	if _, err := models.DeleteRole(ctx, viewer.ID); err == nil {
		t.Fatal("deleting a system role should be rejected")
	}
}

func TestCustomRolePermissionUpdate(t *testing.T) {
	ctx := setupTestDB(t)

	role, err := models.CreateRole(ctx, &models.NewRole{
		Name: "Auditor",
		Permissions: models.PermissionMatrix{
			"reports": {"read": true},
		},
	})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	updated, err := models.UpdateRolePermissions(ctx, role.ID, models.PermissionMatrix{
		"reports":      {"read": true},
		"measurements": {"read": true},
	})
	if err != nil {
		t.Fatalf("UpdateRolePermissions: %v", err)
	}
	if !updated.Permissions.Allows("measurements", "read") {
		t.Fatal("updated matrix missing granted permission")
	}

	if _, err := models.UpdateRolePermissions(ctx, role.ID, models.PermissionMatrix{
		"nonexistent_module": {"read": true},
	}); err == nil {
		t.Fatal("unknown permission module should be rejected")
	}
}
