package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

const (
	RoleNameAdministrator = "Administrator"
	RoleNameManager       = "Manager"
	RoleNameAnalyst       = "Analyst"
	RoleNameViewer        = "Viewer"
)

// permissionModules lists every module a role matrix can grant actions on.
var permissionModules = []string{
	"measurements", "emission_factors", "suppliers", "targets",
	"assets", "projects", "dashboard", "reports", "settings",
}

type Role struct {
	ID           int              `gorm:"primary_key" json:"id"`
	Name         string           `gorm:"size:80;not null;unique" json:"name" binding:"required"`
	Description  string           `json:"description"`
	Color        string           `gorm:"size:7;default:#6b7280" json:"color"`
	Permissions  PermissionMatrix `gorm:"type:text" json:"permissions"`
	IsSystemRole *bool            `gorm:"not null;default:false" json:"is_system_role"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRole struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Color       string           `json:"color"`
	Permissions PermissionMatrix `json:"permissions"`
}

// RoleInfo is a role with its user count for list views.
type RoleInfo struct {
	Role
	UserCount int64 `json:"user_count"`
}

func rolePermissionsCacheKey(roleId int) string {
	return fmt.Sprintf("RolePermissions:%d", roleId)
}

func roleByName(ctx context.Context, name string) (*Role, error) {
	db := config.GetDB()
	var role Role
	if err := db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &role, nil
}

// GetRolePermissions resolves the permission matrix for a role, serving from
// the cache when available.
func GetRolePermissions(ctx context.Context, roleId int) (PermissionMatrix, error) {

	var permissions PermissionMatrix
	exists, err := config.GetRedisObject(rolePermissionsCacheKey(roleId), &permissions)
	if err != nil {
		return nil, err
	}
	if exists {
		return permissions, nil
	}

	role, err := utils.FetchSingleModel[Role](ctx, roleId)
	if err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(rolePermissionsCacheKey(roleId), role.Permissions, time.Hour); err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

func CreateRole(ctx context.Context, input *NewRole) (*Role, error) {

	if err := utils.ValidateUnique[Role](ctx, "name", input.Name, 0); err != nil {
		return nil, err
	}
	if err := validatePermissionModules(input.Permissions); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = "#6b7280"
	}

	role := Role{
		Name:         input.Name,
		Description:  input.Description,
		Color:        color,
		Permissions:  input.Permissions,
		IsSystemRole: utils.NewFalse(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func validatePermissionModules(permissions PermissionMatrix) error {
	known := make(map[string]bool, len(permissionModules))
	for _, m := range permissionModules {
		known[m] = true
	}
	for module := range permissions {
		if !known[module] {
			return fmt.Errorf("unknown permission module %q", module)
		}
	}
	return nil
}

func UpdateRole(ctx context.Context, id int, input *NewRole) (*Role, error) {

	role, err := utils.FetchSingleModel[Role](ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystemRole != nil && *role.IsSystemRole && input.Name != role.Name {
		return nil, errors.New("system roles cannot be renamed")
	}
	if err := utils.ValidateUnique[Role](ctx, "name", input.Name, id); err != nil {
		return nil, err
	}
	if err := validatePermissionModules(input.Permissions); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&role).Updates(map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"color":       input.Color,
		"permissions": input.Permissions,
	}).Error
	if err != nil {
		return nil, err
	}

	// stale cached matrices would keep granting the old permissions
	if err := config.RemoveRedisKey(rolePermissionsCacheKey(id)); err != nil {
		return nil, err
	}
	return role, nil
}

func DeleteRole(ctx context.Context, id int) (*Role, error) {

	role, err := utils.FetchSingleModel[Role](ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystemRole != nil && *role.IsSystemRole {
		return nil, errors.New("system roles cannot be deleted")
	}

	count, err := utils.ResourceCountWhere[User](ctx, "role_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("role has been used")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&role).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(rolePermissionsCacheKey(id)); err != nil {
		return nil, err
	}
	return role, nil
}

func GetRole(ctx context.Context, id int) (*Role, error) {
	return utils.FetchSingleModel[Role](ctx, id)
}

func GetRoles(ctx context.Context) ([]*RoleInfo, error) {

	db := config.GetDB()
	var roles []*Role
	if err := db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	results := make([]*RoleInfo, 0, len(roles))
	for _, role := range roles {
		var count int64
		if err := db.WithContext(ctx).Model(&User{}).
			Where("role_id = ?", role.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		results = append(results, &RoleInfo{Role: *role, UserCount: count})
	}
	return results, nil
}

func UpdateRolePermissions(ctx context.Context, id int, permissions PermissionMatrix) (*Role, error) {

	role, err := utils.FetchSingleModel[Role](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePermissionModules(permissions); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&role).
		Update("permissions", permissions).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(rolePermissionsCacheKey(id)); err != nil {
		return nil, err
	}
	return role, nil
}

func fullPermissions() PermissionMatrix {
	matrix := make(PermissionMatrix, len(permissionModules))
	for _, m := range permissionModules {
		matrix[m] = map[string]bool{"read": true, "write": true, "delete": true}
	}
	return matrix
}

func readWritePermissions() PermissionMatrix {
	matrix := make(PermissionMatrix, len(permissionModules))
	for _, m := range permissionModules {
		matrix[m] = map[string]bool{"read": true, "write": true, "delete": false}
	}
	return matrix
}

func readOnlyPermissions() PermissionMatrix {
	matrix := make(PermissionMatrix, len(permissionModules))
	for _, m := range permissionModules {
		matrix[m] = map[string]bool{"read": true, "write": false, "delete": false}
	}
	return matrix
}

// SeedSystemRoles creates the four built-in roles when missing. Existing
// rows are left untouched so admin customizations survive restarts.
func SeedSystemRoles(ctx context.Context) error {

	db := config.GetDB()

	analystPermissions := readWritePermissions()
	analystPermissions["settings"] = map[string]bool{"read": true, "write": false, "delete": false}

	defaults := []Role{
		{
			Name:         RoleNameAdministrator,
			Description:  "Full access to all modules and settings",
			Color:        "#ef4444",
			Permissions:  fullPermissions(),
			IsSystemRole: utils.NewTrue(),
		},
		{
			Name:         RoleNameManager,
			Description:  "Read and write access across ESG modules",
			Color:        "#f59e0b",
			Permissions:  readWritePermissions(),
			IsSystemRole: utils.NewTrue(),
		},
		{
			Name:         RoleNameAnalyst,
			Description:  "Data entry and analysis access",
			Color:        "#3b82f6",
			Permissions:  analystPermissions,
			IsSystemRole: utils.NewTrue(),
		},
		{
			Name:         RoleNameViewer,
			Description:  "Read-only access",
			Color:        "#6b7280",
			Permissions:  readOnlyPermissions(),
			IsSystemRole: utils.NewTrue(),
		},
	}

	for _, role := range defaults {
		var count int64
		if err := db.WithContext(ctx).Model(&Role{}).
			Where("name = ?", role.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
