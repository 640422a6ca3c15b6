package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
)

type User struct {
	ID             int        `gorm:"primary_key" json:"id"`
	Username       string     `gorm:"size:80;not null;unique" json:"username" binding:"required"`
	Email          string     `gorm:"size:120;not null;unique" json:"email" binding:"required"`
	Password       string     `gorm:"size:255;not null" json:"-"`
	FirstName      string     `gorm:"size:100" json:"first_name"`
	LastName       string     `gorm:"size:100" json:"last_name"`
	Phone          string     `gorm:"size:20" json:"phone"`
	Department     string     `gorm:"size:100" json:"department"`
	JobTitle       string     `gorm:"size:100" json:"job_title"`
	ProfilePicture string     `gorm:"size:500" json:"profile_picture"`
	RoleId         int        `gorm:"not null" json:"role_id"`
	Role           *Role      `gorm:"foreignKey:RoleId" json:"role,omitempty"`
	IsActive       *bool      `gorm:"not null;default:true" json:"is_active"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	JobTitle       string `json:"job_title"`
	ProfilePicture string `json:"profile_picture"`
	RoleId         int    `json:"role_id"`
	IsActive       *bool  `json:"is_active"`
}

type UpdateProfileInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Department     string `json:"department"`
	JobTitle       string `json:"job_title"`
	ProfilePicture string `json:"profile_picture"`
}

type LoginInfo struct {
	Token       string           `json:"token"`
	UserId      int              `json:"user_id"`
	Username    string           `json:"username"`
	Role        string           `json:"role"`
	Permissions PermissionMatrix `json:"permissions"`
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var user User

	err := db.WithContext(ctx).Preload("Role").
		Where("username = ? OR email = ?", username, username).
		First(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	// Any comparison failure rejects the login, including a corrupted or
	// truncated stored hash, not just a plain mismatch.
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return nil, errors.New("user is disabled")
	}

	roleName := ""
	var permissions PermissionMatrix
	if user.Role != nil {
		roleName = user.Role.Name
		permissions = user.Role.Permissions
	}

	token, err := utils.JwtGenerate(user.ID, roleName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := db.WithContext(ctx).Model(&user).
		UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token:       token,
		UserId:      user.ID,
		Username:    user.Username,
		Role:        roleName,
		Permissions: permissions,
	}, nil
}

// GetCurrentUser resolves the authenticated user from the request context.
func GetCurrentUser(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	return GetUser(ctx, userId)
}

func GetUser(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchSingleModel[User](ctx, id, "Role")
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {
	users, err := utils.FetchAllModels[User](ctx, "Role")
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()

	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	var count int64
	err := db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	roleId := input.RoleId
	if roleId == 0 {
		// new accounts default to the read-only Viewer role
		viewer, err := roleByName(ctx, RoleNameViewer)
		if err != nil {
			return nil, err
		}
		roleId = viewer.ID
	} else if err := utils.ValidateResourceId[Role](ctx, roleId); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	user := User{
		Username:       html.EscapeString(strings.TrimSpace(input.Username)),
		Email:          strings.ToLower(input.Email),
		Password:       string(hashedPassword),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		Department:     input.Department,
		JobTitle:       input.JobTitle,
		ProfilePicture: input.ProfilePicture,
		RoleId:         roleId,
		IsActive:       isActive,
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", input.Username, input.Email).
		Not("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("duplicate username or email")
	}

	roleId := input.RoleId
	if roleId == 0 {
		roleId = user.RoleId
	} else if err := utils.ValidateResourceId[Role](ctx, roleId); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"username":        input.Username,
		"email":           strings.ToLower(input.Email),
		"first_name":      input.FirstName,
		"last_name":       input.LastName,
		"phone":           input.Phone,
		"department":      input.Department,
		"job_title":       input.JobTitle,
		"profile_picture": input.ProfilePicture,
		"role_id":         roleId,
		"is_active":       input.IsActive,
	}).Error
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	// a user's API keys die with the account
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("user_id = ?", id).
		Delete(&APIKey{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&user).Error; err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func ToggleUserStatus(ctx context.Context, id int) (*User, error) {

	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	newState := user.IsActive == nil || !*user.IsActive
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&user).
		Update("is_active", newState).Error; err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*User, error) {

	user, err := GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}

	db := config.GetDB()
	updates := map[string]interface{}{
		"first_name":      input.FirstName,
		"last_name":       input.LastName,
		"phone":           input.Phone,
		"department":      input.Department,
		"job_title":       input.JobTitle,
		"profile_picture": input.ProfilePicture,
	}
	if input.Email != "" {
		updates["email"] = strings.ToLower(input.Email)
	}
	if err := db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func ChangePassword(ctx context.Context, oldPassword string, newPassword string) error {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return errors.New("user id is required")
	}

	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).First(&user, userId).Error; err != nil {
		return err
	}
	if err := utils.ComparePassword(user.Password, oldPassword); err != nil {
		return errors.New("old password is wrong")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&user).
		UpdateColumn("password", string(hashedPassword)).Error
}
