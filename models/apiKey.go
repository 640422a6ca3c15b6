package models

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/esg_backend/config"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/google/uuid"
)

// ApiKeyPrefix marks every issued key secret; the auth middleware uses it to
// tell API keys apart from session tokens.
const ApiKeyPrefix = "esg_"

type APIKey struct {
	ID          int              `gorm:"primary_key" json:"id"`
	Name        string           `gorm:"size:200;not null" json:"name" binding:"required"`
	Description string           `json:"description"`
	KeyHash     string           `gorm:"size:128;not null;unique" json:"-"`
	KeyPrefix   string           `gorm:"size:20;not null" json:"key_prefix"`
	Permissions PermissionMatrix `gorm:"type:text" json:"permissions"`
	IpWhitelist StringArray      `gorm:"type:text" json:"ip_whitelist"`
	RateLimit   int              `gorm:"default:1000" json:"rate_limit"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	IsActive    *bool            `gorm:"not null;default:true" json:"is_active"`
	UsageCount  int              `gorm:"default:0" json:"usage_count"`
	LastUsed    *time.Time       `json:"last_used"`
	UserId      int              `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAPIKey struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Permissions PermissionMatrix `json:"permissions"`
	IpWhitelist StringArray      `json:"ip_whitelist"`
	RateLimit   int              `json:"rate_limit"`
	ExpiresAt   *time.Time       `json:"expires_at"`
}

// CreatedAPIKey carries the plaintext secret, returned exactly once at
// creation or regeneration. Only the hash is persisted.
type CreatedAPIKey struct {
	APIKey
	Key string `json:"key"`
}

func generateApiKeySecret() string {
	raw := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return ApiKeyPrefix + raw
}

func HashApiKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func CreateAPIKey(ctx context.Context, input *NewAPIKey) (*CreatedAPIKey, error) {

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	secret := generateApiKeySecret()

	rateLimit := input.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1000
	}

	apiKey := APIKey{
		Name:        input.Name,
		Description: input.Description,
		KeyHash:     HashApiKey(secret),
		KeyPrefix:   secret[:12],
		Permissions: input.Permissions,
		IpWhitelist: input.IpWhitelist,
		RateLimit:   rateLimit,
		ExpiresAt:   input.ExpiresAt,
		IsActive:    utils.NewTrue(),
		UserId:      userId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&apiKey).Error; err != nil {
		return nil, err
	}
	return &CreatedAPIKey{APIKey: apiKey, Key: secret}, nil
}

// RegenerateAPIKey replaces the secret of an existing key, invalidating the
// old one, and returns the new plaintext once.
func RegenerateAPIKey(ctx context.Context, id int) (*CreatedAPIKey, error) {

	apiKey, err := utils.FetchSingleModel[APIKey](ctx, id)
	if err != nil {
		return nil, err
	}

	secret := generateApiKeySecret()

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&apiKey).Updates(map[string]interface{}{
		"key_hash":    HashApiKey(secret),
		"key_prefix":  secret[:12],
		"usage_count": 0,
		"last_used":   nil,
	}).Error
	if err != nil {
		return nil, err
	}
	return &CreatedAPIKey{APIKey: *apiKey, Key: secret}, nil
}

func UpdateAPIKey(ctx context.Context, id int, input *NewAPIKey) (*APIKey, error) {

	apiKey, err := utils.FetchSingleModel[APIKey](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&apiKey).Updates(map[string]interface{}{
		"name":         input.Name,
		"description":  input.Description,
		"permissions":  input.Permissions,
		"ip_whitelist": input.IpWhitelist,
		"rate_limit":   input.RateLimit,
		"expires_at":   input.ExpiresAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return apiKey, nil
}

func DeleteAPIKey(ctx context.Context, id int) (*APIKey, error) {

	apiKey, err := utils.FetchSingleModel[APIKey](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&apiKey).Error; err != nil {
		return nil, err
	}
	return apiKey, nil
}

func ToggleAPIKeyStatus(ctx context.Context, id int) (*APIKey, error) {

	apiKey, err := utils.FetchSingleModel[APIKey](ctx, id)
	if err != nil {
		return nil, err
	}

	newState := apiKey.IsActive == nil || !*apiKey.IsActive
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&apiKey).
		Update("is_active", newState).Error; err != nil {
		return nil, err
	}
	return apiKey, nil
}

func GetAPIKey(ctx context.Context, id int) (*APIKey, error) {
	return utils.FetchSingleModel[APIKey](ctx, id)
}

func GetAPIKeys(ctx context.Context) ([]*APIKey, error) {
	return utils.FetchAllModels[APIKey](ctx)
}

// AuthenticateAPIKey resolves a plaintext secret to its key record, enforcing
// the active flag and expiry, and records the use.
func AuthenticateAPIKey(ctx context.Context, secret string) (*APIKey, error) {

	if !strings.HasPrefix(secret, ApiKeyPrefix) {
		return nil, errors.New("invalid api key")
	}

	db := config.GetDB()
	var apiKey APIKey
	err := db.WithContext(ctx).
		Where("key_hash = ?", HashApiKey(secret)).
		First(&apiKey).Error
	if err != nil {
		return nil, errors.New("invalid api key")
	}

	if apiKey.IsActive == nil || !*apiKey.IsActive {
		return nil, errors.New("api key is disabled")
	}
	if apiKey.ExpiresAt != nil && apiKey.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("api key has expired")
	}

	// Updates writes the new values back into the struct, so the returned
	// record already carries the incremented count.
	if err := db.WithContext(ctx).Model(&apiKey).Updates(map[string]interface{}{
		"usage_count": apiKey.UsageCount + 1,
		"last_used":   time.Now(),
	}).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}
