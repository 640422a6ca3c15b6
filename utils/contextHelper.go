package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/esg_backend/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyRoleId        = appctx.ContextKeyRoleId
	ContextKeyRoleName      = appctx.ContextKeyRoleName
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyAuthMethod    = appctx.ContextKeyAuthMethod
	ContextKeyApiKeyId      = appctx.ContextKeyApiKeyId
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetRoleIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyRoleId)
}

func GetRoleNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRoleName)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func GetAuthMethodFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAuthMethod)
}

func GetApiKeyIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyApiKeyId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetRoleIdInContext(ctx context.Context, roleId int) context.Context {
	return appctx.Set(ctx, ContextKeyRoleId, roleId)
}

func SetRoleNameInContext(ctx context.Context, roleName string) context.Context {
	return appctx.Set(ctx, ContextKeyRoleName, roleName)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func SetAuthMethodInContext(ctx context.Context, method string) context.Context {
	return appctx.Set(ctx, ContextKeyAuthMethod, method)
}

func SetApiKeyIdInContext(ctx context.Context, apiKeyId int) context.Context {
	return appctx.Set(ctx, ContextKeyApiKeyId, apiKeyId)
}
