package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/mmdatafocus/esg_backend/models"
	"bitbucket.org/mmdatafocus/esg_backend/utils"
	"github.com/gin-gonic/gin"
)

const (
	AuthMethodSession = "session"
	AuthMethodApiKey  = "api_key"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": message})
	c.Abort()
}

// AuthMiddleware authenticates a request by session JWT or API key.
// Accepted credentials:
//   - Authorization: Bearer <jwt>
//   - Authorization: Bearer esg_<secret>  (API key)
//   - X-API-Key: esg_<secret>
//
// Unauthenticated requests are passed through with an empty identity;
// RequirePermissions rejects them at the route level. Login and health
// endpoints stay reachable that way.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		credential := c.Request.Header.Get("X-API-Key")
		if credential == "" {
			auth := c.Request.Header.Get("Authorization")
			if auth == "" {
				c.Next()
				return
			}
			credential = strings.TrimPrefix(auth, "Bearer ")
		}

		if strings.HasPrefix(credential, models.ApiKeyPrefix) {
			authenticateApiKey(c, credential)
			return
		}
		authenticateSession(c, credential)
	}
}

func authenticateSession(c *gin.Context, token string) {
	validate, err := utils.JwtValidate(token)
	if err != nil || !validate.Valid {
		abortUnauthorized(c, "unauthorized")
		return
	}
	claims, ok := validate.Claims.(*utils.JwtCustomClaim)
	if !ok {
		abortUnauthorized(c, "unauthorized")
		return
	}

	user, err := models.GetUser(c.Request.Context(), claims.ID)
	if err != nil {
		abortUnauthorized(c, "unauthorized")
		return
	}
	if user.IsActive == nil || !*user.IsActive {
		abortUnauthorized(c, "user is disabled")
		return
	}

	ctx := utils.SetTokenInContext(c.Request.Context(), token)
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUsernameInContext(ctx, user.Username)
	ctx = utils.SetRoleIdInContext(ctx, user.RoleId)
	ctx = utils.SetRoleNameInContext(ctx, claims.Role)
	ctx = utils.SetAuthMethodInContext(ctx, AuthMethodSession)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func authenticateApiKey(c *gin.Context, secret string) {
	apiKey, err := models.AuthenticateAPIKey(c.Request.Context(), secret)
	if err != nil {
		abortUnauthorized(c, err.Error())
		return
	}

	ctx := utils.SetApiKeyIdInContext(c.Request.Context(), apiKey.ID)
	ctx = utils.SetUserIdInContext(ctx, apiKey.UserId)
	ctx = utils.SetAuthMethodInContext(ctx, AuthMethodApiKey)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// RequirePermissions guards a route with permission strings of the form
// "module.action" (e.g. "measurements.read"). Session users are checked
// against their role matrix, API keys against the key's own matrix. The
// Administrator role bypasses matrix checks.
func RequirePermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		method, ok := utils.GetAuthMethodFromContext(ctx)
		if !ok {
			abortUnauthorized(c, "unauthorized")
			return
		}

		var matrix models.PermissionMatrix
		switch method {
		case AuthMethodSession:
			roleName, _ := utils.GetRoleNameFromContext(ctx)
			if roleName == models.RoleNameAdministrator {
				c.Next()
				return
			}
			roleId, _ := utils.GetRoleIdFromContext(ctx)
			var err error
			matrix, err = models.GetRolePermissions(ctx, roleId)
			if err != nil {
				abortUnauthorized(c, "unauthorized")
				return
			}
		case AuthMethodApiKey:
			apiKeyId, _ := utils.GetApiKeyIdFromContext(ctx)
			apiKey, err := models.GetAPIKey(ctx, apiKeyId)
			if err != nil {
				abortUnauthorized(c, "unauthorized")
				return
			}
			matrix = apiKey.Permissions
		default:
			abortUnauthorized(c, "unauthorized")
			return
		}

		for _, permission := range permissions {
			module, action, found := strings.Cut(permission, ".")
			if !found || !matrix.Allows(module, action) {
				c.JSON(http.StatusForbidden, gin.H{
					"success": false,
					"error":   "insufficient permissions",
				})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
