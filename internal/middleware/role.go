package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/response"
)

// ContextKeyRole is the Gin context key for the resolved caller role.
const ContextKeyRole = "caller_role"

// RequireCatalogWriter gates mutating catalog routes. The Authorizer
// resolves the caller's role; callers outside {teacher, admin} get 403 and
// the handler never runs, so the stored collection cannot change.
func RequireCatalogWriter(az auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := az.Authorize(c.Request)
		if err != nil || !auth.CanMutateCatalog(role) {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}

		c.Set(ContextKeyRole, role)
		c.Next()
	}
}

// GetRole retrieves the resolved role from the Gin context.
func GetRole(c *gin.Context) auth.Role {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	role, ok := val.(auth.Role)
	if !ok {
		return ""
	}
	return role
}
