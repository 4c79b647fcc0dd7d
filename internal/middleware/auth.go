package middleware

import (
	"net/http"

	"archdesk/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if sess.Get("user_id") == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := SessionRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, ok := roleSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// RequireFinancials gates routes whose whole payload is financial
// (invoices, burn rate, dashboard).
func RequireFinancials() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := SessionRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !role.CanViewFinancials() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

func SessionRole(c *gin.Context) (models.UserRole, bool) {
	sess := sessions.Default(c)
	roleStr, ok := sess.Get("role").(string)
	if !ok {
		return "", false
	}
	return models.UserRole(roleStr), true
}

// SessionOrgID scopes every query to the caller's tenant.
func SessionOrgID(c *gin.Context) (uint, bool) {
	sess := sessions.Default(c)
	orgID, ok := sess.Get("org_id").(uint)
	return orgID, ok && orgID > 0
}

func SessionUserID(c *gin.Context) (uint, bool) {
	sess := sessions.Default(c)
	userID, ok := sess.Get("user_id").(uint)
	return userID, ok && userID > 0
}
