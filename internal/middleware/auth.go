package middleware

import (
	"net/http"
	"strings"

	"pabrikku-be/internal/auth"
	"pabrikku-be/internal/logger"
	"pabrikku-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAuth validates the Bearer token and loads user_id, tenant_id
// and role into the request context. Handlers downstream resolve the
// tenant exclusively from context, never from request input.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(c.Request.Context()).Warn("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := utils.SetUserContext(c.Request.Context(), claims.UserID, claims.TenantID, claims.Role)
		ctx = logger.WithTenantID(ctx, claims.TenantID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole gates a route to one role. Must run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetUserRoleFromContext(c.Request.Context()) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
