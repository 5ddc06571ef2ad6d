package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/tiredaf123/fitflow--G3-sub001/pkg/authtoken"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/config"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/logctx"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/response"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

// AuthMiddleware requires a valid bearer token and stores the authenticated
// identity on the context (keys: "user_id", "role").
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}

		claims, err := authtoken.Parse(cfg, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(claims.Role))
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole restricts a route group to the listed roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := types.Role(c.GetString("role"))
		if !lo.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, nil))
			return
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated user id set by AuthMiddleware.
func AuthUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// AuthRole returns the authenticated role set by AuthMiddleware.
func AuthRole(c *gin.Context) types.Role {
	return types.Role(c.GetString("role"))
}
