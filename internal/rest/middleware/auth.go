package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/flexprice/invoicely/internal/auth"
	"github.com/flexprice/invoicely/internal/config"
	"github.com/flexprice/invoicely/internal/logger"
	"github.com/flexprice/invoicely/internal/types"
	"github.com/gin-gonic/gin"
)

// GuestAuthenticateMiddleware runs every request as the default tenant and
// user. It is installed when authentication is disabled.
func GuestAuthenticateMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// AuthenticateMiddleware authenticates requests based on either:
// 1. API key in the configured header (x-api-key by default)
// 2. JWT token in the Authorization header as a Bearer token
// It sets the user ID and tenant ID in the request context for downstream handlers
func AuthenticateMiddleware(cfg *config.Configuration, logger *logger.Logger) gin.HandlerFunc {
	if !cfg.Auth.Enabled {
		return GuestAuthenticateMiddleware
	}

	validator := auth.NewTokenValidator(cfg)

	return func(c *gin.Context) {
		if apiKey := c.GetHeader(cfg.Auth.APIKey.Header); apiKey != "" {
			tenantID, userID, valid := auth.ValidateAPIKey(cfg, apiKey)
			if !valid || tenantID == "" || userID == "" {
				logger.Debugw("invalid api key", "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
				return
			}
			setIdentity(c, tenantID, userID)
			c.Next()
			return
		}

		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Errorw("failed to validate token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if claims == nil || claims.UserID == "" || claims.TenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		setIdentity(c, claims.TenantID, claims.UserID)
		c.Next()
	}
}

func setIdentity(c *gin.Context, tenantID, userID string) {
	ctx := c.Request.Context()
	ctx = context.WithValue(ctx, types.CtxTenantID, tenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, userID)
	c.Request = c.Request.WithContext(ctx)
}
