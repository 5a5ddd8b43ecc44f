package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/api/v1/health",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.Validate(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		// Store claims in context for downstream use
		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTUsernameKey, claims.Username)

		// Also set in request context for logger correlation
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("tenant_id", claims.TenantID),
				zap.String("username", claims.Username),
			)
		}

		c.Next()
	}
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidToken):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTTenantID retrieves the tenant ID from JWT claims in context
func GetJWTTenantID(c *gin.Context) string {
	if tenantID, exists := c.Get(JWTTenantIDKey); exists {
		if id, ok := tenantID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTUsername retrieves the username from JWT claims in context
func GetJWTUsername(c *gin.Context) string {
	if username, exists := c.Get(JWTUsernameKey); exists {
		if u, ok := username.(string); ok {
			return u
		}
	}
	return ""
}
