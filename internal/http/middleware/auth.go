package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth rejects requests without a valid, unrevoked bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortAPIError(c, apierr.Unauthorized("not_authenticated"))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			response.AbortAPIError(c, err)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.AbortAPIError(c, apierr.Unauthorized("not_authenticated"))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// and lets anonymous requests through otherwise.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Ignoring bearer token on public route", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
