package middleware

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/security"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// isRevoked reports whether the token was blacklisted at logout. Without a redis client
// there is no blacklist and nothing is revoked.
func isRevoked(ctx context.Context, tokenString string) (bool, error) {
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return true, nil
	}
	value, err := redis.GetValue(ctx, consts.TokenBlacklistKey+signature)
	if errors.Is(err, redis.ErrUnavailable) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value != "", nil
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("roles", claims.Roles)
	newCtx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
	c.Request = c.Request.WithContext(newCtx)
}

// AuthMiddleware validates the bearer token and injects the caller's id and roles.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Fail(c, response.Unauthorized, "missing or malformed token")
			c.Abort()
			return
		}

		revoked, err := isRevoked(c.Request.Context(), tokenString)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "token blacklist lookup failed", "err", err)
			response.Fail(c, response.InternalServerError, "unexpected error, please retry later")
			c.Abort()
			return
		}
		if revoked {
			response.Fail(c, response.Unauthorized, "token is invalid or expired")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "token is invalid or expired")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}
