package middleware

import (
	"Inkwell/internal/pkg/security"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware resolves the caller when a usable token is present. Anything else,
// revoked tokens included, continues as anonymous with user_id 0.
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint64(0))

		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		revoked, err := isRevoked(c.Request.Context(), tokenString)
		if err != nil {
			log.WarnContext(c.Request.Context(), "token blacklist lookup failed, serving anonymously", "err", err)
		}
		if err != nil || revoked {
			c.Next()
			return
		}

		if claims, err := security.ValidateToken(tokenString); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}
