package middleware

import (
	"strconv"
	"strings"

	"blog-backend/internal/shared"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AccessTokenValidator is satisfied by *jwt.Manager.
type AccessTokenValidator interface {
	ValidateAccessToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid bearer access token and stores the user id in the context.
func AuthMiddleware(tokens AccessTokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortUnauthorized(c, "missing authorization header")
			return
		}

		// 2. "Bearer <token>"
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.AbortUnauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify signature, expiry and token type
		claims, err := tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(shared.ContextRequestID)).Msg("access token rejected")
			response.AbortUnauthorized(c, "invalid token")
			return
		}

		// 4. Subject is the numeric user id
		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || userID <= 0 {
			response.AbortUnauthorized(c, "invalid user ID in token")
			return
		}

		c.Set(shared.ContextUserID, userID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by AuthMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(shared.ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
