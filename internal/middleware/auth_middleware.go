package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tijani-web/flowpitch-backend/internal/auth"
	"github.com/tijani-web/flowpitch-backend/internal/response"
)

// UserIDKey is the context key the auth middleware stores the caller id under.
const UserIDKey = "userID"

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Err(c, http.StatusUnauthorized, "Access denied. No token provided.")
			c.Abort()
			return
		}

		userID, err := parseUserID(token, secret)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.Err(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the caller id when a valid token is present and
// lets anonymous requests through. Used on publicly readable routes that
// personalize their payload (like flags, visibility of private projects).
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if userID, err := parseUserID(token, secret); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller id, or false for anonymous
// requests.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

func parseUserID(token, secret string) (uuid.UUID, error) {
	raw, err := auth.ParseToken(token, secret)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, auth.ErrInvalidToken
	}
	return id, nil
}
