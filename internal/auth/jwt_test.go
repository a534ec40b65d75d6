package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tijani-web/flowpitch-backend/internal/auth"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New().String()

	token, err := auth.GenerateToken(userID, "test-secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := auth.ParseToken(token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken(uuid.New().String(), "test-secret")
	assert.NoError(t, err)

	_, err = auth.ParseToken(token, "another-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := auth.ParseToken("not-a-token", "test-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = auth.ParseToken(signed, "test-secret")
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestParseToken_MissingUserID(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = auth.ParseToken(signed, "test-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
