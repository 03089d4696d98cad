package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 240*time.Hour)

	token, expiresIn, err := svc.GenerateAccessToken("507f1f77bcf86cd799439011", "chai@example.com", "chai")
	require.NoError(t, err)
	assert.Equal(t, int64(900), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", claims.UserID)
	assert.Equal(t, "chai@example.com", claims.Email)
	assert.Equal(t, "chai", claims.Username)
}

func TestJWTExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -1*time.Minute, 240*time.Hour)

	token, _, err := svc.GenerateAccessToken("507f1f77bcf86cd799439011", "chai@example.com", "chai")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", 15*time.Minute, time.Hour)
	verifier := NewJWTService("secret-b", 15*time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken("507f1f77bcf86cd799439011", "chai@example.com", "chai")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
