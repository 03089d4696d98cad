package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCheck(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, svc.CheckPassword("correct horse battery staple", hash))
	assert.False(t, svc.CheckPassword("wrong password", hash))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	svc := NewPasswordService()

	first, err := svc.HashPassword("same input")
	require.NoError(t, err)
	second, err := svc.HashPassword("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, svc.CheckPassword("same input", first))
	assert.True(t, svc.CheckPassword("same input", second))
}
