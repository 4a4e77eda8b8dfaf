package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scrapbook-space/core/internal/pkg/jwt"
)

func TestLoginPlainPassword(t *testing.T) {
	svc := NewService("hunter2", nil)

	token, err := svc.Login("hunter2")
	require.NoError(t, err)

	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID)
}

func TestLoginBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewService(string(hash), nil)

	_, err = svc.Login("hunter2")
	assert.NoError(t, err)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoginDisabledWithoutPassword(t *testing.T) {
	svc := NewService("  ", nil)

	assert.False(t, svc.Enabled())
	_, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}
