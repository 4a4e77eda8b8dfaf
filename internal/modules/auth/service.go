// Package auth grants the single shared admin capability: one password,
// configured at deploy time, exchanged for a short-lived bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scrapbook-space/core/internal/pkg/jwt"
)

// TokenTTL is the admin session lifetime.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrWrongPassword = errors.New("wrong password")
	// ErrLoginDisabled reports a deployment with no admin password set.
	ErrLoginDisabled = errors.New("admin login is not configured")
)

// Service verifies the admin password and issues session tokens.
type Service struct {
	password string
	logger   *zap.Logger
}

func NewService(password string, logger *zap.Logger) *Service {
	return &Service{password: password, logger: logger}
}

// Enabled reports whether admin login is configured at all.
func (s *Service) Enabled() bool {
	return strings.TrimSpace(s.password) != ""
}

// Login checks the password and returns a signed session token. The
// configured value may be a bcrypt hash or, for local development, the
// plain password.
func (s *Service) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrLoginDisabled
	}
	if !s.verify(password) {
		// flat delay to blunt guessing
		time.Sleep(time.Second)
		return "", ErrWrongPassword
	}

	sessionID := uuid.NewString()
	token, err := jwt.Sign(sessionID, TokenTTL)
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Info("admin login", zap.String("session", sessionID))
	}
	return token, nil
}

func (s *Service) verify(password string) bool {
	if strings.HasPrefix(s.password, "$2a$") || strings.HasPrefix(s.password, "$2b$") || strings.HasPrefix(s.password, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(s.password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(password)) == 1
}
