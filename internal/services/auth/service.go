package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/openplay-go/internal/dependencies/clock"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRequired      = errors.New("organizer token required")
	ErrForbidden          = errors.New("token does not grant access to this session")
)

// Grant is an organizer token bound to one session
type Grant struct {
	Token       string
	SessionCode model.SessionCode
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Service handles organizer passwords and tokens
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu     sync.RWMutex
	grants map[string]*Grant

	grantDuration time.Duration
	bcryptCost    int
}

// Config holds configuration for the auth service
type Config struct {
	GrantDuration time.Duration
	BcryptCost    int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		GrantDuration: 24 * time.Hour,
		BcryptCost:    bcrypt.DefaultCost,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.GrantDuration == 0 {
		cfg.GrantDuration = DefaultConfig().GrantDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultConfig().BcryptCost
	}
	return &Service{
		storage:       storage,
		clock:         clock,
		grants:        make(map[string]*Grant),
		grantDuration: cfg.GrantDuration,
		bcryptCost:    cfg.BcryptCost,
	}
}

// HashPassword hashes an organizer password for storage on the session.
// An empty password yields an empty hash, leaving the session unprotected.
func (s *Service) HashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IssueToken creates a grant for a session
func (s *Service) IssueToken(code model.SessionCode) *Grant {
	now := s.clock.Now()
	grant := &Grant{
		Token:       s.generateID("tok_"),
		SessionCode: code,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.grantDuration),
	}

	s.mu.Lock()
	s.grants[grant.Token] = grant
	s.mu.Unlock()

	return grant
}

// Login checks the organizer password for a session and issues a grant.
// Sessions without a password accept any password.
func (s *Service) Login(ctx context.Context, code model.SessionCode, password string) (*Grant, error) {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}

	if session.OrganizerHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(session.OrganizerHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	return s.IssueToken(code), nil
}

// ValidateToken checks if a token is valid and returns its grant
func (s *Service) ValidateToken(token string) (*Grant, error) {
	s.mu.RLock()
	grant, ok := s.grants[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidToken
	}

	if s.clock.Now().After(grant.ExpiresAt) {
		s.mu.Lock()
		delete(s.grants, token)
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}

	return grant, nil
}

// Authorize checks that a token may mutate a session. Sessions without an
// organizer password are open to everyone.
func (s *Service) Authorize(ctx context.Context, code model.SessionCode, token string) error {
	session, err := s.storage.GetSession(ctx, code)
	if err != nil {
		return err
	}
	if session.OrganizerHash == "" {
		return nil
	}

	if token == "" {
		return ErrTokenRequired
	}
	grant, err := s.ValidateToken(token)
	if err != nil {
		return err
	}
	if grant.SessionCode != code {
		return ErrForbidden
	}
	return nil
}

// InvalidateToken removes a grant
func (s *Service) InvalidateToken(token string) {
	s.mu.Lock()
	delete(s.grants, token)
	s.mu.Unlock()
}

// RevokeSession removes every grant for a session
func (s *Service) RevokeSession(code model.SessionCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, grant := range s.grants {
		if grant.SessionCode == code {
			delete(s.grants, token)
		}
	}
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredGrants removes expired grants (call periodically)
func (s *Service) CleanExpiredGrants() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, grant := range s.grants {
		if now.After(grant.ExpiresAt) {
			delete(s.grants, token)
		}
	}
}

// GrantCount returns the number of live grants
func (s *Service) GrantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grants)
}
