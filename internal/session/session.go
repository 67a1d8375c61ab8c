// Package session implements server-side sessions. The browser only holds a
// signed token whose subject is the session ID; everything else (identity,
// CSRF token, rate-limit windows) lives in a Store with a TTL.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession    = errors.New("session: no active session")
	ErrInvalidToken = errors.New("session: invalid token")
)

type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Per-action request timestamps for fixed-window rate limiting.
	RateWindows map[string][]time.Time `json:"rate_windows,omitempty"`
}

// LoggedIn reports whether the session carries an authenticated user.
func (s *Session) LoggedIn() bool {
	return s != nil && s.UserID > 0
}

// Store persists session records keyed by session ID.
type Store interface {
	Get(ctx context.Context, id string) (*Session, bool, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager creates, resolves and mutates sessions and signs the tokens that
// reference them.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

func NewManager(store Store, secret []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: secret, ttl: ttl}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts an anonymous session with a fresh CSRF token and returns the
// signed token to set as the cookie value.
func (m *Manager) Create(ctx context.Context) (*Session, string, error) {
	now := time.Now().UTC()
	s := &Session{
		ID:          randomHex(16),
		CSRFToken:   randomHex(32),
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
		RateWindows: make(map[string][]time.Time),
	}
	if err := m.store.Put(ctx, s, m.ttl); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}
	token, err := m.sign(s)
	if err != nil {
		return nil, "", err
	}
	return s, token, nil
}

// Resolve validates a signed token and loads the session it references.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	id, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	s, ok, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, ErrNoSession
	}
	return s, nil
}

// Save writes the session back, preserving the remaining TTL.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return ErrNoSession
	}
	return m.store.Put(ctx, s, ttl)
}

// Promote attaches an authenticated user to the session and rotates its ID
// so a pre-login token cannot be replayed post-login. The CSRF token is kept
// so in-flight pages stay valid. Returns the new signed token.
func (m *Manager) Promote(ctx context.Context, s *Session, userID int64, username, name string) (string, error) {
	old := s.ID
	now := time.Now().UTC()
	s.ID = randomHex(16)
	s.UserID = userID
	s.Username = username
	s.Name = name
	s.CreatedAt = now
	s.ExpiresAt = now.Add(m.ttl)
	if err := m.store.Put(ctx, s, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := m.store.Delete(ctx, old); err != nil {
		return "", fmt.Errorf("drop old session: %w", err)
	}
	return m.sign(s)
}

// Destroy removes the session record.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	return m.store.Delete(ctx, s.ID)
}

// VerifyCSRF compares the submitted token against the session's in constant
// time.
func (m *Manager) VerifyCSRF(s *Session, token string) bool {
	if s == nil || s.CSRFToken == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(s.CSRFToken), []byte(token))
}

// Allow records an attempt for the named action and reports whether it stays
// within max attempts per window. The caller persists the session afterwards.
func (m *Manager) Allow(s *Session, action string, max int, window time.Duration) bool {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	now := time.Now()
	cutoff := now.Add(-window)

	if s.RateWindows == nil {
		s.RateWindows = make(map[string][]time.Time)
	}
	history := s.RateWindows[action]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= max {
		s.RateWindows[action] = kept
		return false
	}
	kept = append(kept, now)
	s.RateWindows[action] = kept
	return true
}

func (m *Manager) sign(s *Session) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   s.ID,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
