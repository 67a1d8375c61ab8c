package session

import (
	"context"
	"testing"
	"time"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(NewMemoryStore(), []byte("test-session-secret"), time.Hour)
}

func TestCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	s, token, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.CSRFToken == "" {
		t.Fatal("expected csrf token on new session")
	}
	if s.LoggedIn() {
		t.Fatal("new session should be anonymous")
	}

	got, err := m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != s.ID || got.CSRFToken != s.CSRFToken {
		t.Fatalf("resolved session mismatch: got %+v want %+v", got, s)
	}
}

func TestResolveRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	if _, err := m.Resolve(ctx, "not-a-token"); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}

	// Token signed by a different secret.
	other := NewManager(NewMemoryStore(), []byte("other-secret"), time.Hour)
	_, token, err := other.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Resolve(ctx, token); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPromoteRotatesSessionID(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	s, oldToken, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldID := s.ID
	csrf := s.CSRFToken

	newToken, err := m.Promote(ctx, s, 1, "admin", "Administrator")
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if s.ID == oldID {
		t.Fatal("session ID should rotate on login")
	}
	if s.CSRFToken != csrf {
		t.Fatal("csrf token should survive login")
	}

	got, err := m.Resolve(ctx, newToken)
	if err != nil {
		t.Fatalf("resolve new token: %v", err)
	}
	if !got.LoggedIn() || got.Username != "admin" {
		t.Fatalf("promoted session = %+v", got)
	}

	// The pre-login token must be dead.
	if _, err := m.Resolve(ctx, oldToken); err != ErrNoSession {
		t.Fatalf("old token err = %v, want ErrNoSession", err)
	}
}

func TestDestroy(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)

	s, token, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.Destroy(ctx, s); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := m.Resolve(ctx, token); err != ErrNoSession {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestVerifyCSRF(t *testing.T) {
	m := newTestManager(t)
	s := &Session{CSRFToken: "abc123"}

	if !m.VerifyCSRF(s, "abc123") {
		t.Fatal("matching token rejected")
	}
	if m.VerifyCSRF(s, "abc124") {
		t.Fatal("wrong token accepted")
	}
	if m.VerifyCSRF(s, "") {
		t.Fatal("empty token accepted")
	}
	if m.VerifyCSRF(nil, "abc123") {
		t.Fatal("nil session accepted")
	}
}

func TestAllowFixedWindow(t *testing.T) {
	m := newTestManager(t)
	s := &Session{}

	for i := 0; i < 5; i++ {
		if !m.Allow(s, "login", 5, time.Minute) {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}
	if m.Allow(s, "login", 5, time.Minute) {
		t.Fatal("attempt 6 allowed, want denied")
	}

	// Independent action keys do not share a window.
	if !m.Allow(s, "booking_create", 5, time.Minute) {
		t.Fatal("separate action denied")
	}

	// Expired attempts fall out of the window.
	old := time.Now().Add(-2 * time.Minute)
	s.RateWindows["login"] = []time.Time{old, old, old, old, old}
	if !m.Allow(s, "login", 5, time.Minute) {
		t.Fatal("attempt after window expiry denied")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := &Session{ID: "short-lived"}
	if err := store.Put(ctx, sess, 10*time.Millisecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "short-lived"); !ok {
		t.Fatal("session missing before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "short-lived"); ok {
		t.Fatal("session present after expiry")
	}
}
