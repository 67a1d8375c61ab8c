package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"homeland/backend/internal/service"
	"homeland/backend/internal/session"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "homeland_session"

type API struct {
	service       *service.Service
	sessions      *session.Manager
	allowedOrigin string
	secureCookies bool
}

func New(svc *service.Service, sessions *session.Manager, allowedOrigin string, secureCookies bool) *API {
	return &API{
		service:       svc,
		sessions:      sessions,
		allowedOrigin: allowedOrigin,
		secureCookies: secureCookies,
	}
}

// Per-action fixed windows, enforced against the caller's session.
type rateLimit struct {
	max    int
	window time.Duration
}

var rateLimits = map[string]rateLimit{
	"login":             {max: 5, window: 15 * time.Minute},
	"booking_create":    {max: 20, window: time.Minute},
	"booking_update":    {max: 30, window: time.Minute},
	"report_generate":   {max: 10, window: time.Minute},
	"partner_save":      {max: 20, window: time.Minute},
	"property_save":     {max: 20, window: time.Minute},
	"rating_save":       {max: 30, window: time.Minute},
	"notification_mark": {max: 30, window: time.Minute},
	"public_enquiry":    {max: 5, window: time.Hour},
}

type sessionContextKey struct{}

func withSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func sessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*session.Session)
	return s, ok && s != nil
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/auth", a.handleAuth)
	mux.HandleFunc("/api/public/bookings", a.handlePublicBooking)

	mux.HandleFunc("/api/bookings", a.requireAuth(a.handleBookings))
	mux.HandleFunc("/api/partners", a.requireAuth(a.handlePartners))
	mux.HandleFunc("/api/properties", a.requireAuth(a.handleProperties))
	mux.HandleFunc("/api/reports", a.requireAuth(a.handleReports))
	mux.HandleFunc("/api/notifications", a.requireAuth(a.handleNotifications))
	mux.HandleFunc("/api/ratings", a.requireAuth(a.handleRatings))

	return a.withMiddleware(mux)
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if r.Method == http.MethodPost {
			if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
				writeFail(w, http.StatusUnsupportedMediaType, "expected application/json")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		// Resolve the session cookie once; handlers read it from the context.
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			if sess, err := a.sessions.Resolve(r.Context(), cookie.Value); err == nil {
				r = r.WithContext(withSession(r.Context(), sess))
			}
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s?action=%s %s", r.Method, r.URL.Path, r.URL.Query().Get("action"), time.Since(startedAt))
	})
}

func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if !ok || !sess.LoggedIn() {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// checkCSRF validates the token submitted with a mutating request. The token
// may arrive in the request body or the X-CSRF-Token header.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request, bodyToken string) bool {
	sess, ok := sessionFromContext(r.Context())
	token := strings.TrimSpace(bodyToken)
	if token == "" {
		token = strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	}
	if !ok || !a.sessions.VerifyCSRF(sess, token) {
		writeFail(w, http.StatusForbidden, "missing or invalid CSRF token")
		return false
	}
	return true
}

// allowAction enforces the named action's fixed window for this session.
func (a *API) allowAction(w http.ResponseWriter, r *http.Request, action string) bool {
	limit, ok := rateLimits[action]
	if !ok {
		return true
	}
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		return true
	}
	allowed := a.sessions.Allow(sess, action, limit.max, limit.window)
	if err := a.sessions.Save(r.Context(), sess); err != nil {
		log.Printf("save session after rate check: %v", err)
	}
	if !allowed {
		writeFail(w, http.StatusTooManyRequests, "too many requests, slow down")
		return false
	}
	return true
}

func (a *API) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.sessions.TTL() / time.Second),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleServiceError maps a service failure onto the response contract:
// validation problems are reported as success=false with a readable message,
// anything else is a generic 500.
func handleServiceError(w http.ResponseWriter, err error) {
	if service.IsValidation(err) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	writeFail(w, http.StatusInternalServerError, err.Error())
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeFail writes a failed envelope. For 5xx responses the message is
// replaced with a generic one so internals (SQL errors, file paths) never
// reach the client.
func writeFail(w http.ResponseWriter, status int, msg string) {
	if status >= 500 {
		log.Printf("internal error (status %d): %s", status, msg)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": msg,
	})
}

func writeOK(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
