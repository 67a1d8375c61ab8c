package httpapi

import (
	"net/http"

	"homeland/backend/internal/domain"
)

// handleAuth is the only endpoint reachable without a logged-in session.
// GET  ?action=csrf   issues (or reuses) a session and returns its CSRF token
// GET  ?action=check  reports whether the session is authenticated
// POST ?action=login | logout | change-password
func (a *API) handleAuth(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "csrf":
			a.handleCSRFToken(w, r)
		case "check":
			a.handleAuthStatus(w, r)
		default:
			writeFail(w, http.StatusBadRequest, "unknown auth action")
		}
	case http.MethodPost:
		switch action {
		case "login":
			a.handleLogin(w, r)
		case "logout":
			a.handleLogout(w, r)
		case "change-password":
			a.handleChangePassword(w, r)
		default:
			writeFail(w, http.StatusBadRequest, "unknown auth action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}

// handleCSRFToken starts an anonymous session on first contact. The login
// form fetches this before submitting.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		created, token, err := a.sessions.Create(r.Context())
		if err != nil {
			writeFail(w, http.StatusInternalServerError, err.Error())
			return
		}
		a.setSessionCookie(w, token)
		sess = created
	}
	writeOK(w, map[string]any{"csrf_token": sess.CSRFToken})
}

func (a *API) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok {
		writeOK(w, map[string]any{"logged_in": false})
		return
	}
	payload := map[string]any{
		"logged_in":  sess.LoggedIn(),
		"csrf_token": sess.CSRFToken,
	}
	if sess.LoggedIn() {
		payload["user"] = domain.AuthUser{
			ID:       sess.UserID,
			Username: sess.Username,
			Name:     sess.Name,
		}
	}
	writeOK(w, payload)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !a.checkCSRF(w, r, req.CSRFToken) {
		return
	}
	if !a.allowAction(w, r, "login") {
		return
	}

	user, err := a.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sess, _ := sessionFromContext(r.Context())
	token, err := a.sessions.Promote(r.Context(), sess, user.ID, user.Username, user.Name)
	if err != nil {
		writeFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.setSessionCookie(w, token)
	writeOK(w, map[string]any{"user": user})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok || !sess.LoggedIn() {
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !a.checkCSRF(w, r, req.CSRFToken) {
		return
	}

	if err := a.sessions.Destroy(r.Context(), sess); err != nil {
		writeFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.clearSessionCookie(w)
	writeOK(w, nil)
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFromContext(r.Context())
	if !ok || !sess.LoggedIn() {
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req domain.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !a.checkCSRF(w, r, req.CSRFToken) {
		return
	}

	if err := a.service.ChangePassword(r.Context(), sess.Username, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{"message": "password updated"})
}
