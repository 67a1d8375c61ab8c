package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	c := newTestClient(t)

	for _, path := range []string{
		"/api/bookings",
		"/api/partners",
		"/api/properties",
		"/api/reports?type=monthly",
		"/api/notifications",
		"/api/ratings",
	} {
		resp, body := c.get(path)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, resp.StatusCode)
		}
		if body["success"] != false {
			t.Errorf("GET %s body = %v", path, body)
		}
	}
}

func TestCSRFTokenRequired(t *testing.T) {
	c := newTestClient(t)
	c.login()

	payload := validBookingPayload("")
	resp, _ := c.post("/api/bookings?action=create", payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("missing token status = %d, want 403", resp.StatusCode)
	}

	payload = validBookingPayload("deadbeef")
	resp, _ = c.post("/api/bookings?action=create", payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("wrong token status = %d, want 403", resp.StatusCode)
	}

	_, body := c.get("/api/bookings")
	if bookings, _ := body["bookings"].([]any); len(bookings) != 0 {
		t.Fatalf("forged request was persisted: %v", bookings)
	}
}

func TestCSRFHeaderAccepted(t *testing.T) {
	c := newTestClient(t)
	c.login()

	payload := validBookingPayload("")
	delete(payload, "csrf_token")
	req, err := http.NewRequest(http.MethodPost, c.server.URL+"/api/bookings?action=create", jsonBody(t, payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", c.csrf)

	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("header token rejected: status=%d body=%v", resp.StatusCode, body)
	}
}

func TestPostRequiresJSONContentType(t *testing.T) {
	c := newTestClient(t)
	c.login()

	resp, err := c.http.Post(c.server.URL+"/api/bookings?action=create", "text/plain", strings.NewReader("csrf="+c.csrf))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	c := newTestClient(t)
	c.login()

	req, err := http.NewRequest(http.MethodDelete, c.server.URL+"/api/bookings", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestSecurityHeaders(t *testing.T) {
	c := newTestClient(t)

	resp, _ := c.get("/healthz")
	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}
	for name, want := range headers {
		if got := resp.Header.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	c := newTestClient(t)

	req, err := http.NewRequest(http.MethodOptions, c.server.URL+"/api/bookings", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("allow-credentials = %q", got)
	}
}

func TestBookingCreateRateLimited(t *testing.T) {
	c := newTestClient(t)
	c.login()

	// 20 creates per minute; the payload reuses the same dates so each one
	// succeeds independently.
	for i := 0; i < 20; i++ {
		resp, body := c.post("/api/bookings?action=create", validBookingPayload(c.csrf))
		if resp.StatusCode != http.StatusOK || body["success"] != true {
			t.Fatalf("create %d: status=%d body=%v", i+1, resp.StatusCode, body)
		}
	}
	resp, _ := c.post("/api/bookings?action=create", validBookingPayload(c.csrf))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("create 21 status = %d, want 429", resp.StatusCode)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	c := newTestClient(t)
	c.login()

	if _, body := c.post("/api/auth?action=logout", map[string]any{"csrf_token": c.csrf}); body["success"] != true {
		t.Fatalf("logout: %v", body)
	}

	resp, _ := c.get("/api/bookings")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", resp.StatusCode)
	}
}

func TestPublicEnquiryRateLimited(t *testing.T) {
	c := newTestClient(t)
	c.fetchCSRF()

	// 5 submissions per session per hour.
	for i := 0; i < 5; i++ {
		resp, body := c.post("/api/public/bookings", publicEnquiryPayload(c.csrf))
		if resp.StatusCode != http.StatusOK || body["success"] != true {
			t.Fatalf("enquiry %d: status=%d body=%v", i+1, resp.StatusCode, body)
		}
	}
	resp, _ := c.post("/api/public/bookings", publicEnquiryPayload(c.csrf))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("enquiry 6 status = %d, want 429", resp.StatusCode)
	}
}

func TestPublicEnquiryRequiresCSRF(t *testing.T) {
	c := newTestClient(t)
	c.fetchCSRF()

	payload := publicEnquiryPayload("wrong-token")
	resp, _ := c.post("/api/public/bookings", payload)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}
