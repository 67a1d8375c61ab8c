package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"homeland/backend/internal/pricing"
	"homeland/backend/internal/service"
	"homeland/backend/internal/session"
	"homeland/backend/internal/store/memory"
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
	csrf   string
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()

	svc := service.New(memory.NewSeeded(), pricing.WithholdAfterDiscount)
	sessions := session.NewManager(session.NewMemoryStore(), []byte("test-secret"), time.Hour)
	api := New(svc, sessions, "http://localhost:3000", false)

	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &testClient{
		t:      t,
		server: server,
		http:   &http.Client{Jar: jar},
	}
}

func (c *testClient) get(path string) (*http.Response, map[string]any) {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	if err != nil {
		c.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decodeBody(c.t, resp)
}

func (c *testClient) post(path string, payload map[string]any) (*http.Response, map[string]any) {
	c.t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	resp, err := c.http.Post(c.server.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		c.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeBody(c.t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(raw) == 0 {
		return nil
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		// Non-JSON exports (CSV, HTML) land here.
		return map[string]any{"_raw": string(raw)}
	}
	return body
}

// fetchCSRF starts a session and remembers the token for later requests.
func (c *testClient) fetchCSRF() string {
	c.t.Helper()
	resp, body := c.get("/api/auth?action=csrf")
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("csrf status = %d", resp.StatusCode)
	}
	token, _ := body["csrf_token"].(string)
	if token == "" {
		c.t.Fatal("no csrf token in response")
	}
	c.csrf = token
	return token
}

func (c *testClient) login() {
	c.t.Helper()
	c.fetchCSRF()
	resp, body := c.post("/api/auth?action=login", map[string]any{
		"csrf_token": c.csrf,
		"username":   "admin",
		"password":   "admin123",
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		c.t.Fatalf("login failed: status=%d body=%v", resp.StatusCode, body)
	}
}

func validBookingPayload(csrf string) map[string]any {
	return map[string]any{
		"csrf_token":       csrf,
		"customer_name":    "Asha Rao",
		"customer_phone":   "+919876543210",
		"customer_email":   "asha@example.com",
		"check_in_date":    "2026-09-01",
		"check_out_date":   "2026-09-04",
		"num_adults":       2,
		"per_adult_cost":   1000,
		"extra_adult_cost": 500,
		"discount":         10,
		"discount_type":    "percentage",
		"gst":              5,
		"gst_type":         "percentage",
		"gst_operation":    "add",
	}
}

func jsonBody(t *testing.T, payload map[string]any) io.Reader {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(body)
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return parsed
}

func TestHealthz(t *testing.T) {
	c := newTestClient(t)
	resp, body := c.get("/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}
