package httpapi

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestBookingCreateAndGet(t *testing.T) {
	c := newTestClient(t)
	c.login()

	resp, body := c.post("/api/bookings?action=create", validBookingPayload(c.csrf))
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("create: status=%d body=%v", resp.StatusCode, body)
	}
	booking, _ := body["booking"].(map[string]any)
	if booking["total_amount"] != 4252.5 {
		t.Fatalf("total = %v, want 4252.5", booking["total_amount"])
	}
	id := booking["id"].(float64)

	_, body = c.get("/api/bookings?action=get&id=1")
	if body["success"] != true {
		t.Fatalf("get: %v", body)
	}
	fetched, _ := body["booking"].(map[string]any)
	if fetched["id"] != id || fetched["customer_name"] != "Asha Rao" {
		t.Fatalf("fetched = %v", fetched)
	}

	_, body = c.get("/api/bookings")
	bookings, _ := body["bookings"].([]any)
	if len(bookings) != 1 {
		t.Fatalf("list length = %d", len(bookings))
	}
}

func TestBookingValidationUsesEnvelope(t *testing.T) {
	c := newTestClient(t)
	c.login()

	payload := validBookingPayload(c.csrf)
	payload["customer_email"] = "not-an-email"
	resp, body := c.post("/api/bookings?action=create", payload)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, validation failures are 200", resp.StatusCode)
	}
	if body["success"] != false {
		t.Fatalf("body = %v", body)
	}
	msg, _ := body["message"].(string)
	if msg == "" {
		t.Fatal("expected a message")
	}

	_, body = c.get("/api/bookings")
	if bookings, _ := body["bookings"].([]any); len(bookings) != 0 {
		t.Fatalf("invalid booking was persisted: %v", bookings)
	}
}

func TestBookingUnknownFieldRejected(t *testing.T) {
	c := newTestClient(t)
	c.login()

	payload := validBookingPayload(c.csrf)
	payload["surprise"] = "field"
	resp, _ := c.post("/api/bookings?action=create", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown field", resp.StatusCode)
	}
}

func TestBookingPaymentUpdate(t *testing.T) {
	c := newTestClient(t)
	c.login()

	if _, body := c.post("/api/bookings?action=create", validBookingPayload(c.csrf)); body["success"] != true {
		t.Fatalf("create: %v", body)
	}

	resp, body := c.post("/api/bookings?action=update", map[string]any{
		"csrf_token":     c.csrf,
		"id":             1,
		"update_mode":    "payment",
		"payment_status": "Partial Paid",
		"amount_paid":    1000,
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("update: status=%d body=%v", resp.StatusCode, body)
	}
	booking, _ := body["booking"].(map[string]any)
	if booking["payment_status"] != "Partial Paid" || booking["customer_name"] != "Asha Rao" {
		t.Fatalf("booking = %v", booking)
	}

	_, body = c.get("/api/notifications?unread_only=true")
	notifications, _ := body["notifications"].([]any)
	foundPendingPayment := false
	for _, raw := range notifications {
		n := raw.(map[string]any)
		if n["type"] == "pending_payment" {
			foundPendingPayment = true
		}
	}
	if !foundPendingPayment {
		t.Fatalf("no pending_payment notification: %v", notifications)
	}
}

func TestBookingQuote(t *testing.T) {
	c := newTestClient(t)
	c.login()

	resp, body := c.post("/api/bookings?action=quote", validBookingPayload(c.csrf))
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("quote: status=%d body=%v", resp.StatusCode, body)
	}
	quote, _ := body["quote"].(map[string]any)
	if quote["total"] != 4252.5 || quote["nights"] != float64(3) {
		t.Fatalf("quote = %v", quote)
	}

	_, body = c.get("/api/bookings")
	if bookings, _ := body["bookings"].([]any); len(bookings) != 0 {
		t.Fatal("quote must not persist a booking")
	}
}

func TestPartnerLifecycle(t *testing.T) {
	c := newTestClient(t)
	c.login()

	resp, body := c.post("/api/partners?action=add", map[string]any{
		"csrf_token": c.csrf,
		"name":       "Seaside Travel",
		"commission": 12.5,
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("create: status=%d body=%v", resp.StatusCode, body)
	}
	partner, _ := body["partner"].(map[string]any)
	id := partner["id"].(float64)

	_, body = c.post("/api/partners?action=update", map[string]any{
		"csrf_token": c.csrf,
		"id":         id,
		"name":       "Seaside Travel Co",
		"commission": 15,
	})
	if body["success"] != true {
		t.Fatalf("update: %v", body)
	}

	_, body = c.get("/api/partners")
	partners, _ := body["partners"].([]any)
	if len(partners) != 2 {
		t.Fatalf("partners = %d, want 2 (Direct Booking + created)", len(partners))
	}

	_, body = c.post("/api/partners?action=delete", map[string]any{
		"csrf_token": c.csrf,
		"id":         id,
	})
	if body["success"] != true {
		t.Fatalf("delete: %v", body)
	}

	// The seeded direct channel refuses deletion.
	_, body = c.post("/api/partners?action=delete", map[string]any{
		"csrf_token": c.csrf,
		"id":         1,
	})
	if body["success"] != false {
		t.Fatalf("direct channel delete should fail: %v", body)
	}
}

func TestBookingCalendar(t *testing.T) {
	c := newTestClient(t)
	c.login()

	now := time.Now().UTC()
	upcoming := validBookingPayload(c.csrf)
	upcoming["status"] = "Confirmed"
	upcoming["check_in_date"] = now.AddDate(0, 0, 7).Format("2006-01-02")
	upcoming["check_out_date"] = now.AddDate(0, 0, 10).Format("2006-01-02")
	if _, body := c.post("/api/bookings?action=create", upcoming); body["success"] != true {
		t.Fatalf("create upcoming: %v", body)
	}

	cancelled := validBookingPayload(c.csrf)
	cancelled["status"] = "Cancelled"
	cancelled["check_in_date"] = now.AddDate(0, 0, 7).Format("2006-01-02")
	cancelled["check_out_date"] = now.AddDate(0, 0, 10).Format("2006-01-02")
	if _, body := c.post("/api/bookings?action=create", cancelled); body["success"] != true {
		t.Fatalf("create cancelled: %v", body)
	}

	_, body := c.get("/api/bookings?action=calendar")
	if body["success"] != true {
		t.Fatalf("calendar: %v", body)
	}
	bookings, _ := body["bookings"].([]any)
	if len(bookings) != 1 {
		t.Fatalf("calendar bookings = %d, want 1 (cancelled excluded)", len(bookings))
	}
	entry := bookings[0].(map[string]any)
	if entry["status"] != "Confirmed" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	c := newTestClient(t)
	c.login()

	if _, body := c.post("/api/bookings?action=create", validBookingPayload(c.csrf)); body["success"] != true {
		t.Fatalf("create: %v", body)
	}

	_, body := c.get("/api/bookings?action=dashboard")
	if body["success"] != true {
		t.Fatalf("dashboard: %v", body)
	}
	dashboard, _ := body["dashboard"].(map[string]any)
	if _, ok := dashboard["stats"]; !ok {
		t.Fatalf("dashboard = %v", dashboard)
	}
}

func TestReportJSONAndCSV(t *testing.T) {
	c := newTestClient(t)
	c.login()

	payload := validBookingPayload(c.csrf)
	payload["status"] = "Confirmed"
	if _, body := c.post("/api/bookings?action=create", payload); body["success"] != true {
		t.Fatalf("create: %v", body)
	}

	resp, body := c.get("/api/reports?type=monthly&period=2026-09")
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("report: status=%d body=%v", resp.StatusCode, body)
	}
	report, _ := body["report"].(map[string]any)
	summary, _ := report["summary"].(map[string]any)
	if summary["total_bookings"] != float64(1) || summary["total_revenue"] != 4252.5 {
		t.Fatalf("summary = %v", summary)
	}

	resp, body = c.get("/api/reports?type=monthly&period=2026-09&format=csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("csv status = %d", resp.StatusCode)
	}
	raw, _ := body["_raw"].(string)
	if !strings.Contains(raw, "total_revenue,,4252.50") {
		t.Fatalf("csv output missing revenue line:\n%s", raw)
	}

	resp, body = c.get("/api/reports?type=monthly&period=2026-09&format=html")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("html status = %d", resp.StatusCode)
	}
	raw, _ = body["_raw"].(string)
	if !strings.Contains(raw, "<h3>By Partner</h3>") {
		t.Fatalf("html output unexpected:\n%s", raw)
	}
}

func TestReportEmptyRange(t *testing.T) {
	c := newTestClient(t)
	c.login()

	_, body := c.get("/api/reports?type=monthly&start_date=2031-01-01&end_date=2031-01-31")
	if body["success"] != true {
		t.Fatalf("report: %v", body)
	}
	report, _ := body["report"].(map[string]any)
	summary, _ := report["summary"].(map[string]any)
	if summary["total_bookings"] != float64(0) || summary["average_booking_value"] != float64(0) {
		t.Fatalf("summary = %v", summary)
	}
}

func TestRatingEndpoints(t *testing.T) {
	c := newTestClient(t)
	c.login()

	if _, body := c.post("/api/bookings?action=create", validBookingPayload(c.csrf)); body["success"] != true {
		t.Fatalf("create booking: %v", body)
	}

	resp, body := c.post("/api/ratings?action=create", map[string]any{
		"csrf_token": c.csrf,
		"booking_id": 1,
		"rating":     5,
		"notes":      "left the place spotless",
	})
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("create rating: status=%d body=%v", resp.StatusCode, body)
	}

	_, body = c.get("/api/ratings?action=get&booking_id=1")
	if body["success"] != true {
		t.Fatalf("get rating: %v", body)
	}
	rating, _ := body["rating"].(map[string]any)
	if rating["rating"] != float64(5) || rating["customer_name"] != "Asha Rao" {
		t.Fatalf("rating = %v", rating)
	}

	_, body = c.post("/api/ratings?action=create", map[string]any{
		"csrf_token": c.csrf,
		"booking_id": 1,
		"rating":     2,
	})
	if body["success"] != false {
		t.Fatalf("duplicate rating should fail: %v", body)
	}
}

func publicEnquiryPayload(csrf string) map[string]any {
	now := time.Now().UTC()
	return map[string]any{
		"csrf_token":     csrf,
		"customer_name":  "Meera Pillai",
		"customer_phone": "+919812345678",
		"customer_email": "meera@example.com",
		"check_in_date":  now.AddDate(0, 0, 14).Format("2006-01-02"),
		"check_out_date": now.AddDate(0, 0, 17).Format("2006-01-02"),
		"num_adults":     2,
		"num_kids":       1,
		"message":        "is early check-in possible?",
	}
}

func TestPublicBookingEnquiry(t *testing.T) {
	c := newTestClient(t)
	c.fetchCSRF()

	resp, body := c.post("/api/public/bookings", publicEnquiryPayload(c.csrf))
	if resp.StatusCode != http.StatusOK || body["success"] != true {
		t.Fatalf("enquiry: status=%d body=%v", resp.StatusCode, body)
	}
	reference, _ := body["booking_reference"].(string)
	if reference == "" {
		t.Fatalf("no booking reference in response: %v", body)
	}

	// The enquiry lands in the operator's queue with a notification.
	c.login()
	_, body = c.get("/api/bookings?action=get&id=1")
	booking, _ := body["booking"].(map[string]any)
	if booking["status"] != "Enquiry" || booking["booking_reference"] != reference {
		t.Fatalf("booking = %v", booking)
	}
	_, body = c.get("/api/notifications?unread_only=true")
	notifications, _ := body["notifications"].([]any)
	foundRequest := false
	for _, raw := range notifications {
		if raw.(map[string]any)["type"] == "pending_request" {
			foundRequest = true
		}
	}
	if !foundRequest {
		t.Fatalf("no pending_request notification: %v", notifications)
	}
}

func TestPublicBookingEnquiryGuestCap(t *testing.T) {
	c := newTestClient(t)
	c.fetchCSRF()

	payload := publicEnquiryPayload(c.csrf)
	payload["num_adults"] = 21
	resp, body := c.post("/api/public/bookings", payload)
	if resp.StatusCode != http.StatusOK || body["success"] != false {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "20") {
		t.Fatalf("message = %q", msg)
	}

	c.login()
	_, body = c.get("/api/bookings")
	if bookings, _ := body["bookings"].([]any); len(bookings) != 0 {
		t.Fatalf("over-cap enquiry was persisted: %v", bookings)
	}
}

func TestPublicBookingEnquiryRejectsPastCheckIn(t *testing.T) {
	c := newTestClient(t)
	c.fetchCSRF()

	now := time.Now().UTC()
	payload := publicEnquiryPayload(c.csrf)
	payload["check_in_date"] = now.AddDate(0, 0, -3).Format("2006-01-02")
	payload["check_out_date"] = now.AddDate(0, 0, 1).Format("2006-01-02")
	resp, body := c.post("/api/public/bookings", payload)
	if resp.StatusCode != http.StatusOK || body["success"] != false {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
}
