package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

func TestDeletePartnerReassignsBookings(t *testing.T) {
	databaseURL := os.Getenv("HOMELAND_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set HOMELAND_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	partnerName := fmt.Sprintf("partner-it-%d", stamp)
	reference := fmt.Sprintf("HLB-IT-%d", stamp)

	var partnerID int64
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO partners (name, commission, created_at)
		VALUES ($1, 10, now())
		RETURNING id
	`, partnerName).Scan(&partnerID); err != nil {
		t.Fatalf("insert partner: %v", err)
	}

	var bookingID int64
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO bookings (
			status, partner_id, booking_reference,
			customer_name, customer_phone, customer_email,
			check_in_date, check_out_date, num_adults, extra_adults, num_kids,
			per_night_cost, per_adult_cost, extra_adult_cost, per_kid_cost,
			discount, discount_type, gst, gst_type, gst_operation,
			tax_withhold, tax_withhold_type, total_amount, payment_status,
			amount_paid, created_at
		)
		VALUES (
			'Confirmed', $1, $2,
			'Integration Guest', '+911234567890', 'guest@example.com',
			'2026-09-01', '2026-09-04', 2, 1, 0,
			1000, 0, 500, 0,
			0, 'percentage', 0, 'percentage', 'add',
			0, 'percentage', 4500, 'Pending',
			0, now()
		)
		RETURNING id
	`, partnerID, reference).Scan(&bookingID); err != nil {
		t.Fatalf("insert booking: %v", err)
	}

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, partnerID)
	})

	if err := s.DeletePartner(ctx, partnerID); err != nil {
		t.Fatalf("delete partner: %v", err)
	}

	var reassigned int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT partner_id FROM bookings WHERE id = $1
	`, bookingID).Scan(&reassigned); err != nil {
		t.Fatalf("query booking: %v", err)
	}
	if reassigned != 1 {
		t.Fatalf("expected booking reassigned to partner 1, got %d", reassigned)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM partners WHERE id = $1
	`, partnerID).Scan(&count); err != nil {
		t.Fatalf("query partner: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected partner to be deleted, still present")
	}
}
