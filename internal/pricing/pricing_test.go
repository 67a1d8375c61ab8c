package pricing

import (
	"errors"
	"testing"
	"time"
)

func baseInput() Input {
	return Input{
		Nights:         3,
		NumAdults:      2,
		PerAdultCost:   1000,
		ExtraAdultCost: 500,
		Discount:       10,
		DiscountType:   TypePercentage,
		GST:            5,
		GSTType:        TypePercentage,
		GSTOperation:   OperationAdd,
	}
}

func TestComputeBreakdown(t *testing.T) {
	b, err := Compute(baseInput(), WithholdAfterDiscount)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if b.Subtotal != 4500 {
		t.Fatalf("subtotal = %v, want 4500", b.Subtotal)
	}
	if b.DiscountAmount != 450 {
		t.Fatalf("discount = %v, want 450", b.DiscountAmount)
	}
	if b.AfterDiscount != 4050 {
		t.Fatalf("after discount = %v, want 4050", b.AfterDiscount)
	}
	if b.GSTAmount != 202.5 {
		t.Fatalf("gst = %v, want 202.5", b.GSTAmount)
	}
	if b.Total != 4252.5 {
		t.Fatalf("total = %v, want 4252.5", b.Total)
	}
}

func TestComputeLegacyNightRateFallback(t *testing.T) {
	in := baseInput()
	in.PerAdultCost = 0
	in.PerNightCost = 1000
	b, err := Compute(in, WithholdAfterDiscount)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if b.Total != 4252.5 {
		t.Fatalf("total = %v, want 4252.5", b.Total)
	}
}

func TestComputeGSTSubtract(t *testing.T) {
	in := baseInput()
	in.GSTOperation = OperationSubtract
	b, err := Compute(in, WithholdAfterDiscount)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if b.Total != 4050-202.5 {
		t.Fatalf("total = %v, want %v", b.Total, 4050-202.5)
	}
}

func TestComputeWithholdBases(t *testing.T) {
	in := baseInput()
	in.TaxWithhold = 10
	in.TaxWithholdType = TypePercentage

	afterDiscount, err := Compute(in, WithholdAfterDiscount)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if afterDiscount.TaxWithholdAmount != 405 {
		t.Fatalf("withhold on discounted base = %v, want 405", afterDiscount.TaxWithholdAmount)
	}

	afterGST, err := Compute(in, WithholdAfterGST)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if afterGST.TaxWithholdAmount != 425.25 {
		t.Fatalf("withhold on gst-inclusive base = %v, want 425.25", afterGST.TaxWithholdAmount)
	}
	if afterGST.Total != 4050+202.5-425.25 {
		t.Fatalf("total = %v, want %v", afterGST.Total, 4050+202.5-425.25)
	}
}

func TestComputeFixedAmounts(t *testing.T) {
	in := baseInput()
	in.Discount = 300
	in.DiscountType = TypeFixed
	in.GST = 100
	in.GSTType = TypeFixed
	in.TaxWithhold = 50
	in.TaxWithholdType = TypeFixed

	b, err := Compute(in, WithholdAfterDiscount)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if b.AfterDiscount != 4200 {
		t.Fatalf("after discount = %v, want 4200", b.AfterDiscount)
	}
	if b.Total != 4200+100-50 {
		t.Fatalf("total = %v, want %v", b.Total, 4200+100-50)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{"zero nights", func(in *Input) { in.Nights = 0 }, ErrInvalidStay},
		{"too long", func(in *Input) { in.Nights = 91 }, ErrInvalidStay},
		{"no adults", func(in *Input) { in.NumAdults = 0 }, ErrInvalidGuests},
		{"too many guests", func(in *Input) { in.NumAdults = 40; in.NumKids = 20 }, ErrInvalidGuests},
		{"negative adult rate", func(in *Input) { in.PerAdultCost = -1 }, ErrNegativeRate},
		{"negative night rate", func(in *Input) { in.PerNightCost = -1 }, ErrNegativeRate},
		{"negative kids", func(in *Input) { in.NumKids = -1 }, ErrInvalidGuests},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.mutate(&in)
			if _, err := Compute(in, WithholdAfterDiscount); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	t.Run("discount over 100 percent", func(t *testing.T) {
		in := baseInput()
		in.Discount = 150
		if _, err := Compute(in, WithholdAfterDiscount); err == nil {
			t.Fatal("expected error for >100%% discount")
		}
	})
}

func TestNights(t *testing.T) {
	day := func(s string) time.Time {
		ts, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return ts
	}
	if got := Nights(day("2026-03-01"), day("2026-03-04")); got != 3 {
		t.Fatalf("nights = %d, want 3", got)
	}
	if got := Nights(day("2026-03-04"), day("2026-03-04")); got != 0 {
		t.Fatalf("nights = %d, want 0", got)
	}
	if got := Nights(day("2026-03-04"), day("2026-03-01")); got >= 0 {
		t.Fatalf("nights = %d, want negative", got)
	}
}
