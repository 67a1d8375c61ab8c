// Package pricing computes booking totals. It is the single authoritative
// implementation of the rate card math; both the API handlers and report
// tooling go through it so the numbers cannot drift.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"

	OperationAdd      = "add"
	OperationSubtract = "subtract"
)

const (
	MaxNights = 90
	MaxGuests = 50
)

// WithholdMode selects the base amount a percentage tax withhold applies to.
type WithholdMode int

const (
	// WithholdAfterDiscount applies the withhold percentage to the
	// discounted subtotal, before GST.
	WithholdAfterDiscount WithholdMode = iota
	// WithholdAfterGST applies it to the discounted subtotal plus GST.
	WithholdAfterGST
)

var (
	ErrInvalidStay   = errors.New("pricing: stay must be between 1 and 90 nights")
	ErrInvalidGuests = errors.New("pricing: invalid guest counts")
	ErrNegativeRate  = errors.New("pricing: rates must not be negative")
)

// Input carries the rate card for one stay. PerAdultCost is the primary
// nightly rate for the first adult; PerNightCost is the name older records
// stored it under and is used only when PerAdultCost is zero.
type Input struct {
	Nights         int
	NumAdults      int
	NumKids        int
	PerAdultCost   float64
	PerNightCost   float64
	ExtraAdultCost float64
	PerKidCost     float64

	Discount     float64
	DiscountType string

	GST          float64
	GSTType      string
	GSTOperation string

	TaxWithhold     float64
	TaxWithholdType string
}

// Breakdown is every intermediate amount, persisted and displayed at full
// precision. Rounding happens only at render time.
type Breakdown struct {
	Nights            int     `json:"nights"`
	Subtotal          float64 `json:"subtotal"`
	DiscountAmount    float64 `json:"discount_amount"`
	AfterDiscount     float64 `json:"after_discount"`
	GSTAmount         float64 `json:"gst_amount"`
	TaxWithholdAmount float64 `json:"tax_withhold_amount"`
	Total             float64 `json:"total"`
}

// Nights counts billable nights between check-in and check-out, rounding any
// partial day up.
func Nights(checkIn, checkOut time.Time) int {
	diff := checkOut.Sub(checkIn).Seconds()
	return int(math.Ceil(diff / 86400))
}

// Compute validates the input and returns the full price breakdown.
func Compute(in Input, mode WithholdMode) (Breakdown, error) {
	if in.Nights <= 0 || in.Nights > MaxNights {
		return Breakdown{}, ErrInvalidStay
	}
	if in.NumAdults < 1 || in.NumKids < 0 || in.NumAdults+in.NumKids > MaxGuests {
		return Breakdown{}, ErrInvalidGuests
	}
	if in.PerAdultCost < 0 || in.PerNightCost < 0 || in.ExtraAdultCost < 0 || in.PerKidCost < 0 {
		return Breakdown{}, ErrNegativeRate
	}
	if in.Discount < 0 || in.GST < 0 || in.TaxWithhold < 0 {
		return Breakdown{}, fmt.Errorf("pricing: discount, gst and tax withhold must not be negative")
	}
	if in.DiscountType == TypePercentage && in.Discount > 100 {
		return Breakdown{}, fmt.Errorf("pricing: percentage discount cannot exceed 100")
	}

	extraAdults := in.NumAdults - 1
	nights := float64(in.Nights)

	primaryRate := in.PerAdultCost
	if primaryRate == 0 {
		primaryRate = in.PerNightCost
	}

	b := Breakdown{Nights: in.Nights}
	b.Subtotal = nights * (primaryRate + in.ExtraAdultCost*float64(extraAdults) + in.PerKidCost*float64(in.NumKids))

	if in.DiscountType == TypePercentage {
		b.DiscountAmount = b.Subtotal * in.Discount / 100
	} else {
		b.DiscountAmount = in.Discount
	}
	b.AfterDiscount = b.Subtotal - b.DiscountAmount

	if in.GSTType == TypePercentage {
		b.GSTAmount = b.AfterDiscount * in.GST / 100
	} else {
		b.GSTAmount = in.GST
	}

	withholdBase := b.AfterDiscount
	if mode == WithholdAfterGST {
		withholdBase = b.AfterDiscount + b.GSTAmount
	}
	if in.TaxWithholdType == TypePercentage {
		b.TaxWithholdAmount = withholdBase * in.TaxWithhold / 100
	} else {
		b.TaxWithholdAmount = in.TaxWithhold
	}

	if in.GSTOperation == OperationSubtract {
		b.Total = b.AfterDiscount - b.GSTAmount - b.TaxWithholdAmount
	} else {
		b.Total = b.AfterDiscount + b.GSTAmount - b.TaxWithholdAmount
	}
	return b, nil
}
