package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homeland/backend/internal/domain"
	"homeland/backend/internal/pricing"
	"homeland/backend/internal/store"
	"homeland/backend/internal/xid"
)

// ValidationError carries a message safe to show to the operator. Anything
// else that goes wrong is reported generically by the HTTP layer.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

type Service struct {
	repo         store.Repository
	withholdMode pricing.WithholdMode
}

func New(repo store.Repository, withholdMode pricing.WithholdMode) *Service {
	return &Service{repo: repo, withholdMode: withholdMode}
}

var phonePattern = regexp.MustCompile(`^[+]?[0-9]{7,15}$`)

func normalizePhone(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if !phonePattern.MatchString(cleaned) {
		return "", invalidf("invalid phone number")
	}
	return cleaned, nil
}

func validateEmail(email string) error {
	if strings.ContainsAny(email, "\r\n") {
		return invalidf("invalid email address")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalidf("invalid email address")
	}
	return nil
}

func parseStay(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(domain.DateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, invalidf("invalid check-in date")
	}
	out, err := time.Parse(domain.DateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, invalidf("invalid check-out date")
	}
	return in, out, nil
}

// Bookings

func (s *Service) CreateBooking(ctx context.Context, req domain.BookingCreateRequest) (*domain.Booking, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.CustomerName == "" {
		return nil, invalidf("customer name is required")
	}
	if err := validateEmail(req.CustomerEmail); err != nil {
		return nil, err
	}
	phone, err := normalizePhone(req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	if req.CheckInDate == "" || req.CheckOutDate == "" {
		return nil, invalidf("check-in and check-out dates are required")
	}

	status := req.Status
	if status == "" {
		status = domain.BookingStatusEnquiry
	}
	if !domain.ValidBookingStatus(status) {
		return nil, invalidf("invalid booking status")
	}

	booking := domain.Booking{
		Status:           status,
		PropertyID:       req.PropertyID,
		PartnerID:        req.PartnerID,
		BookingReference: strings.TrimSpace(req.BookingReference),
		CustomerName:     req.CustomerName,
		CustomerPhone:    phone,
		CustomerEmail:    req.CustomerEmail,
		CustomerState:    strings.TrimSpace(req.CustomerState),
		CheckInDate:      req.CheckInDate,
		CheckOutDate:     req.CheckOutDate,
		NumAdults:        req.NumAdults,
		ExtraAdults:      req.ExtraAdults,
		NumKids:          req.NumKids,
		PerNightCost:     req.PerNightCost,
		PerAdultCost:     req.PerAdultCost,
		ExtraAdultCost:   req.ExtraAdultCost,
		PerKidCost:       req.PerKidCost,
		Discount:         req.Discount,
		DiscountType:     req.DiscountType,
		GST:              req.GST,
		GSTType:          req.GSTType,
		GSTOperation:     req.GSTOperation,
		TaxWithhold:      req.TaxWithhold,
		TaxWithholdType:  req.TaxWithholdType,
		PaymentStatus:    domain.PaymentStatusPending,
		Message:          strings.TrimSpace(req.Message),
	}
	applyBookingDefaults(&booking)
	if booking.BookingReference == "" {
		booking.BookingReference = xid.New("HLB")
	}

	if err := s.priceBooking(&booking); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateBooking(ctx, booking)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, invalidf("unknown partner or property")
		}
		return nil, err
	}

	if created.Status == domain.BookingStatusEnquiry {
		id := created.ID
		_, err := s.repo.CreateNotification(ctx, domain.Notification{
			Type:      domain.NotificationPendingRequest,
			Title:     "New Booking Request",
			Message:   fmt.Sprintf("%s requested %s to %s", created.CustomerName, created.CheckInDate, created.CheckOutDate),
			BookingID: &id,
		})
		if err != nil {
			return nil, err
		}
	}
	return created, nil
}

func applyBookingDefaults(b *domain.Booking) {
	if b.NumAdults < 1 {
		b.NumAdults = 1
	}
	b.ExtraAdults = b.NumAdults - 1
	if b.DiscountType == "" {
		b.DiscountType = pricing.TypePercentage
	}
	if b.GSTType == "" {
		b.GSTType = pricing.TypePercentage
	}
	if b.GSTOperation == "" {
		b.GSTOperation = pricing.OperationAdd
	}
	if b.TaxWithholdType == "" {
		b.TaxWithholdType = pricing.TypePercentage
	}
}

// Guest counts on requests from the public site are capped tighter than
// operator-entered bookings.
const maxPublicGuests = 20

// CreatePublicEnquiry records a booking request submitted from the public
// site. It always lands as an Enquiry on the direct channel, with no rates;
// the operator prices it when confirming.
func (s *Service) CreatePublicEnquiry(ctx context.Context, req domain.PublicEnquiryRequest) (*domain.Booking, error) {
	if req.NumAdults < 1 {
		return nil, invalidf("at least 1 adult is required")
	}
	if req.NumAdults > maxPublicGuests || req.NumKids > maxPublicGuests {
		return nil, invalidf("maximum %d guests per booking", maxPublicGuests)
	}
	in, _, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if in.Before(today) {
		return nil, invalidf("check-in date cannot be in the past")
	}
	return s.CreateBooking(ctx, domain.BookingCreateRequest{
		Status:        domain.BookingStatusEnquiry,
		PartnerID:     1,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CheckInDate:   req.CheckInDate,
		CheckOutDate:  req.CheckOutDate,
		NumAdults:     req.NumAdults,
		NumKids:       req.NumKids,
		Message:       strings.TrimSpace(req.Message),
	})
}

// priceBooking validates the stay and, when an adult rate is set, computes
// the authoritative total.
func (s *Service) priceBooking(b *domain.Booking) error {
	in, out, err := parseStay(b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return err
	}
	nights := pricing.Nights(in, out)
	breakdown, err := pricing.Compute(pricing.Input{
		Nights:          nights,
		NumAdults:       b.NumAdults,
		NumKids:         b.NumKids,
		PerAdultCost:    b.PerAdultCost,
		PerNightCost:    b.PerNightCost,
		ExtraAdultCost:  b.ExtraAdultCost,
		PerKidCost:      b.PerKidCost,
		Discount:        b.Discount,
		DiscountType:    b.DiscountType,
		GST:             b.GST,
		GSTType:         b.GSTType,
		GSTOperation:    b.GSTOperation,
		TaxWithhold:     b.TaxWithhold,
		TaxWithholdType: b.TaxWithholdType,
	}, s.withholdMode)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidStay):
			return invalidf("stay must be between 1 and %d nights", pricing.MaxNights)
		case errors.Is(err, pricing.ErrInvalidGuests):
			return invalidf("guest counts are out of range")
		default:
			return invalidf("%s", strings.TrimPrefix(err.Error(), "pricing: "))
		}
	}
	if b.PerAdultCost > 0 || b.PerNightCost > 0 {
		b.TotalAmount = breakdown.Total
	}
	return nil
}

// Quote runs the pricing engine without persisting anything, for the booking
// form preview.
func (s *Service) Quote(ctx context.Context, req domain.BookingCreateRequest) (*pricing.Breakdown, error) {
	in, out, err := parseStay(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	booking := domain.Booking{
		NumAdults:       req.NumAdults,
		NumKids:         req.NumKids,
		PerAdultCost:    req.PerAdultCost,
		PerNightCost:    req.PerNightCost,
		ExtraAdultCost:  req.ExtraAdultCost,
		PerKidCost:      req.PerKidCost,
		Discount:        req.Discount,
		DiscountType:    req.DiscountType,
		GST:             req.GST,
		GSTType:         req.GSTType,
		GSTOperation:    req.GSTOperation,
		TaxWithhold:     req.TaxWithhold,
		TaxWithholdType: req.TaxWithholdType,
	}
	applyBookingDefaults(&booking)
	breakdown, err := pricing.Compute(pricing.Input{
		Nights:          pricing.Nights(in, out),
		NumAdults:       booking.NumAdults,
		NumKids:         booking.NumKids,
		PerAdultCost:    booking.PerAdultCost,
		PerNightCost:    booking.PerNightCost,
		ExtraAdultCost:  booking.ExtraAdultCost,
		PerKidCost:      booking.PerKidCost,
		Discount:        booking.Discount,
		DiscountType:    booking.DiscountType,
		GST:             booking.GST,
		GSTType:         booking.GSTType,
		GSTOperation:    booking.GSTOperation,
		TaxWithhold:     booking.TaxWithhold,
		TaxWithholdType: booking.TaxWithholdType,
	}, s.withholdMode)
	if err != nil {
		return nil, invalidf("%s", strings.TrimPrefix(err.Error(), "pricing: "))
	}
	return &breakdown, nil
}

func (s *Service) GetBooking(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.ListBookings(ctx)
}

// CalendarBookings returns the bookings the calendar view renders: active
// statuses only, including stays that ended within the last 30 days.
func (s *Service) CalendarBookings(ctx context.Context) ([]domain.Booking, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.repo.ListCalendarBookings(ctx, today.AddDate(0, 0, -30))
}

// paymentOnly reports whether the patch should be treated as a payment
// update. An explicit update_mode wins; otherwise fall back to detecting the
// payment form, which never submits customer or date fields.
func paymentOnly(req domain.BookingUpdateRequest) (bool, error) {
	switch req.UpdateMode {
	case domain.UpdateModePayment:
		return true, nil
	case domain.UpdateModeFull:
		return false, nil
	case "":
		return req.CustomerName == nil && req.CheckInDate == nil &&
			(req.PaymentStatus != nil || req.AmountPaid != nil), nil
	default:
		return false, invalidf("invalid update mode")
	}
}

func (s *Service) UpdateBooking(ctx context.Context, req domain.BookingUpdateRequest) (*domain.Booking, error) {
	if req.ID < 1 {
		return nil, invalidf("booking id is required")
	}
	existing, err := s.repo.GetBooking(ctx, req.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidf("booking not found")
		}
		return nil, err
	}

	payment, err := paymentOnly(req)
	if err != nil {
		return nil, err
	}

	updated := existing.Booking
	repriced := false
	if payment {
		applyPaymentPatch(&updated, req)
	} else {
		repriced, err = s.applyFullPatch(&updated, req)
		if err != nil {
			return nil, err
		}
	}

	if req.PaymentStatus != nil && !domain.ValidPaymentStatus(updated.PaymentStatus) {
		return nil, invalidf("invalid payment status")
	}
	if updated.AmountPaid < 0 {
		return nil, invalidf("amount paid must not be negative")
	}
	if repriced {
		if err := s.priceBooking(&updated); err != nil {
			return nil, err
		}
	}

	saved, err := s.repo.UpdateBooking(ctx, updated)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, invalidf("unknown partner or property")
		}
		return nil, err
	}

	if err := s.ensurePendingPaymentNotification(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func applyPaymentPatch(b *domain.Booking, req domain.BookingUpdateRequest) {
	if req.PaymentStatus != nil {
		b.PaymentStatus = *req.PaymentStatus
	}
	if req.PaymentMethod != nil {
		b.PaymentMethod = *req.PaymentMethod
	}
	if req.AmountPaid != nil {
		b.AmountPaid = *req.AmountPaid
	}
}

// applyFullPatch merges the patch into the booking and reports whether any
// pricing input changed.
func (s *Service) applyFullPatch(b *domain.Booking, req domain.BookingUpdateRequest) (bool, error) {
	repriced := false

	if req.Status != nil {
		if !domain.ValidBookingStatus(*req.Status) {
			return false, invalidf("invalid booking status")
		}
		b.Status = *req.Status
	}
	if req.PropertyID != nil {
		b.PropertyID = req.PropertyID
	}
	if req.PartnerID != nil {
		b.PartnerID = *req.PartnerID
	}
	if req.BookingReference != nil {
		b.BookingReference = strings.TrimSpace(*req.BookingReference)
	}
	if req.CustomerName != nil {
		b.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerPhone != nil {
		phone, err := normalizePhone(*req.CustomerPhone)
		if err != nil {
			return false, err
		}
		b.CustomerPhone = phone
	}
	if req.CustomerEmail != nil {
		email := strings.TrimSpace(*req.CustomerEmail)
		if err := validateEmail(email); err != nil {
			return false, err
		}
		b.CustomerEmail = email
	}
	if req.CustomerState != nil {
		b.CustomerState = strings.TrimSpace(*req.CustomerState)
	}
	if req.CheckInDate != nil {
		b.CheckInDate = *req.CheckInDate
		repriced = true
	}
	if req.CheckOutDate != nil {
		b.CheckOutDate = *req.CheckOutDate
		repriced = true
	}
	if req.NumAdults != nil {
		b.NumAdults = *req.NumAdults
		b.ExtraAdults = b.NumAdults - 1
		repriced = true
	}
	if req.NumKids != nil {
		b.NumKids = *req.NumKids
		repriced = true
	}
	if req.PerNightCost != nil {
		b.PerNightCost = *req.PerNightCost
		repriced = true
	}
	if req.PerAdultCost != nil {
		b.PerAdultCost = *req.PerAdultCost
		repriced = true
	}
	if req.ExtraAdultCost != nil {
		b.ExtraAdultCost = *req.ExtraAdultCost
		repriced = true
	}
	if req.PerKidCost != nil {
		b.PerKidCost = *req.PerKidCost
		repriced = true
	}
	if req.Discount != nil {
		b.Discount = *req.Discount
		repriced = true
	}
	if req.DiscountType != nil {
		b.DiscountType = *req.DiscountType
		repriced = true
	}
	if req.GST != nil {
		b.GST = *req.GST
		repriced = true
	}
	if req.GSTType != nil {
		b.GSTType = *req.GSTType
		repriced = true
	}
	if req.GSTOperation != nil {
		b.GSTOperation = *req.GSTOperation
		repriced = true
	}
	if req.TaxWithhold != nil {
		b.TaxWithhold = *req.TaxWithhold
		repriced = true
	}
	if req.TaxWithholdType != nil {
		b.TaxWithholdType = *req.TaxWithholdType
		repriced = true
	}
	if req.TotalAmount != nil {
		b.TotalAmount = *req.TotalAmount
	}
	if req.Message != nil {
		b.Message = strings.TrimSpace(*req.Message)
	}
	applyPaymentPatch(b, req)
	applyBookingDefaults(b)

	if b.CustomerName == "" {
		return false, invalidf("customer name is required")
	}
	if b.CustomerPhone == "" || b.CustomerEmail == "" {
		return false, invalidf("customer phone and email are required")
	}
	if b.CheckInDate == "" || b.CheckOutDate == "" {
		return false, invalidf("check-in and check-out dates are required")
	}
	return repriced, nil
}

// ensurePendingPaymentNotification inserts an unpaid-balance reminder unless
// an unread one already exists. The check and the insert are separate store
// calls, so concurrent updates can insert twice; the reminder is advisory.
func (s *Service) ensurePendingPaymentNotification(ctx context.Context, b *domain.Booking) error {
	if b.PaymentStatus != domain.PaymentStatusPartialPaid || b.AmountPaid >= b.TotalAmount {
		return nil
	}
	exists, err := s.repo.HasUnreadNotification(ctx, domain.NotificationPendingPayment, b.ID)
	if err != nil || exists {
		return err
	}
	id := b.ID
	_, err = s.repo.CreateNotification(ctx, domain.Notification{
		Type:      domain.NotificationPendingPayment,
		Title:     "Pending Payment",
		Message:   fmt.Sprintf("%s has an outstanding balance of %.2f", b.CustomerName, b.TotalAmount-b.AmountPaid),
		BookingID: &id,
	})
	return err
}

// Dashboard

func (s *Service) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	monthBookings, err := s.repo.ListBookingsByCheckIn(ctx, domain.BookingStatusConfirmed, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	var monthRevenue, totalValue float64
	for _, b := range monthBookings {
		totalValue += b.TotalAmount
		if b.PaymentStatus == domain.PaymentStatusPaid {
			monthRevenue += b.TotalAmount
		}
	}
	avgValue := 0.0
	if len(monthBookings) > 0 {
		avgValue = totalValue / float64(len(monthBookings))
	}
	occupancy := len(monthBookings) * 10
	if occupancy > 100 {
		occupancy = 100
	}

	pendingRequests, err := s.repo.ListBookingsByStatus(ctx, domain.BookingStatusEnquiry, 5)
	if err != nil {
		return nil, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	upcoming, err := s.repo.ListUpcomingBookings(ctx, today, 5)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.repo.ListUnpaidBookings(ctx, 0)
	if err != nil {
		return nil, err
	}
	pendingPayments := unpaid
	if len(pendingPayments) > 5 {
		pendingPayments = pendingPayments[:5]
	}

	return &domain.Dashboard{
		Stats: domain.DashboardStats{
			OccupancyRate:   occupancy,
			AvgBookingValue: avgValue,
			MonthRevenue:    monthRevenue,
			PendingPayments: len(unpaid),
		},
		PendingRequests:  pendingRequests,
		UpcomingBookings: upcoming,
		PendingPayments:  pendingPayments,
	}, nil
}

// Partners

func (s *Service) CreatePartner(ctx context.Context, req domain.PartnerRequest) (*domain.Partner, error) {
	partner, err := partnerFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.repo.CreatePartner(ctx, *partner)
}

func (s *Service) UpdatePartner(ctx context.Context, req domain.PartnerRequest) (*domain.Partner, error) {
	if req.ID < 1 {
		return nil, invalidf("partner id is required")
	}
	partner, err := partnerFromRequest(req)
	if err != nil {
		return nil, err
	}
	partner.ID = req.ID
	updated, err := s.repo.UpdatePartner(ctx, *partner)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("partner not found")
	}
	return updated, err
}

func partnerFromRequest(req domain.PartnerRequest) (*domain.Partner, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("partner name is required")
	}
	if req.Commission < 0 || req.Commission > 100 {
		return nil, invalidf("commission must be between 0 and 100")
	}
	return &domain.Partner{
		Name:          name,
		Commission:    req.Commission,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
	}, nil
}

func (s *Service) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	return s.repo.ListPartners(ctx)
}

func (s *Service) DeletePartner(ctx context.Context, id int64) error {
	err := s.repo.DeletePartner(ctx, id)
	switch {
	case errors.Is(err, store.ErrConflict):
		return invalidf("the direct booking channel cannot be deleted")
	case errors.Is(err, store.ErrNotFound):
		return invalidf("partner not found")
	}
	return err
}

// Properties

func (s *Service) CreateProperty(ctx context.Context, req domain.PropertyRequest) (*domain.Property, error) {
	property, err := propertyFromRequest(req)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateProperty(ctx, *property)
}

func (s *Service) UpdateProperty(ctx context.Context, req domain.PropertyRequest) (*domain.Property, error) {
	if req.ID < 1 {
		return nil, invalidf("property id is required")
	}
	property, err := propertyFromRequest(req)
	if err != nil {
		return nil, err
	}
	property.ID = req.ID
	updated, err := s.repo.UpdateProperty(ctx, *property)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("property not found")
	}
	return updated, err
}

func propertyFromRequest(req domain.PropertyRequest) (*domain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("property name is required")
	}
	if req.PerDayCost < 0 || req.PerAdultCost < 0 || req.ExtraAdultCost < 0 || req.PerKidCost < 0 {
		return nil, invalidf("rates must not be negative")
	}
	return &domain.Property{
		Name:           name,
		Address:        strings.TrimSpace(req.Address),
		PerDayCost:     req.PerDayCost,
		PerAdultCost:   req.PerAdultCost,
		ExtraAdultCost: req.ExtraAdultCost,
		PerKidCost:     req.PerKidCost,
		Logo:           strings.TrimSpace(req.Logo),
		OwnerName:      strings.TrimSpace(req.OwnerName),
		OwnerMobile:    strings.TrimSpace(req.OwnerMobile),
		OwnerEmail:     strings.TrimSpace(req.OwnerEmail),
	}, nil
}

func (s *Service) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.repo.ListProperties(ctx)
}

func (s *Service) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("property not found")
	}
	return property, err
}

func (s *Service) DeleteProperty(ctx context.Context, id int64) error {
	err := s.repo.DeleteProperty(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("property not found")
	}
	return err
}

// Notifications

func (s *Service) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit < 1 {
		limit = 20
	}
	return s.repo.ListNotifications(ctx, unreadOnly, limit)
}

func (s *Service) UnreadNotificationCount(ctx context.Context) (int, error) {
	return s.repo.CountUnreadNotifications(ctx)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id int64) error {
	err := s.repo.MarkNotificationRead(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("notification not found")
	}
	return err
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context) error {
	return s.repo.MarkAllNotificationsRead(ctx)
}

// Guest ratings

func (s *Service) CreateRating(ctx context.Context, req domain.RatingRequest) (*domain.GuestRating, error) {
	if req.BookingID < 1 {
		return nil, invalidf("booking id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalidf("rating must be between 1 and 5")
	}
	rating, err := s.repo.CreateRating(ctx, domain.GuestRating{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Notes:     strings.TrimSpace(req.Notes),
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, invalidf("this booking already has a rating")
	case errors.Is(err, store.ErrInvalidInput):
		return nil, invalidf("booking not found")
	}
	return rating, err
}

func (s *Service) UpdateRating(ctx context.Context, req domain.RatingRequest) (*domain.GuestRating, error) {
	if req.ID < 1 {
		return nil, invalidf("rating id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalidf("rating must be between 1 and 5")
	}
	rating, err := s.repo.UpdateRating(ctx, domain.GuestRating{
		ID:     req.ID,
		Rating: req.Rating,
		Notes:  strings.TrimSpace(req.Notes),
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("rating not found")
	}
	return rating, err
}

func (s *Service) DeleteRating(ctx context.Context, id int64) error {
	err := s.repo.DeleteRating(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return invalidf("rating not found")
	}
	return err
}

func (s *Service) ListRatings(ctx context.Context) ([]domain.GuestRating, error) {
	return s.repo.ListRatings(ctx)
}

func (s *Service) GetRatingByBooking(ctx context.Context, bookingID int64) (*domain.GuestRating, error) {
	rating, err := s.repo.GetRatingByBooking(ctx, bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, invalidf("rating not found")
	}
	return rating, err
}

// Auth

func (s *Service) Login(ctx context.Context, username, password string) (*domain.AuthUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidf("username and password are required")
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidf("invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		// Accounts migrated from the old system may still hold a plaintext
		// password; accept it once and upgrade the hash in place.
		if user.Password != password {
			return nil, invalidf("invalid username or password")
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		if err := s.repo.UpdateUserPassword(ctx, username, string(hash)); err != nil {
			return nil, err
		}
	}

	return &domain.AuthUser{ID: user.ID, Username: user.Username, Name: user.Name}, nil
}

func (s *Service) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalidf("new password must be at least 6 characters")
	}
	if _, err := s.Login(ctx, username, currentPassword); err != nil {
		if IsValidation(err) {
			return invalidf("current password is incorrect")
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserPassword(ctx, username, string(hash))
}
