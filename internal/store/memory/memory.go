package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"homeland/backend/internal/domain"
	"homeland/backend/internal/store"
)

type Store struct {
	mu            sync.RWMutex
	bookings      map[int64]domain.Booking
	partners      map[int64]domain.Partner
	properties    map[int64]domain.Property
	notifications map[int64]domain.Notification
	ratings       map[int64]domain.GuestRating
	users         map[string]domain.UserAccount

	nextBookingID      int64
	nextPartnerID      int64
	nextPropertyID     int64
	nextNotificationID int64
	nextRatingID       int64
}

// seedUsers builds the initial in-memory admin account for dev/demo mode.
// The password is read from SEED_ADMIN_PASSWORD; if unset a hardcoded dev
// default is used with a warning. Production deployments use PostgreSQL.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD to override.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPwd), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[memory-store] failed to hash seed password: %v", err)
	}
	return map[string]domain.UserAccount{
		"admin": {
			ID:        1,
			Username:  "admin",
			Password:  string(hash),
			Name:      "Administrator",
			CreatedAt: time.Now().UTC(),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()
	return &Store{
		bookings: make(map[int64]domain.Booking),
		partners: map[int64]domain.Partner{
			1: {ID: 1, Name: "Direct Booking", Commission: 0, CreatedAt: now},
		},
		properties: map[int64]domain.Property{
			1: {
				ID:             1,
				Name:           "Hillside Villa",
				Address:        "12 Ridge Road",
				PerDayCost:     1000,
				PerAdultCost:   1000,
				ExtraAdultCost: 500,
				PerKidCost:     250,
				OwnerName:      "Owner",
				CreatedAt:      now,
			},
		},
		notifications:      make(map[int64]domain.Notification),
		ratings:            make(map[int64]domain.GuestRating),
		users:              seedUsers(),
		nextBookingID:      1,
		nextPartnerID:      2,
		nextPropertyID:     2,
		nextNotificationID: 1,
		nextRatingID:       1,
	}
}

func parseDate(s string) (time.Time, bool) {
	ts, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Bookings

func (s *Store) CreateBooking(_ context.Context, booking domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if booking.PartnerID == 0 {
		booking.PartnerID = 1
	}
	if _, ok := s.partners[booking.PartnerID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if booking.PropertyID != nil {
		if _, ok := s.properties[*booking.PropertyID]; !ok {
			return nil, store.ErrInvalidInput
		}
	}

	booking.ID = s.nextBookingID
	s.nextBookingID++
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	s.bookings[booking.ID] = booking

	created := booking
	created.PartnerName = s.partners[booking.PartnerID].Name
	return &created, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (*domain.BookingDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	detail := domain.BookingDetail{Booking: booking}
	detail.PartnerName = s.partners[booking.PartnerID].Name
	if booking.PropertyID != nil {
		if property, ok := s.properties[*booking.PropertyID]; ok {
			detail.PropertyName = property.Name
			detail.PropertyAddress = property.Address
			detail.PropertyLogo = property.Logo
			detail.PropertyOwnerName = property.OwnerName
			detail.PropertyOwnerMobile = property.OwnerMobile
			detail.PropertyOwnerEmail = property.OwnerEmail
			detail.PropertyPerNightCost = property.PerDayCost
			detail.PropertyPerAdultCost = property.PerAdultCost
			detail.PropertyExtraAdultCost = property.ExtraAdultCost
			detail.PropertyPerKidCost = property.PerKidCost
		}
	}
	return &detail, nil
}

func (s *Store) ListBookings(_ context.Context) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return int(b.ID - a.ID)
	})
	return bookings, nil
}

func (s *Store) UpdateBooking(_ context.Context, booking domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.bookings[booking.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if booking.PartnerID == 0 {
		booking.PartnerID = 1
	}
	if _, ok := s.partners[booking.PartnerID]; !ok {
		return nil, store.ErrInvalidInput
	}
	if booking.PropertyID != nil {
		if _, ok := s.properties[*booking.PropertyID]; !ok {
			return nil, store.ErrInvalidInput
		}
	}
	booking.CreatedAt = existing.CreatedAt
	s.bookings[booking.ID] = booking

	updated := booking
	updated.PartnerName = s.partners[booking.PartnerID].Name
	return &updated, nil
}

func (s *Store) ListBookingsByCheckIn(_ context.Context, status string, from time.Time, to time.Time) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if status != "" && b.Status != status {
			continue
		}
		checkIn, ok := parseDate(b.CheckInDate)
		if !ok || checkIn.Before(from) || checkIn.After(to) {
			continue
		}
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return strings.Compare(a.CheckInDate, b.CheckInDate)
	})
	return bookings, nil
}

func (s *Store) ListCalendarBookings(_ context.Context, checkOutFrom time.Time) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		switch b.Status {
		case domain.BookingStatusConfirmed, domain.BookingStatusEnquiry, domain.BookingStatusPersonal:
		default:
			continue
		}
		checkOut, ok := parseDate(b.CheckOutDate)
		if !ok || checkOut.Before(checkOutFrom) {
			continue
		}
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return strings.Compare(a.CheckInDate, b.CheckInDate)
	})
	return bookings, nil
}

func (s *Store) ListBookingsByStatus(_ context.Context, status string, limit int) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status != status {
			continue
		}
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return int(b.ID - a.ID)
	})
	return clip(bookings, limit), nil
}

func (s *Store) ListUpcomingBookings(_ context.Context, from time.Time, limit int) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status != domain.BookingStatusConfirmed {
			continue
		}
		checkIn, ok := parseDate(b.CheckInDate)
		if !ok || checkIn.Before(from) {
			continue
		}
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return strings.Compare(a.CheckInDate, b.CheckInDate)
	})
	return clip(bookings, limit), nil
}

func (s *Store) ListUnpaidBookings(_ context.Context, limit int) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status != domain.BookingStatusConfirmed {
			continue
		}
		if b.PaymentStatus != domain.PaymentStatusPending && b.PaymentStatus != domain.PaymentStatusPartialPaid {
			continue
		}
		b.PartnerName = s.partners[b.PartnerID].Name
		bookings = append(bookings, b)
	}
	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return strings.Compare(a.CheckInDate, b.CheckInDate)
	})
	return clip(bookings, limit), nil
}

// Partners

func (s *Store) CreatePartner(_ context.Context, partner domain.Partner) (*domain.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if partner.Name == "" {
		return nil, store.ErrInvalidInput
	}
	partner.ID = s.nextPartnerID
	s.nextPartnerID++
	partner.CreatedAt = time.Now().UTC()
	s.partners[partner.ID] = partner

	created := partner
	return &created, nil
}

func (s *Store) GetPartner(_ context.Context, id int64) (*domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partner, ok := s.partners[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := partner
	return &copied, nil
}

func (s *Store) ListPartners(_ context.Context) ([]domain.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	partners := make([]domain.Partner, 0, len(s.partners))
	for _, p := range s.partners {
		partners = append(partners, p)
	}
	slices.SortFunc(partners, func(a, b domain.Partner) int {
		return strings.Compare(a.Name, b.Name)
	})
	return partners, nil
}

func (s *Store) UpdatePartner(_ context.Context, partner domain.Partner) (*domain.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.partners[partner.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if partner.Name == "" {
		return nil, store.ErrInvalidInput
	}
	partner.CreatedAt = existing.CreatedAt
	s.partners[partner.ID] = partner

	updated := partner
	return &updated, nil
}

func (s *Store) DeletePartner(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 1 {
		// Direct Booking is the fallback channel and cannot be removed.
		return store.ErrConflict
	}
	if _, ok := s.partners[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.partners, id)
	for bid, b := range s.bookings {
		if b.PartnerID == id {
			b.PartnerID = 1
			s.bookings[bid] = b
		}
	}
	return nil
}

// Properties

func (s *Store) CreateProperty(_ context.Context, property domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if property.Name == "" {
		return nil, store.ErrInvalidInput
	}
	property.ID = s.nextPropertyID
	s.nextPropertyID++
	property.CreatedAt = time.Now().UTC()
	s.properties[property.ID] = property

	created := property
	return &created, nil
}

func (s *Store) GetProperty(_ context.Context, id int64) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	property, ok := s.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := property
	return &copied, nil
}

func (s *Store) ListProperties(_ context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	properties := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		properties = append(properties, p)
	}
	slices.SortFunc(properties, func(a, b domain.Property) int {
		return strings.Compare(a.Name, b.Name)
	})
	return properties, nil
}

func (s *Store) UpdateProperty(_ context.Context, property domain.Property) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.properties[property.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if property.Name == "" {
		return nil, store.ErrInvalidInput
	}
	property.CreatedAt = existing.CreatedAt
	s.properties[property.ID] = property

	updated := property
	return &updated, nil
}

func (s *Store) DeleteProperty(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.properties, id)
	for bid, b := range s.bookings {
		if b.PropertyID != nil && *b.PropertyID == id {
			b.PropertyID = nil
			s.bookings[bid] = b
		}
	}
	return nil
}

// Notifications

func (s *Store) CreateNotification(_ context.Context, notification domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification.ID = s.nextNotificationID
	s.nextNotificationID++
	notification.CreatedAt = time.Now().UTC()
	s.notifications[notification.ID] = notification

	created := notification
	return &created, nil
}

func (s *Store) ListNotifications(_ context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := make([]domain.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if unreadOnly && n.IsRead {
			continue
		}
		notifications = append(notifications, n)
	}
	slices.SortFunc(notifications, func(a, b domain.Notification) int {
		return int(b.ID - a.ID)
	})
	return clip(notifications, limit), nil
}

func (s *Store) CountUnreadNotifications(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *Store) MarkAllNotificationsRead(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		n.IsRead = true
		s.notifications[id] = n
	}
	return nil
}

func (s *Store) HasUnreadNotification(_ context.Context, notifType string, bookingID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications {
		if n.IsRead || n.Type != notifType {
			continue
		}
		if n.BookingID != nil && *n.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

// Guest ratings

func (s *Store) CreateRating(_ context.Context, rating domain.GuestRating) (*domain.GuestRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[rating.BookingID]; !ok {
		return nil, store.ErrInvalidInput
	}
	for _, r := range s.ratings {
		if r.BookingID == rating.BookingID {
			return nil, store.ErrConflict
		}
	}
	rating.ID = s.nextRatingID
	s.nextRatingID++
	rating.CreatedAt = time.Now().UTC()
	s.ratings[rating.ID] = rating

	created := s.withBookingFields(rating)
	return &created, nil
}

func (s *Store) GetRatingByBooking(_ context.Context, bookingID int64) (*domain.GuestRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.ratings {
		if r.BookingID == bookingID {
			found := s.withBookingFields(r)
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListRatings(_ context.Context) ([]domain.GuestRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := make([]domain.GuestRating, 0, len(s.ratings))
	for _, r := range s.ratings {
		ratings = append(ratings, s.withBookingFields(r))
	}
	slices.SortFunc(ratings, func(a, b domain.GuestRating) int {
		return int(b.ID - a.ID)
	})
	return ratings, nil
}

func (s *Store) UpdateRating(_ context.Context, rating domain.GuestRating) (*domain.GuestRating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.ratings[rating.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	existing.Rating = rating.Rating
	existing.Notes = rating.Notes
	s.ratings[rating.ID] = existing

	updated := s.withBookingFields(existing)
	return &updated, nil
}

func (s *Store) DeleteRating(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ratings[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.ratings, id)
	return nil
}

func (s *Store) withBookingFields(rating domain.GuestRating) domain.GuestRating {
	if booking, ok := s.bookings[rating.BookingID]; ok {
		rating.CustomerName = booking.CustomerName
		rating.CheckInDate = booking.CheckInDate
		rating.CheckOutDate = booking.CheckOutDate
	}
	return rating
}

// Users

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.users[username] = user
	return nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
