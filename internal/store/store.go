package store

import (
	"context"
	"errors"
	"time"

	"homeland/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

type Repository interface {
	// Bookings
	CreateBooking(ctx context.Context, booking domain.Booking) (*domain.Booking, error)
	GetBooking(ctx context.Context, id int64) (*domain.BookingDetail, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, booking domain.Booking) (*domain.Booking, error)
	ListBookingsByCheckIn(ctx context.Context, status string, from time.Time, to time.Time) ([]domain.Booking, error)
	ListCalendarBookings(ctx context.Context, checkOutFrom time.Time) ([]domain.Booking, error)
	ListBookingsByStatus(ctx context.Context, status string, limit int) ([]domain.Booking, error)
	ListUpcomingBookings(ctx context.Context, from time.Time, limit int) ([]domain.Booking, error)
	ListUnpaidBookings(ctx context.Context, limit int) ([]domain.Booking, error)

	// Partners
	CreatePartner(ctx context.Context, partner domain.Partner) (*domain.Partner, error)
	GetPartner(ctx context.Context, id int64) (*domain.Partner, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
	UpdatePartner(ctx context.Context, partner domain.Partner) (*domain.Partner, error)
	DeletePartner(ctx context.Context, id int64) error

	// Properties
	CreateProperty(ctx context.Context, property domain.Property) (*domain.Property, error)
	GetProperty(ctx context.Context, id int64) (*domain.Property, error)
	ListProperties(ctx context.Context) ([]domain.Property, error)
	UpdateProperty(ctx context.Context, property domain.Property) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id int64) error

	// Notifications
	CreateNotification(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error)
	CountUnreadNotifications(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	HasUnreadNotification(ctx context.Context, notifType string, bookingID int64) (bool, error)

	// Guest ratings
	CreateRating(ctx context.Context, rating domain.GuestRating) (*domain.GuestRating, error)
	GetRatingByBooking(ctx context.Context, bookingID int64) (*domain.GuestRating, error)
	ListRatings(ctx context.Context) ([]domain.GuestRating, error)
	UpdateRating(ctx context.Context, rating domain.GuestRating) (*domain.GuestRating, error)
	DeleteRating(ctx context.Context, id int64) error

	// Users
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
