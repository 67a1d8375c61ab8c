package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"homeland/backend/internal/domain"
	"homeland/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const bookingColumns = `
	b.id, b.status, b.property_id, b.partner_id, COALESCE(b.booking_reference, ''),
	b.customer_name, b.customer_phone, b.customer_email, COALESCE(b.customer_state, ''),
	b.check_in_date, b.check_out_date, b.num_adults, b.extra_adults, b.num_kids,
	b.per_night_cost, b.per_adult_cost, b.extra_adult_cost, b.per_kid_cost,
	b.discount, b.discount_type, b.gst, b.gst_type, b.gst_operation,
	b.tax_withhold, b.tax_withhold_type, b.total_amount, b.payment_status,
	COALESCE(b.payment_method, ''), b.amount_paid, COALESCE(b.message, ''),
	b.created_at, COALESCE(pa.name, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b          domain.Booking
		propertyID sql.NullInt64
		checkIn    time.Time
		checkOut   time.Time
	)
	err := row.Scan(
		&b.ID, &b.Status, &propertyID, &b.PartnerID, &b.BookingReference,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail, &b.CustomerState,
		&checkIn, &checkOut, &b.NumAdults, &b.ExtraAdults, &b.NumKids,
		&b.PerNightCost, &b.PerAdultCost, &b.ExtraAdultCost, &b.PerKidCost,
		&b.Discount, &b.DiscountType, &b.GST, &b.GSTType, &b.GSTOperation,
		&b.TaxWithhold, &b.TaxWithholdType, &b.TotalAmount, &b.PaymentStatus,
		&b.PaymentMethod, &b.AmountPaid, &b.Message,
		&b.CreatedAt, &b.PartnerName,
	)
	if err != nil {
		return nil, err
	}
	if propertyID.Valid {
		id := propertyID.Int64
		b.PropertyID = &id
	}
	b.CheckInDate = checkIn.Format(domain.DateLayout)
	b.CheckOutDate = checkOut.Format(domain.DateLayout)
	b.CreatedAt = b.CreatedAt.UTC()
	return &b, nil
}

func (s *Store) queryBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0, 64)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Store) CreateBooking(ctx context.Context, booking domain.Booking) (*domain.Booking, error) {
	checkIn, checkOut, err := parseStayDates(booking)
	if err != nil {
		return nil, err
	}
	if booking.PartnerID == 0 {
		booking.PartnerID = 1
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO bookings (
			status, property_id, partner_id, booking_reference,
			customer_name, customer_phone, customer_email, customer_state,
			check_in_date, check_out_date, num_adults, extra_adults, num_kids,
			per_night_cost, per_adult_cost, extra_adult_cost, per_kid_cost,
			discount, discount_type, gst, gst_type, gst_operation,
			tax_withhold, tax_withhold_type, total_amount, payment_status,
			payment_method, amount_paid, message, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
		RETURNING id
	`, booking.Status, nullInt64(booking.PropertyID), booking.PartnerID, nullIfEmpty(booking.BookingReference),
		booking.CustomerName, booking.CustomerPhone, booking.CustomerEmail, nullIfEmpty(booking.CustomerState),
		checkIn, checkOut, booking.NumAdults, booking.ExtraAdults, booking.NumKids,
		booking.PerNightCost, booking.PerAdultCost, booking.ExtraAdultCost, booking.PerKidCost,
		booking.Discount, booking.DiscountType, booking.GST, booking.GSTType, booking.GSTOperation,
		booking.TaxWithhold, booking.TaxWithholdType, booking.TotalAmount, booking.PaymentStatus,
		nullIfEmpty(booking.PaymentMethod), booking.AmountPaid, nullIfEmpty(booking.Message), booking.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	return s.getBookingRow(ctx, id)
}

func (s *Store) getBookingRow(ctx context.Context, id int64) (*domain.Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE b.id = $1
	`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*domain.BookingDetail, error) {
	b, err := s.getBookingRow(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := domain.BookingDetail{Booking: *b}
	if b.PropertyID != nil {
		property, err := s.GetProperty(ctx, *b.PropertyID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if property != nil {
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

func (s *Store) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		ORDER BY b.id DESC
	`)
}

func (s *Store) UpdateBooking(ctx context.Context, booking domain.Booking) (*domain.Booking, error) {
	checkIn, checkOut, err := parseStayDates(booking)
	if err != nil {
		return nil, err
	}
	if booking.PartnerID == 0 {
		booking.PartnerID = 1
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, property_id = $3, partner_id = $4, booking_reference = $5,
			customer_name = $6, customer_phone = $7, customer_email = $8, customer_state = $9,
			check_in_date = $10, check_out_date = $11, num_adults = $12, extra_adults = $13, num_kids = $14,
			per_night_cost = $15, per_adult_cost = $16, extra_adult_cost = $17, per_kid_cost = $18,
			discount = $19, discount_type = $20, gst = $21, gst_type = $22, gst_operation = $23,
			tax_withhold = $24, tax_withhold_type = $25, total_amount = $26, payment_status = $27,
			payment_method = $28, amount_paid = $29, message = $30
		WHERE id = $1
	`, booking.ID, booking.Status, nullInt64(booking.PropertyID), booking.PartnerID, nullIfEmpty(booking.BookingReference),
		booking.CustomerName, booking.CustomerPhone, booking.CustomerEmail, nullIfEmpty(booking.CustomerState),
		checkIn, checkOut, booking.NumAdults, booking.ExtraAdults, booking.NumKids,
		booking.PerNightCost, booking.PerAdultCost, booking.ExtraAdultCost, booking.PerKidCost,
		booking.Discount, booking.DiscountType, booking.GST, booking.GSTType, booking.GSTOperation,
		booking.TaxWithhold, booking.TaxWithholdType, booking.TotalAmount, booking.PaymentStatus,
		nullIfEmpty(booking.PaymentMethod), booking.AmountPaid, nullIfEmpty(booking.Message))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.getBookingRow(ctx, booking.ID)
}

func (s *Store) ListBookingsByCheckIn(ctx context.Context, status string, from time.Time, to time.Time) ([]domain.Booking, error) {
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE ($1 = '' OR b.status = $1)
			AND b.check_in_date BETWEEN $2 AND $3
		ORDER BY b.check_in_date, b.id
	`, status, from, to)
}

func (s *Store) ListCalendarBookings(ctx context.Context, checkOutFrom time.Time) ([]domain.Booking, error) {
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE b.status IN ($1, $2, $3) AND b.check_out_date >= $4
		ORDER BY b.check_in_date, b.id
	`, domain.BookingStatusConfirmed, domain.BookingStatusEnquiry, domain.BookingStatusPersonal, checkOutFrom)
}

func (s *Store) ListBookingsByStatus(ctx context.Context, status string, limit int) ([]domain.Booking, error) {
	if limit < 1 {
		limit = 50
	}
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE b.status = $1
		ORDER BY b.id DESC
		LIMIT $2
	`, status, limit)
}

func (s *Store) ListUpcomingBookings(ctx context.Context, from time.Time, limit int) ([]domain.Booking, error) {
	if limit < 1 {
		limit = 50
	}
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE b.status = $1 AND b.check_in_date >= $2
		ORDER BY b.check_in_date, b.id
		LIMIT $3
	`, domain.BookingStatusConfirmed, from, limit)
}

func (s *Store) ListUnpaidBookings(ctx context.Context, limit int) ([]domain.Booking, error) {
	if limit < 1 {
		limit = 50
	}
	return s.queryBookings(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		LEFT JOIN partners pa ON pa.id = b.partner_id
		WHERE b.status = $1 AND b.payment_status IN ($2, $3)
		ORDER BY b.check_in_date, b.id
		LIMIT $4
	`, domain.BookingStatusConfirmed, domain.PaymentStatusPending, domain.PaymentStatusPartialPaid, limit)
}

func (s *Store) CreatePartner(ctx context.Context, partner domain.Partner) (*domain.Partner, error) {
	if partner.Name == "" {
		return nil, store.ErrInvalidInput
	}
	partner.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO partners (name, commission, contact_person, email, phone, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, partner.Name, partner.Commission, nullIfEmpty(partner.ContactPerson),
		nullIfEmpty(partner.Email), nullIfEmpty(partner.Phone), partner.CreatedAt).Scan(&partner.ID)
	if err != nil {
		return nil, err
	}
	created := partner
	return &created, nil
}

func (s *Store) GetPartner(ctx context.Context, id int64) (*domain.Partner, error) {
	var p domain.Partner
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, commission, COALESCE(contact_person, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM partners
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Commission, &p.ContactPerson, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, commission, COALESCE(contact_person, ''), COALESCE(email, ''), COALESCE(phone, ''), created_at
		FROM partners
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partners := make([]domain.Partner, 0, 16)
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Commission, &p.ContactPerson, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return partners, nil
}

func (s *Store) UpdatePartner(ctx context.Context, partner domain.Partner) (*domain.Partner, error) {
	if partner.Name == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE partners
		SET name = $2, commission = $3, contact_person = $4, email = $5, phone = $6
		WHERE id = $1
	`, partner.ID, partner.Name, partner.Commission, nullIfEmpty(partner.ContactPerson),
		nullIfEmpty(partner.Email), nullIfEmpty(partner.Phone))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetPartner(ctx, partner.ID)
}

func (s *Store) DeletePartner(ctx context.Context, id int64) error {
	if id == 1 {
		// Direct Booking is the fallback channel and cannot be removed.
		return store.ErrConflict
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET partner_id = 1 WHERE partner_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) CreateProperty(ctx context.Context, property domain.Property) (*domain.Property, error) {
	if property.Name == "" {
		return nil, store.ErrInvalidInput
	}
	property.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO properties (
			name, address, per_day_cost, per_adult_cost, extra_adult_cost, per_kid_cost,
			logo, owner_name, owner_mobile, owner_email, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, property.Name, nullIfEmpty(property.Address), property.PerDayCost, property.PerAdultCost,
		property.ExtraAdultCost, property.PerKidCost, nullIfEmpty(property.Logo),
		nullIfEmpty(property.OwnerName), nullIfEmpty(property.OwnerMobile),
		nullIfEmpty(property.OwnerEmail), property.CreatedAt).Scan(&property.ID)
	if err != nil {
		return nil, err
	}
	created := property
	return &created, nil
}

func (s *Store) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	var p domain.Property
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(address, ''), per_day_cost, per_adult_cost, extra_adult_cost, per_kid_cost,
			COALESCE(logo, ''), COALESCE(owner_name, ''), COALESCE(owner_mobile, ''), COALESCE(owner_email, ''), created_at
		FROM properties
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Address, &p.PerDayCost, &p.PerAdultCost, &p.ExtraAdultCost,
		&p.PerKidCost, &p.Logo, &p.OwnerName, &p.OwnerMobile, &p.OwnerEmail, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(address, ''), per_day_cost, per_adult_cost, extra_adult_cost, per_kid_cost,
			COALESCE(logo, ''), COALESCE(owner_name, ''), COALESCE(owner_mobile, ''), COALESCE(owner_email, ''), created_at
		FROM properties
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]domain.Property, 0, 16)
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.PerDayCost, &p.PerAdultCost, &p.ExtraAdultCost,
			&p.PerKidCost, &p.Logo, &p.OwnerName, &p.OwnerMobile, &p.OwnerEmail, &p.CreatedAt); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *Store) UpdateProperty(ctx context.Context, property domain.Property) (*domain.Property, error) {
	if property.Name == "" {
		return nil, store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE properties
		SET name = $2, address = $3, per_day_cost = $4, per_adult_cost = $5, extra_adult_cost = $6,
			per_kid_cost = $7, logo = $8, owner_name = $9, owner_mobile = $10, owner_email = $11
		WHERE id = $1
	`, property.ID, property.Name, nullIfEmpty(property.Address), property.PerDayCost,
		property.PerAdultCost, property.ExtraAdultCost, property.PerKidCost, nullIfEmpty(property.Logo),
		nullIfEmpty(property.OwnerName), nullIfEmpty(property.OwnerMobile), nullIfEmpty(property.OwnerEmail))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProperty(ctx, property.ID)
}

func (s *Store) DeleteProperty(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET property_id = NULL WHERE property_id = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return tx.Commit()
}

func (s *Store) CreateNotification(ctx context.Context, notification domain.Notification) (*domain.Notification, error) {
	notification.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notifications (type, title, message, booking_id, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, notification.Type, notification.Title, notification.Message,
		nullInt64(notification.BookingID), notification.IsRead, notification.CreatedAt).Scan(&notification.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	created := notification
	return &created, nil
}

func (s *Store) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, message, booking_id, is_read, created_at
		FROM notifications
		WHERE ($1 = false OR is_read = false)
		ORDER BY id DESC
		LIMIT $2
	`, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var (
			n         domain.Notification
			bookingID sql.NullInt64
		)
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &bookingID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			id := bookingID.Int64
			n.BookingID = &id
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE is_read = false
	`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = true WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = true WHERE is_read = false
	`)
	return err
}

func (s *Store) HasUnreadNotification(ctx context.Context, notifType string, bookingID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = $1 AND booking_id = $2 AND is_read = false
		)
	`, notifType, bookingID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

const ratingColumns = `
	r.id, r.booking_id, r.rating, COALESCE(r.notes, ''), r.created_at,
	COALESCE(b.customer_name, ''), b.check_in_date, b.check_out_date`

func scanRating(row rowScanner) (*domain.GuestRating, error) {
	var (
		r        domain.GuestRating
		checkIn  time.Time
		checkOut time.Time
	)
	if err := row.Scan(&r.ID, &r.BookingID, &r.Rating, &r.Notes, &r.CreatedAt,
		&r.CustomerName, &checkIn, &checkOut); err != nil {
		return nil, err
	}
	r.CheckInDate = checkIn.Format(domain.DateLayout)
	r.CheckOutDate = checkOut.Format(domain.DateLayout)
	return &r, nil
}

func (s *Store) CreateRating(ctx context.Context, rating domain.GuestRating) (*domain.GuestRating, error) {
	rating.CreatedAt = time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO guest_ratings (booking_id, rating, notes, created_at)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`, rating.BookingID, rating.Rating, nullIfEmpty(rating.Notes), rating.CreatedAt).Scan(&rating.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}
	return s.getRatingRow(ctx, rating.ID)
}

func (s *Store) getRatingRow(ctx context.Context, id int64) (*domain.GuestRating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ratingColumns+`
		FROM guest_ratings r
		JOIN bookings b ON b.id = r.booking_id
		WHERE r.id = $1
	`, id)
	r, err := scanRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) GetRatingByBooking(ctx context.Context, bookingID int64) (*domain.GuestRating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ratingColumns+`
		FROM guest_ratings r
		JOIN bookings b ON b.id = r.booking_id
		WHERE r.booking_id = $1
	`, bookingID)
	r, err := scanRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Store) ListRatings(ctx context.Context) ([]domain.GuestRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ratingColumns+`
		FROM guest_ratings r
		JOIN bookings b ON b.id = r.booking_id
		ORDER BY r.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := make([]domain.GuestRating, 0, 32)
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (s *Store) UpdateRating(ctx context.Context, rating domain.GuestRating) (*domain.GuestRating, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE guest_ratings SET rating = $2, notes = $3 WHERE id = $1
	`, rating.ID, rating.Rating, nullIfEmpty(rating.Notes))
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.getRatingRow(ctx, rating.ID)
}

func (s *Store) DeleteRating(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM guest_ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	var u domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, COALESCE(name, ''), COALESCE(phone, ''), created_at
		FROM app_users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Phone, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func parseStayDates(booking domain.Booking) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(domain.DateLayout, booking.CheckInDate)
	if err != nil {
		return time.Time{}, time.Time{}, store.ErrInvalidInput
	}
	checkOut, err := time.Parse(domain.DateLayout, booking.CheckOutDate)
	if err != nil {
		return time.Time{}, time.Time{}, store.ErrInvalidInput
	}
	return checkIn, checkOut, nil
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullInt64(val *int64) any {
	if val == nil {
		return nil
	}
	return *val
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
