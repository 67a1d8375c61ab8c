package domain

import "time"

type Booking struct {
	ID               int64     `json:"id"`
	Status           string    `json:"status"`
	PropertyID       *int64    `json:"property_id"`
	PartnerID        int64     `json:"partner_id"`
	BookingReference string    `json:"booking_reference"`
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone"`
	CustomerEmail    string    `json:"customer_email"`
	CustomerState    string    `json:"customer_state,omitempty"`
	CheckInDate      string    `json:"check_in_date"`
	CheckOutDate     string    `json:"check_out_date"`
	NumAdults        int       `json:"num_adults"`
	ExtraAdults      int       `json:"extra_adults"`
	NumKids          int       `json:"num_kids"`
	PerNightCost     float64   `json:"per_night_cost"`
	PerAdultCost     float64   `json:"per_adult_cost"`
	ExtraAdultCost   float64   `json:"extra_adult_cost"`
	PerKidCost       float64   `json:"per_kid_cost"`
	Discount         float64   `json:"discount"`
	DiscountType     string    `json:"discount_type"`
	GST              float64   `json:"gst"`
	GSTType          string    `json:"gst_type"`
	GSTOperation     string    `json:"gst_operation"`
	TaxWithhold      float64   `json:"tax_withhold"`
	TaxWithholdType  string    `json:"tax_withhold_type"`
	TotalAmount      float64   `json:"total_amount"`
	PaymentStatus    string    `json:"payment_status"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	AmountPaid       float64   `json:"amount_paid"`
	Message          string    `json:"message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	// Joined column, populated by list/get queries.
	PartnerName string `json:"partner_name,omitempty"`
}

// BookingDetail is a booking joined with its partner and property, as
// returned by the single-booking lookup.
type BookingDetail struct {
	Booking
	PropertyName           string  `json:"property_name,omitempty"`
	PropertyAddress        string  `json:"property_address,omitempty"`
	PropertyLogo           string  `json:"property_logo,omitempty"`
	PropertyOwnerName      string  `json:"property_owner_name,omitempty"`
	PropertyOwnerMobile    string  `json:"property_owner_mobile,omitempty"`
	PropertyOwnerEmail     string  `json:"property_owner_email,omitempty"`
	PropertyPerNightCost   float64 `json:"property_per_night_cost,omitempty"`
	PropertyPerAdultCost   float64 `json:"property_per_adult_cost,omitempty"`
	PropertyExtraAdultCost float64 `json:"property_extra_adult_cost,omitempty"`
	PropertyPerKidCost     float64 `json:"property_per_kid_cost,omitempty"`
}

type BookingCreateRequest struct {
	CSRFToken        string  `json:"csrf_token"`
	Status           string  `json:"status,omitempty"`
	PropertyID       *int64  `json:"property_id,omitempty"`
	PartnerID        int64   `json:"partner_id,omitempty"`
	BookingReference string  `json:"booking_reference,omitempty"`
	CustomerName     string  `json:"customer_name"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerEmail    string  `json:"customer_email"`
	CustomerState    string  `json:"customer_state,omitempty"`
	CheckInDate      string  `json:"check_in_date"`
	CheckOutDate     string  `json:"check_out_date"`
	NumAdults        int     `json:"num_adults,omitempty"`
	ExtraAdults      int     `json:"extra_adults,omitempty"`
	NumKids          int     `json:"num_kids,omitempty"`
	PerNightCost     float64 `json:"per_night_cost,omitempty"`
	PerAdultCost     float64 `json:"per_adult_cost,omitempty"`
	ExtraAdultCost   float64 `json:"extra_adult_cost,omitempty"`
	PerKidCost       float64 `json:"per_kid_cost,omitempty"`
	Discount         float64 `json:"discount,omitempty"`
	DiscountType     string  `json:"discount_type,omitempty"`
	GST              float64 `json:"gst,omitempty"`
	GSTType          string  `json:"gst_type,omitempty"`
	GSTOperation     string  `json:"gst_operation,omitempty"`
	TaxWithhold      float64 `json:"tax_withhold,omitempty"`
	TaxWithholdType  string  `json:"tax_withhold_type,omitempty"`
	Message          string  `json:"message,omitempty"`
}

// BookingUpdateRequest carries a partial patch. Pointer fields distinguish
// "absent" from "set to zero value". UpdateMode is optional; when empty the
// payment-only heuristic decides which validation branch applies.
type BookingUpdateRequest struct {
	CSRFToken        string   `json:"csrf_token"`
	ID               int64    `json:"id"`
	UpdateMode       string   `json:"update_mode,omitempty"`
	Status           *string  `json:"status,omitempty"`
	PropertyID       *int64   `json:"property_id,omitempty"`
	PartnerID        *int64   `json:"partner_id,omitempty"`
	BookingReference *string  `json:"booking_reference,omitempty"`
	CustomerName     *string  `json:"customer_name,omitempty"`
	CustomerPhone    *string  `json:"customer_phone,omitempty"`
	CustomerEmail    *string  `json:"customer_email,omitempty"`
	CustomerState    *string  `json:"customer_state,omitempty"`
	CheckInDate      *string  `json:"check_in_date,omitempty"`
	CheckOutDate     *string  `json:"check_out_date,omitempty"`
	NumAdults        *int     `json:"num_adults,omitempty"`
	ExtraAdults      *int     `json:"extra_adults,omitempty"`
	NumKids          *int     `json:"num_kids,omitempty"`
	PerNightCost     *float64 `json:"per_night_cost,omitempty"`
	PerAdultCost     *float64 `json:"per_adult_cost,omitempty"`
	ExtraAdultCost   *float64 `json:"extra_adult_cost,omitempty"`
	PerKidCost       *float64 `json:"per_kid_cost,omitempty"`
	Discount         *float64 `json:"discount,omitempty"`
	DiscountType     *string  `json:"discount_type,omitempty"`
	GST              *float64 `json:"gst,omitempty"`
	GSTType          *string  `json:"gst_type,omitempty"`
	GSTOperation     *string  `json:"gst_operation,omitempty"`
	TaxWithhold      *float64 `json:"tax_withhold,omitempty"`
	TaxWithholdType  *string  `json:"tax_withhold_type,omitempty"`
	TotalAmount      *float64 `json:"total_amount,omitempty"`
	PaymentStatus    *string  `json:"payment_status,omitempty"`
	PaymentMethod    *string  `json:"payment_method,omitempty"`
	AmountPaid       *float64 `json:"amount_paid,omitempty"`
	Message          *string  `json:"message,omitempty"`
}

// PublicEnquiryRequest is the payload accepted from the public booking form.
// It carries no rates or status; those are operator concerns.
type PublicEnquiryRequest struct {
	CSRFToken     string `json:"csrf_token"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	NumAdults     int    `json:"num_adults,omitempty"`
	NumKids       int    `json:"num_kids,omitempty"`
	Message       string `json:"message,omitempty"`
}

type Property struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	PerDayCost     float64   `json:"per_day_cost"`
	PerAdultCost   float64   `json:"per_adult_cost"`
	ExtraAdultCost float64   `json:"extra_adult_cost"`
	PerKidCost     float64   `json:"per_kid_cost"`
	Logo           string    `json:"logo,omitempty"`
	OwnerName      string    `json:"owner_name,omitempty"`
	OwnerMobile    string    `json:"owner_mobile,omitempty"`
	OwnerEmail     string    `json:"owner_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type PropertyRequest struct {
	CSRFToken      string  `json:"csrf_token"`
	ID             int64   `json:"id,omitempty"`
	Name           string  `json:"name"`
	Address        string  `json:"address,omitempty"`
	PerDayCost     float64 `json:"per_day_cost,omitempty"`
	PerAdultCost   float64 `json:"per_adult_cost,omitempty"`
	ExtraAdultCost float64 `json:"extra_adult_cost,omitempty"`
	PerKidCost     float64 `json:"per_kid_cost,omitempty"`
	Logo           string  `json:"logo,omitempty"`
	OwnerName      string  `json:"owner_name,omitempty"`
	OwnerMobile    string  `json:"owner_mobile,omitempty"`
	OwnerEmail     string  `json:"owner_email,omitempty"`
}

type Partner struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Commission    float64   `json:"commission"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PartnerRequest struct {
	CSRFToken     string  `json:"csrf_token"`
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	Commission    float64 `json:"commission,omitempty"`
	ContactPerson string  `json:"contact_person,omitempty"`
	Email         string  `json:"email,omitempty"`
	Phone         string  `json:"phone,omitempty"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	BookingID *int64    `json:"booking_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type MarkReadRequest struct {
	CSRFToken string `json:"csrf_token"`
	ID        int64  `json:"id"`
}

type GuestRating struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Rating    int       `json:"rating"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined booking columns for the list view.
	CustomerName string `json:"customer_name,omitempty"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
}

type RatingRequest struct {
	CSRFToken string `json:"csrf_token"`
	ID        int64  `json:"id,omitempty"`
	BookingID int64  `json:"booking_id,omitempty"`
	Rating    int    `json:"rating,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type LoginRequest struct {
	CSRFToken string `json:"csrf_token"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type ChangePasswordRequest struct {
	CSRFToken       string `json:"csrf_token"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type AuthUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	ID        int64
	Username  string
	Password  string
	Name      string
	Phone     string
	CreatedAt time.Time
}

type DashboardStats struct {
	OccupancyRate   int     `json:"occupancyRate"`
	AvgBookingValue float64 `json:"avgBookingValue"`
	MonthRevenue    float64 `json:"monthRevenue"`
	PendingPayments int     `json:"pendingPayments"`
}

type Dashboard struct {
	Stats            DashboardStats `json:"stats"`
	PendingRequests  []Booking      `json:"pendingRequests"`
	UpcomingBookings []Booking      `json:"upcomingBookings"`
	PendingPayments  []Booking      `json:"pendingPayments"`
}

type ReportRequest struct {
	CSRFToken string `json:"csrf_token"`
	Type      string `json:"type,omitempty"`
	Period    string `json:"period,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Format    string `json:"format,omitempty"`
}

type ReportSummary struct {
	TotalBookings       int     `json:"total_bookings"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalCommission     float64 `json:"total_commission"`
	NetRevenue          float64 `json:"net_revenue"`
	AverageBookingValue float64 `json:"average_booking_value"`
}

type PartnerBreakdown struct {
	Name       string  `json:"name"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	Commission float64 `json:"commission"`
}

type PropertyBreakdown struct {
	Name     string  `json:"name"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type PaymentBreakdown struct {
	PaymentStatus string  `json:"payment_status"`
	Count         int     `json:"count"`
	Amount        float64 `json:"amount"`
}

type StatusBreakdown struct {
	Status  string  `json:"status"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type DailyBookings struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
	Guests   int    `json:"guests"`
}

type PartnerReportRow struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Commission      float64 `json:"commission"`
	BookingCount    int     `json:"booking_count"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCommission float64 `json:"total_commission"`
}

type Report struct {
	Period            string              `json:"period"`
	Year              string              `json:"year,omitempty"`
	Month             string              `json:"month,omitempty"`
	Summary           *ReportSummary      `json:"summary,omitempty"`
	PartnerBreakdown  []PartnerBreakdown  `json:"partner_breakdown,omitempty"`
	PropertyBreakdown []PropertyBreakdown `json:"property_breakdown,omitempty"`
	PaymentBreakdown  []PaymentBreakdown  `json:"payment_breakdown,omitempty"`
	DailyRevenue      map[string]float64  `json:"daily_revenue,omitempty"`
	Bookings          []Booking           `json:"bookings,omitempty"`
	Partners          []PartnerReportRow  `json:"partners,omitempty"`
	StatusBreakdown   []StatusBreakdown   `json:"status_breakdown,omitempty"`
	DailyBookings     []DailyBookings     `json:"daily_bookings,omitempty"`
}

const (
	BookingStatusEnquiry      = "Enquiry"
	BookingStatusConfirmed    = "Confirmed"
	BookingStatusCancelled    = "Cancelled"
	BookingStatusPersonal     = "Personal"
	BookingStatusNotConfirmed = "Not confirmed"
)

const (
	PaymentStatusPending     = "Pending"
	PaymentStatusPartialPaid = "Partial Paid"
	PaymentStatusPaid        = "Paid"
	PaymentStatusQuote       = "Quote"
)

const (
	NotificationPendingRequest = "pending_request"
	NotificationPendingPayment = "pending_payment"
)

const (
	UpdateModePayment = "payment"
	UpdateModeFull    = "full"
)

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

func ValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusEnquiry, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusPersonal, BookingStatusNotConfirmed:
		return true
	}
	return false
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusPartialPaid, PaymentStatusPaid, PaymentStatusQuote:
		return true
	}
	return false
}
