package httpapi

import (
	"net/http"
	"strconv"

	"homeland/backend/internal/domain"
)

func (a *API) handleBookings(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "", "list":
			bookings, err := a.service.ListBookings(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"bookings": bookings})
		case "get":
			id, ok := parseID(r.URL.Query().Get("id"))
			if !ok {
				writeFail(w, http.StatusBadRequest, "booking id required")
				return
			}
			booking, err := a.service.GetBooking(r.Context(), id)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"booking": booking})
		case "calendar":
			bookings, err := a.service.CalendarBookings(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"bookings": bookings})
		case "dashboard":
			dashboard, err := a.service.Dashboard(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"dashboard": dashboard})
		default:
			writeFail(w, http.StatusBadRequest, "unknown booking action")
		}
	case http.MethodPost:
		switch action {
		case "create":
			var req domain.BookingCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeFail(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if !a.checkCSRF(w, r, req.CSRFToken) {
				return
			}
			if !a.allowAction(w, r, "booking_create") {
				return
			}
			booking, err := a.service.CreateBooking(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"booking": booking})
		case "update":
			var req domain.BookingUpdateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeFail(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if !a.checkCSRF(w, r, req.CSRFToken) {
				return
			}
			if !a.allowAction(w, r, "booking_update") {
				return
			}
			booking, err := a.service.UpdateBooking(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"booking": booking})
		case "quote":
			// Price preview for the booking form; nothing is persisted.
			var req domain.BookingCreateRequest
			if err := decodeJSON(r, &req); err != nil {
				writeFail(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if !a.checkCSRF(w, r, req.CSRFToken) {
				return
			}
			breakdown, err := a.service.Quote(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"quote": breakdown})
		default:
			writeFail(w, http.StatusBadRequest, "unknown booking action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}

// handlePublicBooking accepts booking requests from the public site. No login
// is required, but the caller still needs the session CSRF token, and the
// submission rate is capped much tighter than operator actions.
func (a *API) handlePublicBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req domain.PublicEnquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !a.checkCSRF(w, r, req.CSRFToken) {
		return
	}
	if !a.allowAction(w, r, "public_enquiry") {
		return
	}
	booking, err := a.service.CreatePublicEnquiry(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeOK(w, map[string]any{
		"message":           "your booking request has been received, we will contact you shortly",
		"booking_reference": booking.BookingReference,
	})
}

func (a *API) handlePartners(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		partners, err := a.service.ListPartners(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeOK(w, map[string]any{"partners": partners})
	case http.MethodPost:
		var req domain.PartnerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !a.checkCSRF(w, r, req.CSRFToken) {
			return
		}
		if !a.allowAction(w, r, "partner_save") {
			return
		}

		switch action {
		case "add":
			partner, err := a.service.CreatePartner(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"partner": partner})
		case "update":
			partner, err := a.service.UpdatePartner(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"partner": partner})
		case "delete":
			if req.ID < 1 {
				writeFail(w, http.StatusBadRequest, "partner id required")
				return
			}
			if err := a.service.DeletePartner(r.Context(), req.ID); err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, nil)
		default:
			writeFail(w, http.StatusBadRequest, "unknown partner action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProperties(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "", "list":
			properties, err := a.service.ListProperties(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"properties": properties})
		case "get":
			id, ok := parseID(r.URL.Query().Get("id"))
			if !ok {
				writeFail(w, http.StatusBadRequest, "property id required")
				return
			}
			property, err := a.service.GetProperty(r.Context(), id)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"property": property})
		default:
			writeFail(w, http.StatusBadRequest, "unknown property action")
		}
	case http.MethodPost:
		var req domain.PropertyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !a.checkCSRF(w, r, req.CSRFToken) {
			return
		}
		if !a.allowAction(w, r, "property_save") {
			return
		}

		switch action {
		case "add":
			property, err := a.service.CreateProperty(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"property": property})
		case "update":
			property, err := a.service.UpdateProperty(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"property": property})
		case "delete":
			if req.ID < 1 {
				writeFail(w, http.StatusBadRequest, "property id required")
				return
			}
			if err := a.service.DeleteProperty(r.Context(), req.ID); err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, nil)
		default:
			writeFail(w, http.StatusBadRequest, "unknown property action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleNotifications(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "", "list":
			unreadOnly := r.URL.Query().Get("unread_only") == "true"
			limit := 20
			if raw := r.URL.Query().Get("limit"); raw != "" {
				if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
					limit = parsed
				}
			}
			if limit > 100 {
				limit = 100
			}
			notifications, err := a.service.ListNotifications(r.Context(), unreadOnly, limit)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"notifications": notifications})
		case "count":
			count, err := a.service.UnreadNotificationCount(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"unread": count})
		default:
			writeFail(w, http.StatusBadRequest, "unknown notification action")
		}
	case http.MethodPost:
		var req domain.MarkReadRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !a.checkCSRF(w, r, req.CSRFToken) {
			return
		}
		if !a.allowAction(w, r, "notification_mark") {
			return
		}

		switch action {
		case "mark-read":
			if req.ID < 1 {
				writeFail(w, http.StatusBadRequest, "notification id required")
				return
			}
			if err := a.service.MarkNotificationRead(r.Context(), req.ID); err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, nil)
		case "mark-all-read":
			if err := a.service.MarkAllNotificationsRead(r.Context()); err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, nil)
		default:
			writeFail(w, http.StatusBadRequest, "unknown notification action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleRatings(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch r.Method {
	case http.MethodGet:
		switch action {
		case "", "list":
			ratings, err := a.service.ListRatings(r.Context())
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"ratings": ratings})
		case "get":
			bookingID, ok := parseID(r.URL.Query().Get("booking_id"))
			if !ok {
				writeFail(w, http.StatusBadRequest, "booking id required")
				return
			}
			rating, err := a.service.GetRatingByBooking(r.Context(), bookingID)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"rating": rating})
		default:
			writeFail(w, http.StatusBadRequest, "unknown rating action")
		}
	case http.MethodPost:
		var req domain.RatingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !a.checkCSRF(w, r, req.CSRFToken) {
			return
		}
		if !a.allowAction(w, r, "rating_save") {
			return
		}

		switch action {
		case "create":
			rating, err := a.service.CreateRating(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"rating": rating})
		case "update":
			rating, err := a.service.UpdateRating(r.Context(), req)
			if err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, map[string]any{"rating": rating})
		case "delete":
			if req.ID < 1 {
				writeFail(w, http.StatusBadRequest, "rating id required")
				return
			}
			if err := a.service.DeleteRating(r.Context(), req.ID); err != nil {
				handleServiceError(w, err)
				return
			}
			writeOK(w, nil)
		default:
			writeFail(w, http.StatusBadRequest, "unknown rating action")
		}
	default:
		writeMethodNotAllowed(w)
	}
}
