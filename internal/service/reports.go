package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"homeland/backend/internal/domain"
)

const monthLayout = "2006-01"

// Reports run over confirmed bookings only, keyed by check-in date.

func (s *Service) GenerateReport(ctx context.Context, req domain.ReportRequest) (*domain.Report, error) {
	reportType := req.Type
	if reportType == "" {
		reportType = "monthly"
	}

	from, to, err := resolveRange(req)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListBookingsByCheckIn(ctx, domain.BookingStatusConfirmed, from, to)
	if err != nil {
		return nil, err
	}
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	commissionByPartner := make(map[int64]float64, len(partners))
	for _, p := range partners {
		commissionByPartner[p.ID] = p.Commission
	}

	report := &domain.Report{Period: reportType}
	switch reportType {
	case "monthly", "custom":
		if reportType == "monthly" {
			report.Year = from.Format("2006")
			report.Month = from.Format("01")
		}
		report.Summary = buildSummary(bookings, commissionByPartner)
		report.PartnerBreakdown = partnerBreakdown(bookings, commissionByPartner)
		report.PaymentBreakdown = paymentBreakdown(bookings)
		report.DailyRevenue = dailyRevenue(bookings)
		propertyRows, err := s.propertyBreakdown(ctx, bookings)
		if err != nil {
			return nil, err
		}
		report.PropertyBreakdown = propertyRows
		if reportType == "custom" {
			// The custom report also shows unconfirmed activity in the range.
			all, err := s.repo.ListBookingsByCheckIn(ctx, "", from, to)
			if err != nil {
				return nil, err
			}
			report.StatusBreakdown = statusBreakdown(all)
			report.DailyBookings = dailyBookings(all)
		}
	case "partner":
		report.Summary = buildSummary(bookings, commissionByPartner)
		report.Partners = partnerReportRows(partners, bookings)
	case "booking":
		report.Summary = buildSummary(bookings, commissionByPartner)
		report.Bookings = bookings
		all, err := s.repo.ListBookingsByCheckIn(ctx, "", from, to)
		if err != nil {
			return nil, err
		}
		report.StatusBreakdown = statusBreakdown(all)
		report.DailyBookings = dailyBookings(all)
	default:
		return nil, invalidf("invalid report type")
	}
	return report, nil
}

func resolveRange(req domain.ReportRequest) (time.Time, time.Time, error) {
	if req.StartDate != "" || req.EndDate != "" {
		from, err := time.Parse(domain.DateLayout, req.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, invalidf("invalid start date")
		}
		to, err := time.Parse(domain.DateLayout, req.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, invalidf("invalid end date")
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, invalidf("end date must not be before start date")
		}
		return from, to, nil
	}

	month := time.Now().UTC()
	if req.Period != "" {
		parsed, err := time.Parse(monthLayout, req.Period)
		if err != nil {
			return time.Time{}, time.Time{}, invalidf("invalid period, expected YYYY-MM")
		}
		month = parsed
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1), nil
}

func buildSummary(bookings []domain.Booking, commissionByPartner map[int64]float64) *domain.ReportSummary {
	summary := &domain.ReportSummary{TotalBookings: len(bookings)}
	for _, b := range bookings {
		summary.TotalRevenue += b.TotalAmount
		summary.TotalCommission += b.TotalAmount * commissionByPartner[b.PartnerID] / 100
	}
	summary.NetRevenue = summary.TotalRevenue - summary.TotalCommission
	if len(bookings) > 0 {
		summary.AverageBookingValue = summary.TotalRevenue / float64(len(bookings))
	}
	return summary
}

func partnerBreakdown(bookings []domain.Booking, commissionByPartner map[int64]float64) []domain.PartnerBreakdown {
	byName := make(map[string]*domain.PartnerBreakdown)
	for _, b := range bookings {
		name := b.PartnerName
		if name == "" {
			name = "Direct"
		}
		row, ok := byName[name]
		if !ok {
			row = &domain.PartnerBreakdown{Name: name}
			byName[name] = row
		}
		row.Bookings++
		row.Revenue += b.TotalAmount
		row.Commission += b.TotalAmount * commissionByPartner[b.PartnerID] / 100
	}
	return sortedRows(byName, func(r *domain.PartnerBreakdown) float64 { return r.Revenue })
}

func (s *Service) propertyBreakdown(ctx context.Context, bookings []domain.Booking) ([]domain.PropertyBreakdown, error) {
	properties, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[int64]string, len(properties))
	for _, p := range properties {
		nameByID[p.ID] = p.Name
	}

	byName := make(map[string]*domain.PropertyBreakdown)
	for _, b := range bookings {
		name := "Not Specified"
		if b.PropertyID != nil {
			if n, ok := nameByID[*b.PropertyID]; ok {
				name = n
			}
		}
		row, ok := byName[name]
		if !ok {
			row = &domain.PropertyBreakdown{Name: name}
			byName[name] = row
		}
		row.Bookings++
		row.Revenue += b.TotalAmount
	}
	return sortedRows(byName, func(r *domain.PropertyBreakdown) float64 { return r.Revenue }), nil
}

func paymentBreakdown(bookings []domain.Booking) []domain.PaymentBreakdown {
	byStatus := make(map[string]*domain.PaymentBreakdown)
	for _, b := range bookings {
		row, ok := byStatus[b.PaymentStatus]
		if !ok {
			row = &domain.PaymentBreakdown{PaymentStatus: b.PaymentStatus}
			byStatus[b.PaymentStatus] = row
		}
		row.Count++
		row.Amount += b.TotalAmount
	}
	rows := make([]domain.PaymentBreakdown, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b domain.PaymentBreakdown) int {
		return strings.Compare(a.PaymentStatus, b.PaymentStatus)
	})
	return rows
}

func statusBreakdown(bookings []domain.Booking) []domain.StatusBreakdown {
	byStatus := make(map[string]*domain.StatusBreakdown)
	for _, b := range bookings {
		row, ok := byStatus[b.Status]
		if !ok {
			row = &domain.StatusBreakdown{Status: b.Status}
			byStatus[b.Status] = row
		}
		row.Count++
		row.Revenue += b.TotalAmount
	}
	rows := make([]domain.StatusBreakdown, 0, len(byStatus))
	for _, row := range byStatus {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b domain.StatusBreakdown) int {
		return strings.Compare(a.Status, b.Status)
	})
	return rows
}

func dailyRevenue(bookings []domain.Booking) map[string]float64 {
	revenue := make(map[string]float64)
	for _, b := range bookings {
		revenue[b.CheckInDate] += b.TotalAmount
	}
	return revenue
}

func dailyBookings(bookings []domain.Booking) []domain.DailyBookings {
	byDate := make(map[string]*domain.DailyBookings)
	for _, b := range bookings {
		row, ok := byDate[b.CheckInDate]
		if !ok {
			row = &domain.DailyBookings{Date: b.CheckInDate}
			byDate[b.CheckInDate] = row
		}
		row.Bookings++
		row.Guests += b.NumAdults + b.NumKids
	}
	rows := make([]domain.DailyBookings, 0, len(byDate))
	for _, row := range byDate {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b domain.DailyBookings) int {
		return strings.Compare(a.Date, b.Date)
	})
	return rows
}

func partnerReportRows(partners []domain.Partner, bookings []domain.Booking) []domain.PartnerReportRow {
	rows := make([]domain.PartnerReportRow, 0, len(partners))
	byID := make(map[int64]*domain.PartnerReportRow, len(partners))
	for _, p := range partners {
		rows = append(rows, domain.PartnerReportRow{ID: p.ID, Name: p.Name, Commission: p.Commission})
		byID[p.ID] = &rows[len(rows)-1]
	}
	for _, b := range bookings {
		row, ok := byID[b.PartnerID]
		if !ok {
			continue
		}
		row.BookingCount++
		row.TotalRevenue += b.TotalAmount
		row.TotalCommission += b.TotalAmount * row.Commission / 100
	}
	slices.SortFunc(rows, func(a, b domain.PartnerReportRow) int {
		switch {
		case a.TotalRevenue > b.TotalRevenue:
			return -1
		case a.TotalRevenue < b.TotalRevenue:
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
	return rows
}

func sortedRows[T any](byName map[string]*T, revenue func(*T) float64) []T {
	rows := make([]T, 0, len(byName))
	for _, row := range byName {
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b T) int {
		switch {
		case revenue(&a) > revenue(&b):
			return -1
		case revenue(&a) < revenue(&b):
			return 1
		}
		return 0
	})
	return rows
}
