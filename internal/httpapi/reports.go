package httpapi

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"homeland/backend/internal/domain"
)

// handleReports serves report generation.
// GET renders an already-parameterized report (links, exports); POST is used
// by the dashboard and carries the CSRF token.
func (a *API) handleReports(w http.ResponseWriter, r *http.Request) {
	if action := r.URL.Query().Get("action"); action != "" && action != "generate" {
		writeFail(w, http.StatusBadRequest, "unknown report action")
		return
	}

	var req domain.ReportRequest

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req = domain.ReportRequest{
			Type:      q.Get("type"),
			Period:    q.Get("period"),
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
			Format:    q.Get("format"),
		}
	case http.MethodPost:
		if err := decodeJSON(r, &req); err != nil {
			writeFail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !a.checkCSRF(w, r, req.CSRFToken) {
			return
		}
	default:
		writeMethodNotAllowed(w)
		return
	}

	if !a.allowAction(w, r, "report_generate") {
		return
	}

	report, err := a.service.GenerateReport(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(report, "csv")))
		_, _ = w.Write([]byte(reportToCSV(report)))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(reportToPrintableHTML(report)))
	default:
		writeOK(w, map[string]any{"report": report})
	}
}

func reportFilename(report *domain.Report, ext string) string {
	if report.Year != "" {
		return fmt.Sprintf("%s-report-%s-%s.%s", report.Period, report.Year, report.Month, ext)
	}
	return fmt.Sprintf("%s-report.%s", report.Period, ext)
}

func reportToCSV(report *domain.Report) string {
	lines := []string{"section,name,count,amount"}

	if s := report.Summary; s != nil {
		lines = append(lines,
			fmt.Sprintf("summary,total_bookings,%d,", s.TotalBookings),
			fmt.Sprintf("summary,total_revenue,,%.2f", s.TotalRevenue),
			fmt.Sprintf("summary,total_commission,,%.2f", s.TotalCommission),
			fmt.Sprintf("summary,net_revenue,,%.2f", s.NetRevenue),
			fmt.Sprintf("summary,average_booking_value,,%.2f", s.AverageBookingValue),
		)
	}
	for _, row := range report.PartnerBreakdown {
		lines = append(lines, fmt.Sprintf("partner,%s,%d,%.2f", csvEscape(row.Name), row.Bookings, row.Revenue))
	}
	for _, row := range report.PropertyBreakdown {
		lines = append(lines, fmt.Sprintf("property,%s,%d,%.2f", csvEscape(row.Name), row.Bookings, row.Revenue))
	}
	for _, row := range report.PaymentBreakdown {
		lines = append(lines, fmt.Sprintf("payment,%s,%d,%.2f", csvEscape(row.PaymentStatus), row.Count, row.Amount))
	}
	for _, row := range report.Partners {
		lines = append(lines, fmt.Sprintf("partner,%s,%d,%.2f", csvEscape(row.Name), row.BookingCount, row.TotalRevenue))
	}
	for _, date := range sortedDates(report.DailyRevenue) {
		lines = append(lines, fmt.Sprintf("daily,%s,,%.2f", date, report.DailyRevenue[date]))
	}
	for _, b := range report.Bookings {
		lines = append(lines, fmt.Sprintf("booking,%s,%s,%.2f", csvEscape(b.CustomerName), b.CheckInDate, b.TotalAmount))
	}
	return strings.Join(lines, "\n") + "\n"
}

func csvEscape(val string) string {
	if strings.ContainsAny(val, ",\"\n") {
		return `"` + strings.ReplaceAll(val, `"`, `""`) + `"`
	}
	return val
}

func sortedDates(revenue map[string]float64) []string {
	dates := make([]string, 0, len(revenue))
	for date := range revenue {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// reportHTMLTmpl renders the printable report. All user-controlled fields are
// auto-escaped by html/template to prevent XSS.
var reportHTMLTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Period}} report</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
  </style>
</head>
<body>
  <h2>{{.Period}} report{{if .Year}} {{.Year}}-{{.Month}}{{end}}</h2>
  {{with .Summary}}
  <p>Bookings: {{.TotalBookings}} | Revenue: {{printf "%.2f" .TotalRevenue}} | Commission: {{printf "%.2f" .TotalCommission}} | Net: {{printf "%.2f" .NetRevenue}} | Average: {{printf "%.2f" .AverageBookingValue}}</p>
  {{end}}

  {{if .PartnerBreakdown}}
  <h3>By Partner</h3>
  <table>
    <thead><tr><th>Partner</th><th>Bookings</th><th>Revenue</th><th>Commission</th></tr></thead>
    <tbody>{{range .PartnerBreakdown}}<tr><td>{{.Name}}</td><td style="text-align:right;">{{.Bookings}}</td><td style="text-align:right;">{{printf "%.2f" .Revenue}}</td><td style="text-align:right;">{{printf "%.2f" .Commission}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}

  {{if .PropertyBreakdown}}
  <h3>By Property</h3>
  <table>
    <thead><tr><th>Property</th><th>Bookings</th><th>Revenue</th></tr></thead>
    <tbody>{{range .PropertyBreakdown}}<tr><td>{{.Name}}</td><td style="text-align:right;">{{.Bookings}}</td><td style="text-align:right;">{{printf "%.2f" .Revenue}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}

  {{if .PaymentBreakdown}}
  <h3>By Payment Status</h3>
  <table>
    <thead><tr><th>Status</th><th>Count</th><th>Amount</th></tr></thead>
    <tbody>{{range .PaymentBreakdown}}<tr><td>{{.PaymentStatus}}</td><td style="text-align:right;">{{.Count}}</td><td style="text-align:right;">{{printf "%.2f" .Amount}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}

  {{if .Partners}}
  <h3>Partners</h3>
  <table>
    <thead><tr><th>Partner</th><th>Commission %</th><th>Bookings</th><th>Revenue</th><th>Commission</th></tr></thead>
    <tbody>{{range .Partners}}<tr><td>{{.Name}}</td><td style="text-align:right;">{{printf "%.2f" .Commission}}</td><td style="text-align:right;">{{.BookingCount}}</td><td style="text-align:right;">{{printf "%.2f" .TotalRevenue}}</td><td style="text-align:right;">{{printf "%.2f" .TotalCommission}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}

  {{if .Bookings}}
  <h3>Bookings</h3>
  <table>
    <thead><tr><th>Reference</th><th>Customer</th><th>Check-in</th><th>Check-out</th><th>Status</th><th>Payment</th><th>Total</th></tr></thead>
    <tbody>{{range .Bookings}}<tr><td>{{.BookingReference}}</td><td>{{.CustomerName}}</td><td>{{.CheckInDate}}</td><td>{{.CheckOutDate}}</td><td>{{.Status}}</td><td>{{.PaymentStatus}}</td><td style="text-align:right;">{{printf "%.2f" .TotalAmount}}</td></tr>{{end}}</tbody>
  </table>
  {{end}}
</body>
</html>
`))

func reportToPrintableHTML(report *domain.Report) string {
	var buf bytes.Buffer
	if err := reportHTMLTmpl.Execute(&buf, report); err != nil {
		return "<!doctype html><html><body><p>Report rendering error.</p></body></html>"
	}
	return buf.String()
}
