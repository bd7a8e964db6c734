package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// ReportService serves the admin dashboard, reports and reservation list.
// Counts include cancelled reservations.
type ReportService struct {
	reports      ReportStore
	reservations ReservationStore
	clock        Clock
}

func NewReportService(reports ReportStore, reservations ReservationStore, clock Clock) *ReportService {
	return &ReportService{reports: reports, reservations: reservations, clock: clock}
}

// Dashboard returns totals and per-seat usage; admin only.
func (s *ReportService) Dashboard(ctx context.Context, p *model.Principal) (*model.Dashboard, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	var (
		d   model.Dashboard
		err error
	)
	if d.TotalReservations, err = s.reports.CountReservations(ctx); err != nil {
		return nil, translate("count reservations", err)
	}
	if d.TodayReservations, err = s.CountForDate(ctx, s.clock.Today()); err != nil {
		return nil, err
	}
	if d.SeatUsage, err = s.reports.SeatUsage(ctx); err != nil {
		return nil, translate("seat usage", err)
	}
	return &d, nil
}

// Report returns the summary figures; admin only.
func (s *ReportService) Report(ctx context.Context, p *model.Principal) (*model.Report, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	var (
		r   model.Report
		err error
	)
	if r.TotalSeats, err = s.reports.CountSeats(ctx); err != nil {
		return nil, translate("count seats", err)
	}
	if r.TotalReservations, err = s.reports.CountReservations(ctx); err != nil {
		return nil, translate("count reservations", err)
	}
	if r.UpcomingReservations, err = s.reports.CountFrom(ctx, s.clock.Today()); err != nil {
		return nil, translate("count upcoming", err)
	}
	if r.MostBooked, err = s.reports.MostBooked(ctx); err != nil {
		return nil, translate("most booked", err)
	}
	return &r, nil
}

// ListReservations returns every reservation matching f; admin only.
func (s *ReportService) ListReservations(ctx context.Context, p *model.Principal, f model.ReservationFilter) ([]model.ReservationView, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	f.UserName = strings.TrimSpace(f.UserName)
	views, err := s.reservations.List(ctx, f)
	return views, translate("list reservations", err)
}

// CountForDate counts reservation rows on date.
func (s *ReportService) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	n, err := s.reports.CountForDate(ctx, model.DateOf(date))
	return n, translate("count for date", err)
}
