package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/service"
)

func TestDashboardAndReport(t *testing.T) {
	f := newFixture(t)
	idle := f.seat("C-1", model.SeatAvailable)
	f.book(f.ann, f.seatB, 0)
	cancelled := f.book(f.bob, f.seatB, 1)
	_, err := f.res.Cancel(f.ctx, f.bob, cancelled.ID)
	require.NoError(t, err)
	f.book(f.bob, f.seatA, 2)
	f.book(f.ann, f.seatA, 3)

	d, err := f.reports.Dashboard(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.TotalReservations, "cancelled rows count")
	assert.Equal(t, int64(1), d.TodayReservations)
	require.Len(t, d.SeatUsage, 3)
	assert.Equal(t, f.seatA, d.SeatUsage[0].SeatID, "ties go to the lowest seat id")
	assert.Equal(t, f.seatB, d.SeatUsage[1].SeatID)
	assert.Equal(t, idle, d.SeatUsage[2].SeatID)
	assert.Equal(t, int64(0), d.SeatUsage[2].Count)

	f.now = f.now.AddDate(0, 0, 1)
	r, err := f.reports.Report(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.TotalSeats)
	assert.Equal(t, int64(4), r.TotalReservations)
	assert.Equal(t, int64(3), r.UpcomingReservations)
	require.NotNil(t, r.MostBooked)
	assert.Equal(t, f.seatA, r.MostBooked.SeatID)
	assert.Equal(t, int64(2), r.MostBooked.Count)

	_, err = f.reports.Dashboard(f.ctx, f.ann)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)
	_, err = f.reports.Report(f.ctx, nil)
	assert.ErrorIs(t, err, service.ErrNotAuthorized)
}

func TestReportWithoutBookings(t *testing.T) {
	f := newFixture(t)

	r, err := f.reports.Report(f.ctx, f.admin)

	require.NoError(t, err)
	assert.Nil(t, r.MostBooked)
}

func TestListReservationsFilters(t *testing.T) {
	f := newFixture(t)
	f.book(f.ann, f.seatA, 1)
	f.book(f.bob, f.seatB, 1)
	f.book(f.ann, f.seatA, 2)

	all, err := f.reports.ListReservations(f.ctx, f.admin, model.ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	day := f.day(1)
	onDay, err := f.reports.ListReservations(f.ctx, f.admin, model.ReservationFilter{Date: &day})
	require.NoError(t, err)
	assert.Len(t, onDay, 2)

	byName, err := f.reports.ListReservations(f.ctx, f.admin, model.ReservationFilter{Date: &day, UserName: " aN "})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Ann", byName[0].UserName)

	_, err = f.reports.ListReservations(f.ctx, f.bob, model.ReservationFilter{})
	assert.ErrorIs(t, err, service.ErrNotAuthorized)

	n, err := f.reports.CountForDate(f.ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStorageErrorWraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := &service.StorageError{Op: "list seats", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list seats: connection reset", err.Error())
	assert.Equal(t, "time_slot: bad", (&service.ValidationError{Field: "time_slot", Message: "bad"}).Error())
}
