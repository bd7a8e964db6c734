package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// ReportRepo runs the aggregate queries behind the admin dashboard and
// reports pages.  Counts cover every reservation row, cancelled ones
// included.
type ReportRepo struct {
	db *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// CountReservations returns the number of reservation rows.
func (r *ReportRepo) CountReservations(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reservations`)
}

// CountForDate returns the number of reservation rows on date.
func (r *ReportRepo) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reservations WHERE res_date = ?`, model.FormatDate(date))
}

// CountFrom returns the number of reservation rows dated on or after date.
func (r *ReportRepo) CountFrom(ctx context.Context, date time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reservations WHERE res_date >= ?`, model.FormatDate(date))
}

// CountSeats returns the number of seats.
func (r *ReportRepo) CountSeats(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM seats`)
}

func (r *ReportRepo) count(ctx context.Context, q string, args ...interface{}) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SeatUsage returns one row per seat, unreserved seats included with a
// zero count, busiest first.
func (r *ReportRepo) SeatUsage(ctx context.Context) ([]model.SeatUsage, error) {
	const q = `SELECT s.id, s.seat_number, COUNT(r.id) AS cnt
	           FROM seats s
	           LEFT JOIN reservations r ON r.seat_id = s.id
	           GROUP BY s.id, s.seat_number
	           ORDER BY cnt DESC, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	usage := make([]model.SeatUsage, 0)
	for rows.Next() {
		var u model.SeatUsage
		if err := rows.Scan(&u.SeatID, &u.SeatNumber, &u.Count); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return usage, nil
}

// MostBooked returns the seat with the most reservation rows, the lowest
// seat id winning a tie.  It returns nil when nothing was ever booked.
func (r *ReportRepo) MostBooked(ctx context.Context) (*model.SeatUsage, error) {
	const q = `SELECT s.id, s.seat_number, COUNT(r.id) AS cnt
	           FROM seats s
	           JOIN reservations r ON r.seat_id = s.id
	           GROUP BY s.id, s.seat_number
	           ORDER BY cnt DESC, s.id
	           LIMIT 1`
	var u model.SeatUsage
	err := r.db.QueryRowContext(ctx, q).Scan(&u.SeatID, &u.SeatNumber, &u.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
