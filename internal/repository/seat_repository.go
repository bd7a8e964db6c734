package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// SeatRepo provides methods to work with seats in the database.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, seat_number, location, status, created_at, updated_at`

// Create inserts a single seat record. On success the seat's ID is populated.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	if s.Status == "" {
		s.Status = model.SeatAvailable
	}
	const q = `INSERT INTO seats (seat_number, location, status) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Number, nullString(s.Location), string(s.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	return nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	return scanSeat(r.db.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id))
}

// List returns every seat ordered by seat number.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
	return querySeats(ctx, r.db, `SELECT `+seatColumns+` FROM seats ORDER BY seat_number, id`)
}

// ListAvailable returns seats whose administrative status is available.
func (r *SeatRepo) ListAvailable(ctx context.Context) ([]model.Seat, error) {
	return querySeats(ctx, r.db,
		`SELECT `+seatColumns+` FROM seats WHERE status = ? ORDER BY seat_number, id`,
		string(model.SeatAvailable))
}

// ListAvailableOn returns available seats that carry no active reservation
// on date.  It is a plain snapshot read; writers re-check under lock.
func (r *SeatRepo) ListAvailableOn(ctx context.Context, date time.Time) ([]model.Seat, error) {
	const q = `SELECT s.id, s.seat_number, s.location, s.status, s.created_at, s.updated_at
	           FROM seats s
	           WHERE s.status = ?
	             AND s.id NOT IN (
	                 SELECT r.seat_id FROM reservations r
	                 WHERE r.res_date = ? AND r.status = ?)
	           ORDER BY s.seat_number, s.id`
	return querySeats(ctx, r.db, q, string(model.SeatAvailable), model.FormatDate(date), string(model.StatusActive))
}

// Update overwrites number and location and, when given, status.
// Returns ErrNotFound when no seat has the id.
func (r *SeatRepo) Update(ctx context.Context, id uint64, u model.SeatUpdate) error {
	q := `UPDATE seats SET seat_number = ?, location = ?, updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{u.Number, nullString(u.Location)}
	if u.Status != nil {
		q += `, status = ?`
		args = append(args, string(*u.Status))
	}
	q += ` WHERE id = ?`
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	// MySQL reports zero affected rows for a no-op update, so confirm
	// existence before calling it missing.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a seat.  Reservations referencing it are left untouched.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeat(row rowScanner) (*model.Seat, error) {
	var (
		s        model.Seat
		location sql.NullString
		status   string
	)
	if err := row.Scan(&s.ID, &s.Number, &location, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if location.Valid {
		l := location.String
		s.Location = &l
	}
	s.Status = model.SeatStatus(status)
	return &s, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func querySeats(ctx context.Context, q queryer, query string, args ...interface{}) ([]model.Seat, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
