package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// ReservationTx is the set of reservation queries that run inside a
// single transaction.  Reads that guard a write lock the rows they
// return; the unique keys on reservations settle any race the locks
// cannot see (a row that does not exist yet cannot be locked).
type ReservationTx interface {
	// GetForUpdate loads and locks a reservation.  ErrNotFound when absent.
	GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)
	// SeatByID loads a seat.  ErrNotFound when absent.
	SeatByID(ctx context.Context, id uint64) (*model.Seat, error)
	// SeatBooked reports whether an active reservation other than
	// excludeID holds seatID on date.
	SeatBooked(ctx context.Context, seatID uint64, date time.Time, excludeID uint64) (bool, error)
	// UserBooked reports whether userID holds an active reservation on date.
	UserBooked(ctx context.Context, userID uint64, date time.Time) (bool, error)
	// Insert stores a new reservation and populates its ID and timestamps.
	// ErrSeatTaken or ErrUserBooked on a unique key violation.
	Insert(ctx context.Context, res *model.Reservation) error
	// SetStatus changes the lifecycle status of a reservation.
	SetStatus(ctx context.Context, id uint64, status model.ReservationStatus) error
	// Reschedule overwrites seat, date and slot of a reservation in place.
	// ErrSeatTaken or ErrUserBooked on a unique key violation.
	Reschedule(ctx context.Context, id, seatID uint64, date time.Time, slot model.TimeSlot) error
}

// ReservationRepo provides access to the reservations table.  Writes go
// through WithTx; listing reads run directly on the pool.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// WithTx runs fn inside a read-committed transaction.  The transaction
// commits when fn returns nil and rolls back otherwise.
func (r *ReservationRepo) WithTx(ctx context.Context, fn func(ReservationTx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&reservationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

type reservationTx struct {
	tx *sql.Tx
}

const reservationColumns = `id, user_id, seat_id, res_date, time_slot, status, created_at, updated_at`

func (t *reservationTx) GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	return scanReservation(t.tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ? FOR UPDATE`, id))
}

func (t *reservationTx) SeatByID(ctx context.Context, id uint64) (*model.Seat, error) {
	return scanSeat(t.tx.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id))
}

func (t *reservationTx) SeatBooked(ctx context.Context, seatID uint64, date time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT id FROM reservations
	           WHERE seat_id = ? AND res_date = ? AND status = ? AND id <> ?
	           LIMIT 1 FOR UPDATE`
	return t.exists(ctx, q, seatID, model.FormatDate(date), string(model.StatusActive), excludeID)
}

func (t *reservationTx) UserBooked(ctx context.Context, userID uint64, date time.Time) (bool, error) {
	const q = `SELECT id FROM reservations
	           WHERE user_id = ? AND res_date = ? AND status = ?
	           LIMIT 1 FOR UPDATE`
	return t.exists(ctx, q, userID, model.FormatDate(date), string(model.StatusActive))
}

func (t *reservationTx) exists(ctx context.Context, q string, args ...interface{}) (bool, error) {
	var id uint64
	err := t.tx.QueryRowContext(ctx, q, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (t *reservationTx) Insert(ctx context.Context, res *model.Reservation) error {
	if res.Status == "" {
		res.Status = model.StatusActive
	}
	const q = `INSERT INTO reservations (user_id, seat_id, res_date, time_slot, status) VALUES (?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q,
		res.UserID, res.SeatID, model.FormatDate(res.Date), string(res.TimeSlot), string(res.Status))
	if err != nil {
		return reservationConflict(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	now := time.Now().UTC()
	res.CreatedAt, res.UpdatedAt = now, now
	return nil
}

func (t *reservationTx) SetStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *reservationTx) Reschedule(ctx context.Context, id, seatID uint64, date time.Time, slot model.TimeSlot) error {
	const q = `UPDATE reservations
	           SET seat_id = ?, res_date = ?, time_slot = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := t.tx.ExecContext(ctx, q, seatID, model.FormatDate(date), string(slot), id); err != nil {
		return reservationConflict(err)
	}
	return nil
}

// GetByID loads a reservation without locking it.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
}

const viewSelect = `SELECT r.id, r.user_id, u.name, u.email, r.seat_id, s.seat_number, s.location,
                           r.res_date, r.time_slot, r.status, r.created_at
                    FROM reservations r
                    JOIN users u ON u.id = r.user_id
                    LEFT JOIN seats s ON s.id = r.seat_id`

// ListByUser returns the reservations of one user, newest date first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationView, error) {
	return r.queryViews(ctx, viewSelect+` WHERE r.user_id = ? ORDER BY r.res_date DESC, r.id DESC`, userID)
}

// List returns all reservations matching filter, newest date first.  The
// user name match is a case-insensitive substring match.
func (r *ReservationRepo) List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationView, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Date != nil {
		where = append(where, `r.res_date = ?`)
		args = append(args, model.FormatDate(*f.Date))
	}
	if name := strings.TrimSpace(f.UserName); name != "" {
		where = append(where, `LOWER(u.name) LIKE ?`)
		args = append(args, "%"+escapeLike(strings.ToLower(name))+"%")
	}
	q := viewSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY r.res_date DESC, r.id DESC`
	return r.queryViews(ctx, q, args...)
}

func (r *ReservationRepo) queryViews(ctx context.Context, q string, args ...interface{}) ([]model.ReservationView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	views := make([]model.ReservationView, 0)
	for rows.Next() {
		var (
			v          model.ReservationView
			seatNumber sql.NullString
			location   sql.NullString
			date       time.Time
			slot       string
			status     string
		)
		if err := rows.Scan(&v.ID, &v.UserID, &v.UserName, &v.UserEmail, &v.SeatID, &seatNumber, &location,
			&date, &slot, &status, &v.CreatedAt); err != nil {
			return nil, err
		}
		if seatNumber.Valid {
			n := seatNumber.String
			v.SeatNumber = &n
		}
		if location.Valid {
			l := location.String
			v.Location = &l
		}
		v.Date = model.FormatDate(date)
		v.TimeSlot = model.TimeSlot(slot)
		v.Status = model.ReservationStatus(status)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var (
		res    model.Reservation
		slot   string
		status string
	)
	err := row.Scan(&res.ID, &res.UserID, &res.SeatID, &res.Date, &slot, &status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	res.Date = model.DateOf(res.Date)
	res.TimeSlot = model.TimeSlot(slot)
	res.Status = model.ReservationStatus(status)
	return &res, nil
}

// escapeLike escapes the LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
