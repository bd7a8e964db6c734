// Package storetest is an in-memory implementation of the service store
// interfaces.  It enforces the same uniqueness rules as the MySQL schema:
// one email per user, and one active reservation per seat and date and
// per user and date.  Transactions are serialised and applied atomically.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/repository"
)

// Store holds all tables.  Use the accessor methods to obtain the
// per-table views the services expect.
type Store struct {
	mu sync.Mutex

	users    map[uint64]model.User
	seats    map[uint64]model.Seat
	res      map[uint64]model.Reservation
	sessions map[string]model.Session

	nextUser, nextSeat, nextRes uint64

	// MissConflicts makes the transactional guard reads report no
	// conflict, as a concurrent insert invisible to the lock would.  The
	// unique keys then decide.
	MissConflicts bool
}

func New() *Store {
	return &Store{
		users:    map[uint64]model.User{},
		seats:    map[uint64]model.Seat{},
		res:      map[uint64]model.Reservation{},
		sessions: map[string]model.Session{},
	}
}

func (s *Store) Users() *Users               { return &Users{s} }
func (s *Store) Seats() *Seats               { return &Seats{s} }
func (s *Store) Reservations() *Reservations { return &Reservations{s} }
func (s *Store) Sessions() *Sessions         { return &Sessions{s} }
func (s *Store) Reports() *Reports           { return &Reports{s} }

// Users is the users table.
type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, other := range u.s.users {
		if other.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	u.s.nextUser++
	user.ID = u.s.nextUser
	user.CreatedAt = time.Now().UTC()
	u.s.users[user.ID] = *user
	return nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range u.s.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id uint64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u *Users) List(context.Context) ([]model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := make([]model.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Sessions is the sessions table.
type Sessions struct{ s *Store }

func (x *Sessions) Store(_ context.Context, id string, userID uint64, exp time.Time) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	x.s.sessions[id] = model.Session{ID: id, UserID: userID, ExpiresAt: exp.UTC(), CreatedAt: time.Now().UTC()}
	return nil
}

func (x *Sessions) IsActive(_ context.Context, id string, now time.Time) (bool, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	sess, ok := x.s.sessions[id]
	return ok && sess.RevokedAt == nil && now.UTC().Before(sess.ExpiresAt), nil
}

func (x *Sessions) Revoke(_ context.Context, id string) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	if sess, ok := x.s.sessions[id]; ok && sess.RevokedAt == nil {
		now := time.Now().UTC()
		sess.RevokedAt = &now
		x.s.sessions[id] = sess
	}
	return nil
}

// Seats is the seats table.
type Seats struct{ s *Store }

func (x *Seats) Create(_ context.Context, seat *model.Seat) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	if seat.Status == "" {
		seat.Status = model.SeatAvailable
	}
	x.s.nextSeat++
	seat.ID = x.s.nextSeat
	now := time.Now().UTC()
	seat.CreatedAt, seat.UpdatedAt = now, now
	x.s.seats[seat.ID] = *seat
	return nil
}

func (x *Seats) GetByID(_ context.Context, id uint64) (*model.Seat, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	return x.s.seat(id)
}

func (x *Seats) List(context.Context) ([]model.Seat, error) {
	return x.filter(func(model.Seat) bool { return true }), nil
}

func (x *Seats) ListAvailable(context.Context) ([]model.Seat, error) {
	return x.filter(func(s model.Seat) bool { return s.Status == model.SeatAvailable }), nil
}

func (x *Seats) ListAvailableOn(_ context.Context, date time.Time) ([]model.Seat, error) {
	date = model.DateOf(date)
	return x.filter(func(s model.Seat) bool {
		if s.Status != model.SeatAvailable {
			return false
		}
		for _, r := range x.s.res {
			if r.SeatID == s.ID && r.Status == model.StatusActive && r.Date.Equal(date) {
				return false
			}
		}
		return true
	}), nil
}

func (x *Seats) Update(_ context.Context, id uint64, u model.SeatUpdate) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	seat, ok := x.s.seats[id]
	if !ok {
		return repository.ErrNotFound
	}
	seat.Number, seat.Location = u.Number, u.Location
	if u.Status != nil {
		seat.Status = *u.Status
	}
	seat.UpdatedAt = time.Now().UTC()
	x.s.seats[id] = seat
	return nil
}

func (x *Seats) Delete(_ context.Context, id uint64) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	if _, ok := x.s.seats[id]; !ok {
		return repository.ErrNotFound
	}
	delete(x.s.seats, id)
	return nil
}

func (x *Seats) filter(keep func(model.Seat) bool) []model.Seat {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	out := make([]model.Seat, 0, len(x.s.seats))
	for _, seat := range x.s.seats {
		if keep(seat) {
			out = append(out, seat)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) seat(id uint64) (*model.Seat, error) {
	seat, ok := s.seats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &seat, nil
}
