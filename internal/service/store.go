package service

import (
	"context"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/queue"
	"github.com/iliyamo/office-seat-reservation/internal/repository"
)

// The interfaces below are satisfied by the MySQL repositories and by the
// in-memory store used in tests.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type SessionStore interface {
	Store(ctx context.Context, id string, userID uint64, exp time.Time) error
	IsActive(ctx context.Context, id string, now time.Time) (bool, error)
	Revoke(ctx context.Context, id string) error
}

type SeatStore interface {
	Create(ctx context.Context, s *model.Seat) error
	GetByID(ctx context.Context, id uint64) (*model.Seat, error)
	List(ctx context.Context) ([]model.Seat, error)
	ListAvailable(ctx context.Context) ([]model.Seat, error)
	ListAvailableOn(ctx context.Context, date time.Time) ([]model.Seat, error)
	Update(ctx context.Context, id uint64, u model.SeatUpdate) error
	Delete(ctx context.Context, id uint64) error
}

// ReservationStore runs every write through WithTx.
type ReservationStore interface {
	WithTx(ctx context.Context, fn func(repository.ReservationTx) error) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ReservationView, error)
	List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationView, error)
}

type ReportStore interface {
	CountReservations(ctx context.Context) (int64, error)
	CountForDate(ctx context.Context, date time.Time) (int64, error)
	CountFrom(ctx context.Context, date time.Time) (int64, error)
	CountSeats(ctx context.Context) (int64, error)
	SeatUsage(ctx context.Context) ([]model.SeatUsage, error)
	MostBooked(ctx context.Context) (*model.SeatUsage, error)
}

// EventPublisher delivers reservation events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

var (
	_ UserStore        = (*repository.UserRepo)(nil)
	_ SessionStore     = (*repository.SessionRepo)(nil)
	_ SeatStore        = (*repository.SeatRepo)(nil)
	_ ReservationStore = (*repository.ReservationRepo)(nil)
	_ ReportStore      = (*repository.ReportRepo)(nil)
)
