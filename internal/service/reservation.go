package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/queue"
	"github.com/iliyamo/office-seat-reservation/internal/repository"
)

// ReservationService owns the booking rules.  Every mutation runs in one
// store transaction: its guard reads lock the rows they look at and the
// store's unique keys reject whatever a concurrent writer slipped in, so
// at most one active reservation exists per seat and date and per user
// and date.
type ReservationService struct {
	store  ReservationStore
	users  UserStore
	seats  SeatStore
	events EventPublisher
	clock  Clock
	log    *zap.Logger
}

// ReservationOption customises a ReservationService.
type ReservationOption func(*ReservationService)

// WithClock overrides the source of "today".
func WithClock(c Clock) ReservationOption { return func(s *ReservationService) { s.clock = c } }

// WithEvents sets the publisher notified after each committed change.
func WithEvents(p EventPublisher) ReservationOption {
	return func(s *ReservationService) {
		if p != nil {
			s.events = p
		}
	}
}

func NewReservationService(store ReservationStore, users UserStore, seats SeatStore, log *zap.Logger, opts ...ReservationOption) *ReservationService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ReservationService{store: store, users: users, seats: seats, events: queue.Nop{}, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today is the current date in the office timezone.
func (s *ReservationService) Today() time.Time { return s.clock.Today() }

// AvailableSeats lists seats that are available and unbooked on date.
// The result is a snapshot; a later Create may still lose a race.
func (s *ReservationService) AvailableSeats(ctx context.Context, date time.Time) ([]model.Seat, error) {
	seats, err := s.seats.ListAvailableOn(ctx, model.DateOf(date))
	return seats, translate("list seats for date", err)
}

// Create books seatID on date for the caller.
func (s *ReservationService) Create(ctx context.Context, p *model.Principal, seatID uint64, date time.Time, slot model.TimeSlot) (*model.Reservation, error) {
	if err := Authorize(p, CapAuthenticated).Err(); err != nil {
		return nil, err
	}
	date = model.DateOf(date)
	if date.Before(s.Today()) {
		return nil, ErrPastDate
	}
	if !slot.Valid() {
		return nil, invalid("time_slot", "must be morning or afternoon")
	}

	res := &model.Reservation{UserID: p.UserID, SeatID: seatID, Date: date, TimeSlot: slot, Status: model.StatusActive}
	err := s.store.WithTx(ctx, func(tx repository.ReservationTx) error {
		seat, err := tx.SeatByID(ctx, seatID)
		if err != nil {
			return err
		}
		if seat.Status != model.SeatAvailable {
			return ErrSeatUnavailable
		}
		if booked, err := tx.UserBooked(ctx, p.UserID, date); err != nil {
			return err
		} else if booked {
			return ErrDuplicateUserBooking
		}
		if booked, err := tx.SeatBooked(ctx, seatID, date, 0); err != nil {
			return err
		} else if booked {
			return ErrSeatAlreadyBooked
		}
		return tx.Insert(ctx, res)
	})
	if err != nil {
		return nil, translate("create reservation", err)
	}
	s.log.Info("reservation created", resFields(res, p)...)
	s.publish(ctx, queue.EventCreated, res, p)
	return res, nil
}

// Cancel marks a reservation cancelled.  Cancelling an already cancelled
// reservation returns it unchanged.
func (s *ReservationService) Cancel(ctx context.Context, p *model.Principal, id uint64) (*model.Reservation, error) {
	if err := Authorize(p, CapAuthenticated).Err(); err != nil {
		return nil, err
	}
	today := s.Today()
	var (
		res     *model.Reservation
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx repository.ReservationTx) error {
		var err error
		res, err = tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanManage(p, res) {
			return ErrNotAuthorized
		}
		if res.Date.Before(today) {
			return ErrPastDate
		}
		if res.Status == model.StatusCancelled {
			return nil
		}
		if err := tx.SetStatus(ctx, id, model.StatusCancelled); err != nil {
			return err
		}
		res.Status = model.StatusCancelled
		changed = true
		return nil
	})
	if err != nil {
		return nil, translate("cancel reservation", err)
	}
	if changed {
		s.log.Info("reservation cancelled", resFields(res, p)...)
		s.publish(ctx, queue.EventCancelled, res, p)
	}
	return res, nil
}

// Modify moves a reservation to another seat, date or slot in place.
// Only seat conflicts are pre-checked; a clash with another of the
// user's own bookings is caught by the store's per-user key.
func (s *ReservationService) Modify(ctx context.Context, p *model.Principal, id, seatID uint64, date time.Time, slot model.TimeSlot) (*model.Reservation, error) {
	if err := Authorize(p, CapAuthenticated).Err(); err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, invalid("time_slot", "must be morning or afternoon")
	}
	today := s.Today()
	date = model.DateOf(date)

	var res *model.Reservation
	err := s.store.WithTx(ctx, func(tx repository.ReservationTx) error {
		var err error
		res, err = tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanManage(p, res) {
			return ErrNotAuthorized
		}
		if res.Date.Before(today) {
			return ErrPastDate
		}
		if res.Status == model.StatusCancelled {
			return ErrReservationCancelled
		}
		if date.Before(today) {
			return ErrPastDate
		}
		seat, err := tx.SeatByID(ctx, seatID)
		if err != nil {
			return err
		}
		if seatID != res.SeatID && seat.Status != model.SeatAvailable {
			return ErrSeatUnavailable
		}
		if booked, err := tx.SeatBooked(ctx, seatID, date, id); err != nil {
			return err
		} else if booked {
			return ErrSeatAlreadyBooked
		}
		if err := tx.Reschedule(ctx, id, seatID, date, slot); err != nil {
			return err
		}
		res.SeatID, res.Date, res.TimeSlot = seatID, date, slot
		res.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, translate("modify reservation", err)
	}
	s.log.Info("reservation modified", resFields(res, p)...)
	s.publish(ctx, queue.EventModified, res, p)
	return res, nil
}

// Assign books a seat on behalf of userID; admin only.  Seat status is not
// consulted, only whether the seat is free on date.
func (s *ReservationService) Assign(ctx context.Context, p *model.Principal, userID, seatID uint64, date time.Time, slot model.TimeSlot) (*model.Reservation, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	date = model.DateOf(date)
	if date.Before(s.Today()) {
		return nil, ErrPastDate
	}
	if !slot.Valid() {
		return nil, invalid("time_slot", "must be morning or afternoon")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, translate("load user", err)
	}

	res := &model.Reservation{UserID: userID, SeatID: seatID, Date: date, TimeSlot: slot, Status: model.StatusActive}
	err := s.store.WithTx(ctx, func(tx repository.ReservationTx) error {
		if _, err := tx.SeatByID(ctx, seatID); err != nil {
			return err
		}
		if booked, err := tx.SeatBooked(ctx, seatID, date, 0); err != nil {
			return err
		} else if booked {
			return ErrSeatAlreadyBooked
		}
		return tx.Insert(ctx, res)
	})
	if err != nil {
		return nil, translate("assign reservation", err)
	}
	s.log.Info("reservation assigned", resFields(res, p)...)
	s.publish(ctx, queue.EventAssigned, res, p)
	return res, nil
}

// ListForUser returns the caller's reservations, newest date first.
func (s *ReservationService) ListForUser(ctx context.Context, p *model.Principal) ([]model.ReservationView, error) {
	if err := Authorize(p, CapAuthenticated).Err(); err != nil {
		return nil, err
	}
	views, err := s.store.ListByUser(ctx, p.UserID)
	return views, translate("list reservations", err)
}

// Get returns a reservation the caller may manage.
func (s *ReservationService) Get(ctx context.Context, p *model.Principal, id uint64) (*model.Reservation, error) {
	if err := Authorize(p, CapAuthenticated).Err(); err != nil {
		return nil, err
	}
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translate("load reservation", err)
	}
	if !CanManage(p, res) {
		return nil, ErrNotAuthorized
	}
	return res, nil
}

func (s *ReservationService) publish(ctx context.Context, t queue.EventType, res *model.Reservation, p *model.Principal) {
	ev := queue.ReservationEvent{
		Type:          t,
		ReservationID: res.ID,
		UserID:        res.UserID,
		ActorID:       p.UserID,
		SeatID:        res.SeatID,
		Date:          model.FormatDate(res.Date),
		TimeSlot:      string(res.TimeSlot),
		OccurredAt:    s.clock.now().UTC(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish reservation event failed", zap.String("type", string(t)),
			zap.Uint64("reservation_id", res.ID), zap.Error(err))
	}
}

func resFields(res *model.Reservation, p *model.Principal) []zap.Field {
	return []zap.Field{
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("user_id", res.UserID),
		zap.Uint64("actor_id", p.UserID),
		zap.Uint64("seat_id", res.SeatID),
		zap.String("date", model.FormatDate(res.Date)),
	}
}
