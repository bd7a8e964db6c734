package storetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/repository"
)

// Reservations is the reservations table.
type Reservations struct{ s *Store }

// WithTx runs fn against a private copy of the reservations table and
// publishes the copy only when fn succeeds.  Transactions never overlap.
func (x *Reservations) WithTx(_ context.Context, fn func(repository.ReservationTx) error) error {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	tx := &memTx{s: x.s, res: make(map[uint64]model.Reservation, len(x.s.res)), next: x.s.nextRes}
	for id, r := range x.s.res {
		tx.res[id] = r
	}
	if err := fn(tx); err != nil {
		return err
	}
	x.s.res, x.s.nextRes = tx.res, tx.next
	return nil
}

func (x *Reservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	r, ok := x.s.res[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (x *Reservations) ListByUser(_ context.Context, userID uint64) ([]model.ReservationView, error) {
	return x.views(func(r model.Reservation, _ model.User) bool { return r.UserID == userID }), nil
}

func (x *Reservations) List(_ context.Context, f model.ReservationFilter) ([]model.ReservationView, error) {
	name := strings.ToLower(strings.TrimSpace(f.UserName))
	return x.views(func(r model.Reservation, u model.User) bool {
		if f.Date != nil && !r.Date.Equal(model.DateOf(*f.Date)) {
			return false
		}
		return name == "" || strings.Contains(strings.ToLower(u.Name), name)
	}), nil
}

func (x *Reservations) views(keep func(model.Reservation, model.User) bool) []model.ReservationView {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	out := make([]model.ReservationView, 0)
	for _, r := range x.s.res {
		u, ok := x.s.users[r.UserID]
		if !ok || !keep(r, u) {
			continue
		}
		v := model.ReservationView{
			ID: r.ID, UserID: r.UserID, UserName: u.Name, UserEmail: u.Email, SeatID: r.SeatID,
			Date: model.FormatDate(r.Date), TimeSlot: r.TimeSlot, Status: r.Status, CreatedAt: r.CreatedAt,
		}
		if seat, ok := x.s.seats[r.SeatID]; ok {
			n := seat.Number
			v.SeatNumber, v.Location = &n, seat.Location
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type memTx struct {
	s    *Store
	res  map[uint64]model.Reservation
	next uint64
}

func (t *memTx) GetForUpdate(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.res[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (t *memTx) SeatByID(_ context.Context, id uint64) (*model.Seat, error) {
	return t.s.seat(id)
}

func (t *memTx) SeatBooked(_ context.Context, seatID uint64, date time.Time, excludeID uint64) (bool, error) {
	if t.s.MissConflicts {
		return false, nil
	}
	return t.conflict(excludeID, func(r model.Reservation) bool {
		return r.SeatID == seatID && r.Date.Equal(date)
	}), nil
}

func (t *memTx) UserBooked(_ context.Context, userID uint64, date time.Time) (bool, error) {
	if t.s.MissConflicts {
		return false, nil
	}
	return t.conflict(0, func(r model.Reservation) bool {
		return r.UserID == userID && r.Date.Equal(date)
	}), nil
}

func (t *memTx) conflict(excludeID uint64, match func(model.Reservation) bool) bool {
	for id, r := range t.res {
		if id != excludeID && r.Status == model.StatusActive && match(r) {
			return true
		}
	}
	return false
}

// checkKeys mirrors uq_res_active_seat and uq_res_active_user.
func (t *memTx) checkKeys(r model.Reservation) error {
	if r.Status != model.StatusActive {
		return nil
	}
	if t.conflict(r.ID, func(o model.Reservation) bool { return o.SeatID == r.SeatID && o.Date.Equal(r.Date) }) {
		return repository.ErrSeatTaken
	}
	if t.conflict(r.ID, func(o model.Reservation) bool { return o.UserID == r.UserID && o.Date.Equal(r.Date) }) {
		return repository.ErrUserBooked
	}
	return nil
}

func (t *memTx) Insert(_ context.Context, r *model.Reservation) error {
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	r.Date = model.DateOf(r.Date)
	if err := t.checkKeys(*r); err != nil {
		return err
	}
	t.next++
	r.ID = t.next
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	t.res[r.ID] = *r
	return nil
}

func (t *memTx) SetStatus(_ context.Context, id uint64, status model.ReservationStatus) error {
	r, ok := t.res[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	if err := t.checkKeys(r); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	t.res[id] = r
	return nil
}

func (t *memTx) Reschedule(_ context.Context, id, seatID uint64, date time.Time, slot model.TimeSlot) error {
	r, ok := t.res[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.SeatID, r.Date, r.TimeSlot = seatID, model.DateOf(date), slot
	if err := t.checkKeys(r); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()
	t.res[id] = r
	return nil
}

// Reports aggregates over the tables.
type Reports struct{ s *Store }

func (x *Reports) CountReservations(context.Context) (int64, error) {
	return x.count(func(model.Reservation) bool { return true }), nil
}

func (x *Reports) CountForDate(_ context.Context, date time.Time) (int64, error) {
	date = model.DateOf(date)
	return x.count(func(r model.Reservation) bool { return r.Date.Equal(date) }), nil
}

func (x *Reports) CountFrom(_ context.Context, date time.Time) (int64, error) {
	date = model.DateOf(date)
	return x.count(func(r model.Reservation) bool { return !r.Date.Before(date) }), nil
}

func (x *Reports) CountSeats(context.Context) (int64, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	return int64(len(x.s.seats)), nil
}

func (x *Reports) SeatUsage(context.Context) ([]model.SeatUsage, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	return x.usage(), nil
}

func (x *Reports) MostBooked(context.Context) (*model.SeatUsage, error) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	usage := x.usage()
	if len(usage) == 0 || usage[0].Count == 0 {
		return nil, nil
	}
	return &usage[0], nil
}

// usage counts reservations per existing seat, busiest first, lowest id
// breaking ties.  Callers hold the lock.
func (x *Reports) usage() []model.SeatUsage {
	counts := map[uint64]int64{}
	for _, r := range x.s.res {
		counts[r.SeatID]++
	}
	out := make([]model.SeatUsage, 0, len(x.s.seats))
	for id, seat := range x.s.seats {
		out = append(out, model.SeatUsage{SeatID: id, SeatNumber: seat.Number, Count: counts[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SeatID < out[j].SeatID
	})
	return out
}

func (x *Reports) count(keep func(model.Reservation) bool) int64 {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	var n int64
	for _, r := range x.s.res {
		if keep(r) {
			n++
		}
	}
	return n
}
