package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/office-seat-reservation/internal/model"
	"github.com/iliyamo/office-seat-reservation/internal/queue"
	"github.com/iliyamo/office-seat-reservation/internal/service"
	"github.com/iliyamo/office-seat-reservation/internal/storetest"
)

var (
	_ service.UserStore        = (*storetest.Users)(nil)
	_ service.SessionStore     = (*storetest.Sessions)(nil)
	_ service.SeatStore        = (*storetest.Seats)(nil)
	_ service.ReservationStore = (*storetest.Reservations)(nil)
	_ service.ReportStore      = (*storetest.Reports)(nil)
)

type recorder struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []queue.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *storetest.Store
	now    time.Time
	clock  service.Clock
	events *recorder

	res       *service.ReservationService
	inventory *service.InventoryService
	reports   *service.ReportService
	auth      *service.AuthService

	ann, bob, admin *model.Principal
	seatA, seatB    uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  storetest.New(),
		now:    time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC),
		events: &recorder{},
	}
	f.clock = service.Clock{Now: func() time.Time { return f.now }, Location: time.UTC}
	f.res = service.NewReservationService(f.store.Reservations(), f.store.Users(), f.store.Seats(), nil,
		service.WithClock(f.clock), service.WithEvents(f.events))
	f.inventory = service.NewInventoryService(f.store.Seats(), nil)
	f.reports = service.NewReportService(f.store.Reports(), f.store.Reservations(), f.clock)
	f.auth = service.NewAuthService(f.store.Users(), bcrypt.MinCost, nil)

	f.ann = f.user("Ann", model.RoleMember)
	f.bob = f.user("Bob", model.RoleMember)
	f.admin = f.user("Boss", model.RoleAdmin)
	f.seatA = f.seat("A-1", model.SeatAvailable)
	f.seatB = f.seat("B-1", model.SeatAvailable)
	return f
}

func (f *fixture) user(name string, role model.Role) *model.Principal {
	u := &model.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	return &model.Principal{UserID: u.ID, Name: u.Name, Role: u.Role}
}

func (f *fixture) seat(number string, status model.SeatStatus) uint64 {
	s := &model.Seat{Number: number, Status: status}
	require.NoError(f.t, f.store.Seats().Create(f.ctx, s))
	return s.ID
}

func (f *fixture) today() time.Time { return model.DateOf(f.now) }

func (f *fixture) day(offset int) time.Time { return f.today().AddDate(0, 0, offset) }

func (f *fixture) book(p *model.Principal, seat uint64, offset int) *model.Reservation {
	f.t.Helper()
	r, err := f.res.Create(f.ctx, p, seat, f.day(offset), model.SlotMorning)
	require.NoError(f.t, err)
	return r
}
