package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/office-seat-reservation/internal/model"
)

// SeatInput is the add/edit seat form.  An empty Status leaves the status
// untouched on edit and means available on add.
type SeatInput struct {
	Number   string `form:"seat_number" validate:"required,max=20"`
	Location string `form:"location" validate:"max=100"`
	Status   string `form:"status" validate:"omitempty,oneof=available unavailable"`
}

func (in *SeatInput) normalise() {
	in.Number = strings.TrimSpace(in.Number)
	in.Location = strings.TrimSpace(in.Location)
	in.Status = strings.TrimSpace(in.Status)
}

func (in SeatInput) location() *string {
	if in.Location == "" {
		return nil
	}
	l := in.Location
	return &l
}

// InventoryService manages the seat catalogue.
type InventoryService struct {
	seats SeatStore
	log   *zap.Logger
}

func NewInventoryService(seats SeatStore, log *zap.Logger) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{seats: seats, log: log}
}

// ListAvailable returns every seat whose status is available, regardless
// of bookings.
func (s *InventoryService) ListAvailable(ctx context.Context) ([]model.Seat, error) {
	seats, err := s.seats.ListAvailable(ctx)
	return seats, translate("list available seats", err)
}

// ListAll returns every seat.
func (s *InventoryService) ListAll(ctx context.Context) ([]model.Seat, error) {
	seats, err := s.seats.List(ctx)
	return seats, translate("list seats", err)
}

// Get returns one seat.
func (s *InventoryService) Get(ctx context.Context, id uint64) (*model.Seat, error) {
	seat, err := s.seats.GetByID(ctx, id)
	return seat, translate("load seat", err)
}

// Create adds a seat; admin only.
func (s *InventoryService) Create(ctx context.Context, p *model.Principal, in SeatInput) (*model.Seat, error) {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return nil, err
	}
	in.normalise()
	if err := Validate(in); err != nil {
		return nil, err
	}
	seat := &model.Seat{Number: in.Number, Location: in.location(), Status: model.SeatStatus(in.Status)}
	if err := s.seats.Create(ctx, seat); err != nil {
		return nil, translate("create seat", err)
	}
	s.log.Info("seat created", zap.Uint64("seat_id", seat.ID), zap.String("seat_number", seat.Number))
	return seat, nil
}

// Update edits a seat; admin only.
func (s *InventoryService) Update(ctx context.Context, p *model.Principal, id uint64, in SeatInput) error {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return err
	}
	in.normalise()
	if err := Validate(in); err != nil {
		return err
	}
	u := model.SeatUpdate{Number: in.Number, Location: in.location()}
	if in.Status != "" {
		st := model.SeatStatus(in.Status)
		u.Status = &st
	}
	if err := s.seats.Update(ctx, id, u); err != nil {
		return translate("update seat", err)
	}
	s.log.Info("seat updated", zap.Uint64("seat_id", id))
	return nil
}

// Delete removes a seat; admin only.  Reservations that reference the
// seat are kept.
func (s *InventoryService) Delete(ctx context.Context, p *model.Principal, id uint64) error {
	if err := Authorize(p, CapAdmin).Err(); err != nil {
		return err
	}
	if err := s.seats.Delete(ctx, id); err != nil {
		return translate("delete seat", err)
	}
	s.log.Info("seat deleted", zap.Uint64("seat_id", id))
	return nil
}
