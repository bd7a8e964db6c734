package model

import "time"

// TimeSlot is one of the two fixed halves of a working day.  The slot is
// recorded on a reservation but does not take part in seat uniqueness: a
// seat booked for the morning is unavailable for the whole date.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
)

// Valid reports whether t is one of the known time slots.
func (t TimeSlot) Valid() bool {
	return t == SlotMorning || t == SlotAfternoon
}

// ReservationStatus is the lifecycle state of a reservation.  Cancelled is
// terminal.
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation binds one user to one seat for one date and time slot.
// Date is always a calendar date at midnight UTC (see DateOf).
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user holding the reservation.
//	SeatID    – reserved seat.
//	Date      – reserved calendar date.
//	TimeSlot  – morning or afternoon.
//	Status    – active or cancelled.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64            `json:"id"`         // reservations.id
	UserID    uint64            `json:"user_id"`    // reservations.user_id
	SeatID    uint64            `json:"seat_id"`    // reservations.seat_id
	Date      time.Time         `json:"date"`       // reservations.res_date
	TimeSlot  TimeSlot          `json:"time_slot"`  // reservations.time_slot
	Status    ReservationStatus `json:"status"`     // reservations.status
	CreatedAt time.Time         `json:"created_at"` // reservations.created_at
	UpdatedAt time.Time         `json:"updated_at"` // reservations.updated_at
}

// ReservationView is a reservation joined with its user and seat for
// listing pages.  SeatNumber is nil when the seat has been deleted since
// the reservation was made.
type ReservationView struct {
	ID         uint64            `json:"id"`
	UserID     uint64            `json:"user_id"`
	UserName   string            `json:"user_name"`
	UserEmail  string            `json:"user_email"`
	SeatID     uint64            `json:"seat_id"`
	SeatNumber *string           `json:"seat_number"`
	Location   *string           `json:"location"`
	Date       string            `json:"date"`
	TimeSlot   TimeSlot          `json:"time_slot"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ReservationFilter narrows the admin reservation list.  A nil Date and an
// empty UserName match everything.
type ReservationFilter struct {
	Date     *time.Time
	UserName string
}
