package model

import "time"

// SeatStatus is the administrative availability of a seat.  It is
// independent of whether the seat is booked on a particular date.
type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatUnavailable SeatStatus = "unavailable"
)

// Valid reports whether s is one of the known seat statuses.
func (s SeatStatus) Valid() bool {
	return s == SeatAvailable || s == SeatUnavailable
}

// Seat describes a bookable desk.  Number is the human readable label
// shown to members; Location is an optional free-form hint such as a
// floor or a room.
//
// Fields:
//
//	ID        – primary key identifier.
//	Number    – seat label, never empty.
//	Location  – optional location label.
//	Status    – available or unavailable.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Seat struct {
	ID        uint64     `json:"id"`         // seats.id
	Number    string     `json:"seat_number"` // seats.seat_number
	Location  *string    `json:"location"`   // seats.location (nullable)
	Status    SeatStatus `json:"status"`     // seats.status
	CreatedAt time.Time  `json:"created_at"` // seats.created_at
	UpdatedAt time.Time  `json:"updated_at"` // seats.updated_at
}

// SeatUpdate carries the editable seat fields.  A nil Status leaves the
// current status untouched.
type SeatUpdate struct {
	Number   string
	Location *string
	Status   *SeatStatus
}
