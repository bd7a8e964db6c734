// Package queue defines the reservation events exchanged over the message
// broker together with their publisher and the audit-log consumer.
package queue

import "time"

// EventType names what happened to a reservation.
type EventType string

const (
    EventCreated   EventType = "created"
    EventCancelled EventType = "cancelled"
    EventModified  EventType = "modified"
    EventAssigned  EventType = "assigned"
)

// ReservationEvent is published after a reservation change commits.  It
// carries enough information for the audit log without a database
// lookup.  ActorID differs from UserID when an admin acted for a member.
type ReservationEvent struct {
    Type          EventType `json:"type"`
    ReservationID uint64    `json:"reservation_id"`
    UserID        uint64    `json:"user_id"`
    ActorID       uint64    `json:"actor_id"`
    SeatID        uint64    `json:"seat_id"`
    Date          string    `json:"date"`
    TimeSlot      string    `json:"time_slot"`
    OccurredAt    time.Time `json:"occurred_at"`
}
