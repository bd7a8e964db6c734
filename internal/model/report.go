package model

// SeatUsage is the number of reservations ever made for a seat.
type SeatUsage struct {
	SeatID     uint64 `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Count      int64  `json:"count"`
}

// Dashboard backs the admin landing page.
type Dashboard struct {
	TotalReservations int64       `json:"total_reservations"`
	TodayReservations int64       `json:"today_reservations"`
	SeatUsage         []SeatUsage `json:"seat_usage"`
}

// Report backs the admin reports page.  MostBooked is nil when no seat has
// ever been reserved.
type Report struct {
	TotalSeats           int64      `json:"total_seats"`
	TotalReservations    int64      `json:"total_reservations"`
	UpcomingReservations int64      `json:"upcoming_reservations"`
	MostBooked           *SeatUsage `json:"most_booked"`
}
