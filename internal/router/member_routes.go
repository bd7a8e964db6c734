package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/office-seat-reservation/internal/handler"
    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// RegisterMember registers the booking pages.  Every route requires a
// signed-in user; anonymous visitors are sent to the login page.  The
// middleware is attached per route because these pages share the root
// prefix with the public ones.
func RegisterMember(e *echo.Echo, h *handler.BookingHandler) {
    auth := middleware.Require(service.CapAuthenticated)

    e.GET("/seats", h.Seats, auth)
    e.GET("/reserve/:seatId", h.ReservePage, auth)
    e.POST("/reserve/:seatId", h.Reserve, auth)

    e.GET("/my_reservations", h.MyReservations, auth)
    e.POST("/my_reservations", h.MyReservationsAction, auth)
    // Kept as a plain link target; it is not covered by the CSRF token.
    e.GET("/cancel/:resId", h.Cancel, auth)

    e.GET("/modify/:resId", h.ModifyPage, auth)
    e.POST("/modify/:resId", h.Modify, auth)
}
