package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/office-seat-reservation/internal/handler"
    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// RegisterAdmin registers the administrator pages under /admin.  The
// reports page is served through cache.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, cache echo.MiddlewareFunc) {
    g := e.Group("/admin", middleware.Require(service.CapAdmin))

    g.GET("", h.Dashboard)

    // ---- Seats ----
    g.GET("/seats", h.SeatsPage)
    g.POST("/seats", h.SeatsAction)

    // ---- Reservations ----
    g.GET("/reservations", h.ReservationsPage)
    g.POST("/reservations", h.ReservationsAction)
    g.GET("/assign", h.AssignPage)
    g.POST("/assign", h.Assign)

    g.GET("/reports", h.ReportsPage, cache)
}

// CacheSkipper bypasses the report cache for anyone but an administrator
// and for requests still carrying notices.
func CacheSkipper(c echo.Context) bool {
    return !middleware.Principal(c).IsAdmin() || middleware.HasFlash(c)
}
