package handler

import (
    "context"
    "fmt"
    "net/url"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/model"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// BookingHandler serves the member pages: browse, reserve, list, cancel
// and modify.  Routes are guarded by middleware.Require; the services
// check ownership again.
type BookingHandler struct {
    Reservations *service.ReservationService
    Inventory    *service.InventoryService
    Log          *zap.Logger
}

func NewBookingHandler(res *service.ReservationService, inv *service.InventoryService, log *zap.Logger) *BookingHandler {
    if res == nil || inv == nil {
        panic("nil service passed to NewBookingHandler")
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &BookingHandler{Reservations: res, Inventory: inv, Log: log}
}

type bookingForm struct {
    Date     string `form:"date" validate:"required"`
    TimeSlot string `form:"time_slot"`
    SeatID   string `form:"seat_id"`
}

type cancelForm struct {
    Action string `form:"action"`
    ResID  string `form:"res_id"`
}

// Home: GET /.  The landing page lists the seats in service, whatever
// their bookings; it needs no session.
func (h *BookingHandler) Home(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    seats, err := h.Inventory.ListAvailable(ctx)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{"app": AppName, "seats": seats})
}

// Seats: GET /seats?date=.
func (h *BookingHandler) Seats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    today := h.Reservations.Today()
    date := dateOrToday(c, c.QueryParam("date"), today)
    seats, err := h.Reservations.AvailableSeats(ctx, date)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{
        "date":  model.FormatDate(date),
        "today": model.FormatDate(today),
        "seats": seats,
    })
}

// ReservePage: GET /reserve/:seatId.
func (h *BookingHandler) ReservePage(c echo.Context) error {
    id, ok := parseID(c.Param("seatId"))
    if !ok {
        return pageError(c, h.Log, service.ErrNotFound)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    seat, err := h.Inventory.Get(ctx, id)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    date := dateOrToday(c, c.QueryParam("date"), h.Reservations.Today())
    return page(c, echo.Map{
        "seat":       seat,
        "date":       model.FormatDate(date),
        "time_slots": timeSlots,
    })
}

// Reserve: POST /reserve/:seatId.
func (h *BookingHandler) Reserve(c echo.Context) error {
    id, ok := parseID(c.Param("seatId"))
    if !ok {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown seat.")
        return redirect(c, "/seats")
    }
    back := fmt.Sprintf("/reserve/%d", id)
    var f bookingForm
    if err := c.Bind(&f); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, back)
    }
    if err := c.Validate(&f); err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    date, err := model.ParseDate(f.Date)
    if err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid date.")
        return redirect(c, back)
    }
    back += "?date=" + url.QueryEscape(model.FormatDate(date))

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    res, err := h.Reservations.Create(ctx, middleware.Principal(c), id, date, model.TimeSlot(f.TimeSlot))
    if err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    middleware.AddFlash(c, middleware.LevelSuccess,
        fmt.Sprintf("Seat reserved for %s (%s).", model.FormatDate(res.Date), res.TimeSlot))
    return redirect(c, "/my_reservations")
}

// MyReservations: GET /my_reservations.
func (h *BookingHandler) MyReservations(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    views, err := h.Reservations.ListForUser(ctx, middleware.Principal(c))
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{
        "reservations": views,
        "today":        model.FormatDate(h.Reservations.Today()),
    })
}

// MyReservationsAction: POST /my_reservations with action=cancel.
func (h *BookingHandler) MyReservationsAction(c echo.Context) error {
    var f cancelForm
    if err := c.Bind(&f); err != nil || f.Action != "cancel" {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown action.")
        return redirect(c, "/my_reservations")
    }
    h.cancel(c, f.ResID)
    return redirect(c, "/my_reservations")
}

// Cancel: GET /cancel/:resId.
func (h *BookingHandler) Cancel(c echo.Context) error {
    h.cancel(c, c.Param("resId"))
    return redirect(c, "/my_reservations")
}

func (h *BookingHandler) cancel(c echo.Context, rawID string) {
    id, ok := parseID(rawID)
    if !ok {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown reservation.")
        return
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    if _, err := h.Reservations.Cancel(ctx, middleware.Principal(c), id); err != nil {
        flashError(c, h.Log, err)
        return
    }
    middleware.AddFlash(c, middleware.LevelSuccess, "Reservation cancelled.")
}

// ModifyPage: GET /modify/:resId.  It lists the seats free on the
// reservation's date plus its current seat.
func (h *BookingHandler) ModifyPage(c echo.Context) error {
    id, ok := parseID(c.Param("resId"))
    if !ok {
        return pageError(c, h.Log, service.ErrNotFound)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    p := middleware.Principal(c)
    res, err := h.Reservations.Get(ctx, p, id)
    if err != nil {
        flashError(c, h.Log, err)
        return redirect(c, "/my_reservations")
    }
    seats, err := h.Reservations.AvailableSeats(ctx, res.Date)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    if current, err := h.Inventory.Get(ctx, res.SeatID); err == nil && !containsSeat(seats, current.ID) {
        seats = append([]model.Seat{*current}, seats...)
    }
    return page(c, echo.Map{
        "reservation": res,
        "seats":       seats,
        "time_slots":  timeSlots,
    })
}

// Modify: POST /modify/:resId.
func (h *BookingHandler) Modify(c echo.Context) error {
    id, ok := parseID(c.Param("resId"))
    if !ok {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown reservation.")
        return redirect(c, "/my_reservations")
    }
    back := fmt.Sprintf("/modify/%d", id)
    var f bookingForm
    if err := c.Bind(&f); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, back)
    }
    if err := c.Validate(&f); err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    seatID, ok := parseID(f.SeatID)
    if !ok {
        middleware.AddFlash(c, middleware.LevelDanger, "Please choose a seat.")
        return redirect(c, back)
    }
    date, err := model.ParseDate(f.Date)
    if err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid date.")
        return redirect(c, back)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    if _, err := h.Reservations.Modify(ctx, middleware.Principal(c), id, seatID, date, model.TimeSlot(f.TimeSlot)); err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    middleware.AddFlash(c, middleware.LevelSuccess, "Reservation updated.")
    return redirect(c, "/my_reservations")
}

func containsSeat(seats []model.Seat, id uint64) bool {
    for _, s := range seats {
        if s.ID == id {
            return true
        }
    }
    return false
}
