package handler

import (
    "context"
    "fmt"
    "net/http"
    "net/url"
    "strings"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/model"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// AdminHandler serves the administrator pages.
type AdminHandler struct {
    Reservations *service.ReservationService
    Inventory    *service.InventoryService
    Reports      *service.ReportService
    Auth         *service.AuthService
    Log          *zap.Logger
}

func NewAdminHandler(res *service.ReservationService, inv *service.InventoryService, rep *service.ReportService,
    auth *service.AuthService, log *zap.Logger) *AdminHandler {
    if res == nil || inv == nil || rep == nil || auth == nil {
        panic("nil service passed to NewAdminHandler")
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &AdminHandler{Reservations: res, Inventory: inv, Reports: rep, Auth: auth, Log: log}
}

type seatForm struct {
    Action   string `form:"action"`
    SeatID   string `form:"seat_id"`
    Number   string `form:"seat_number"`
    Location string `form:"location"`
    Status   string `form:"status"`
}

func (f seatForm) input() service.SeatInput {
    return service.SeatInput{Number: f.Number, Location: f.Location, Status: f.Status}
}

type assignForm struct {
    UserID   string `form:"user_id"`
    SeatID   string `form:"seat_id"`
    Date     string `form:"date"`
    TimeSlot string `form:"time_slot"`
}

// Dashboard: GET /admin.
func (h *AdminHandler) Dashboard(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    d, err := h.Reports.Dashboard(ctx, middleware.Principal(c))
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{"dashboard": d, "today": model.FormatDate(h.Reservations.Today())})
}

// SeatsPage: GET /admin/seats.
func (h *AdminHandler) SeatsPage(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    seats, err := h.Inventory.ListAll(ctx)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{"seats": seats})
}

// SeatsAction: POST /admin/seats with action add, edit or delete.
func (h *AdminHandler) SeatsAction(c echo.Context) error {
    var f seatForm
    if err := c.Bind(&f); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, "/admin/seats")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    p := middleware.Principal(c)

    var (
        err error
        msg string
    )
    switch f.Action {
    case "add":
        var s *model.Seat
        if s, err = h.Inventory.Create(ctx, p, f.input()); err == nil {
            msg = fmt.Sprintf("Seat %s added.", s.Number)
        }
    case "edit":
        id, ok := parseID(f.SeatID)
        if !ok {
            err = service.ErrNotFound
            break
        }
        if err = h.Inventory.Update(ctx, p, id, f.input()); err == nil {
            msg = "Seat updated."
        }
    case "delete":
        id, ok := parseID(f.SeatID)
        if !ok {
            err = service.ErrNotFound
            break
        }
        if err = h.Inventory.Delete(ctx, p, id); err == nil {
            msg = "Seat deleted."
        }
    default:
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown action.")
        return redirect(c, "/admin/seats")
    }
    if err != nil {
        flashError(c, h.Log, err)
    } else {
        middleware.AddFlash(c, middleware.LevelSuccess, msg)
    }
    return redirect(c, "/admin/seats")
}

// ReservationsPage: GET /admin/reservations?date=&user=.
func (h *AdminHandler) ReservationsPage(c echo.Context) error {
    var f model.ReservationFilter
    rawDate := strings.TrimSpace(c.QueryParam("date"))
    if rawDate != "" {
        if d, err := model.ParseDate(rawDate); err == nil {
            f.Date = &d
        } else {
            middleware.AddFlash(c, middleware.LevelWarning, "Invalid date filter ignored.")
            rawDate = ""
        }
    }
    f.UserName = c.QueryParam("user")

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    views, err := h.Reports.ListReservations(ctx, middleware.Principal(c), f)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return page(c, echo.Map{
        "reservations": views,
        "filter":       echo.Map{"date": rawDate, "user": strings.TrimSpace(f.UserName)},
    })
}

// ReservationsAction: POST /admin/reservations with action=cancel.
func (h *AdminHandler) ReservationsAction(c echo.Context) error {
    var f cancelForm
    if err := c.Bind(&f); err != nil || f.Action != "cancel" {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown action.")
        return redirect(c, "/admin/reservations")
    }
    id, ok := parseID(f.ResID)
    if !ok {
        middleware.AddFlash(c, middleware.LevelDanger, "Unknown reservation.")
        return redirect(c, "/admin/reservations")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    if _, err := h.Reservations.Cancel(ctx, middleware.Principal(c), id); err != nil {
        flashError(c, h.Log, err)
    } else {
        middleware.AddFlash(c, middleware.LevelSuccess, "Reservation cancelled.")
    }
    return redirect(c, "/admin/reservations")
}

// AssignPage: GET /admin/assign?date=.
func (h *AdminHandler) AssignPage(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    p := middleware.Principal(c)
    date := dateOrToday(c, c.QueryParam("date"), h.Reservations.Today())
    users, err := h.Auth.ListUsers(ctx, p)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    seats, err := h.Inventory.ListAll(ctx)
    if err != nil {
        return pageError(c, h.Log, err)
    }
    people := make([]echo.Map, 0, len(users))
    for _, u := range users {
        people = append(people, echo.Map{"id": u.ID, "name": u.Name, "email": u.Email})
    }
    return page(c, echo.Map{
        "users":      people,
        "seats":      seats,
        "date":       model.FormatDate(date),
        "time_slots": timeSlots,
    })
}

// Assign: POST /admin/assign.
func (h *AdminHandler) Assign(c echo.Context) error {
    var f assignForm
    if err := c.Bind(&f); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, "/admin/assign")
    }
    back := "/admin/assign"
    if f.Date != "" {
        back += "?date=" + url.QueryEscape(f.Date)
    }
    userID, okUser := parseID(f.UserID)
    seatID, okSeat := parseID(f.SeatID)
    if !okUser || !okSeat {
        middleware.AddFlash(c, middleware.LevelDanger, "Please choose a user and a seat.")
        return redirect(c, back)
    }
    date, err := model.ParseDate(f.Date)
    if err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid date.")
        return redirect(c, "/admin/assign")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    res, err := h.Reservations.Assign(ctx, middleware.Principal(c), userID, seatID, date, model.TimeSlot(f.TimeSlot))
    if err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    middleware.AddFlash(c, middleware.LevelSuccess,
        fmt.Sprintf("Seat assigned for %s (%s).", model.FormatDate(res.Date), res.TimeSlot))
    return redirect(c, "/admin/reservations")
}

// ReportsPage: GET /admin/reports.  The response is cached, so it carries
// neither a CSRF token nor notices.
func (h *AdminHandler) ReportsPage(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    r, err := h.Reports.Report(ctx, middleware.Principal(c))
    if err != nil {
        return pageError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"report": r})
}
