package handler // handler defines the HTTP handlers; every page answers with JSON

import (
    "errors"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/model"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// AppName is shown on the home page.
const AppName = "Office Seat Reservation"

// requestTimeout bounds the storage work of one request.
const requestTimeout = 5 * time.Second

// Validator adapts the service validation rules to echo's Validator.
type Validator struct{}

func (Validator) Validate(i interface{}) error { return service.Validate(i) }

// principalView is the part of the principal pages expose.
type principalView struct {
    ID      uint64 `json:"id"`
    Name    string `json:"name"`
    IsAdmin bool   `json:"is_admin"`
}

// page renders a JSON page.  Every page carries the caller, the CSRF token
// for its forms and the pending notices.
func page(c echo.Context, data echo.Map) error {
    if data == nil {
        data = echo.Map{}
    }
    var pv *principalView
    if p := middleware.Principal(c); p != nil {
        pv = &principalView{ID: p.UserID, Name: p.Name, IsAdmin: p.IsAdmin()}
    }
    data["user"] = pv
    if tok, ok := c.Get("csrf").(string); ok {
        data["csrf"] = tok
    }
    data["notices"] = middleware.DrainFlash(c)
    return c.JSON(http.StatusOK, data)
}

// redirect answers a form post.
func redirect(c echo.Context, to string) error {
    return c.Redirect(http.StatusSeeOther, to)
}

// flashError turns err into a danger notice.  Unexpected failures are
// logged and shown generically.
func flashError(c echo.Context, log *zap.Logger, err error) {
    middleware.AddFlash(c, middleware.LevelDanger, userMessage(c, log, err))
}

func userMessage(c echo.Context, log *zap.Logger, err error) string {
    var se *service.StorageError
    if errors.As(err, &se) || !isDomainError(err) {
        log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
        return "Something went wrong, please try again."
    }
    msg := err.Error()
    return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func isDomainError(err error) bool {
    var ve *service.ValidationError
    if errors.As(err, &ve) {
        return true
    }
    for _, d := range []error{
        service.ErrNotFound, service.ErrNotAuthorized, service.ErrPastDate,
        service.ErrDuplicateUserBooking, service.ErrSeatAlreadyBooked, service.ErrDuplicateEmail,
        service.ErrInvalidCredentials, service.ErrSeatUnavailable, service.ErrReservationCancelled,
    } {
        if errors.Is(err, d) {
            return true
        }
    }
    return false
}

// pageError answers a GET page whose data could not be loaded.
func pageError(c echo.Context, log *zap.Logger, err error) error {
    switch {
    case errors.Is(err, service.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
    case errors.Is(err, service.ErrNotAuthorized):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    log.Error("page failed", zap.String("path", c.Path()), zap.Error(err))
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseID reads a positive integer from a path parameter or form value.
func parseID(s string) (uint64, bool) {
    n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
    return n, err == nil && n > 0
}

// dateOrToday parses raw as a date.  A blank value yields today; an
// invalid one yields today plus a warning notice.
func dateOrToday(c echo.Context, raw string, today time.Time) time.Time {
    if strings.TrimSpace(raw) == "" {
        return today
    }
    d, err := model.ParseDate(raw)
    if err != nil {
        middleware.AddFlash(c, middleware.LevelWarning, "Invalid date, showing today instead.")
        return today
    }
    return d
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
    if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
        return "/"
    }
    u, err := url.Parse(next)
    if err != nil || u.Scheme != "" || u.Host != "" {
        return "/"
    }
    return next
}

var timeSlots = []model.TimeSlot{model.SlotMorning, model.SlotAfternoon}
