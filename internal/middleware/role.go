package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "net/url"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// Require returns a middleware that lets a request through only when the
// principal holds capability want.  Anonymous callers are sent to the
// login page with a next parameter pointing back; authenticated callers
// lacking the capability get a notice and are sent home.
func Require(want service.Capability) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            d := service.Authorize(Principal(c), want)
            if d.Allowed {
                return next(c)
            }
            if d.Reason == service.DenyUnauthenticated {
                AddFlash(c, LevelWarning, string(d.Reason))
                return c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request().URL.RequestURI()))
            }
            AddFlash(c, LevelDanger, string(d.Reason))
            return c.Redirect(http.StatusSeeOther, "/")
        }
    }
}
