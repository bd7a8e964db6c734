package middleware

// identity.go holds the helpers that carry the request principal through
// the echo context.  The principal is resolved once by Session and read
// by guards, handlers and the rate limiter.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/office-seat-reservation/internal/model"
)

const principalKey = "principal"

// SetPrincipal stores p on the context.
func SetPrincipal(c echo.Context, p *model.Principal) { c.Set(principalKey, p) }

// Principal returns the authenticated caller or nil for anonymous
// requests.
func Principal(c echo.Context) *model.Principal {
    p, _ := c.Get(principalKey).(*model.Principal)
    return p
}

// userID returns the caller's id as a string, or "guest" when nobody is
// logged in.
func userID(c echo.Context) string {
    if p := Principal(c); p != nil {
        return strconv.FormatUint(p.UserID, 10)
    }
    return "guest"
}
