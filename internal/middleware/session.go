package middleware

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/model"
)

// SessionCookie is the name of the cookie holding the signed session token.
const SessionCookie = "session"

// SessionResolver turns a raw session token into a principal.
type SessionResolver interface {
    Resolve(ctx context.Context, raw string) (*model.Principal, error)
}

// Session resolves the session cookie on every request and stores the
// resulting principal (possibly nil) on the context.  A store failure is
// logged and the request continues anonymously.
func Session(r SessionResolver, log *zap.Logger) echo.MiddlewareFunc {
    if log == nil {
        log = zap.NewNop()
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            var p *model.Principal
            if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
                ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
                p, err = r.Resolve(ctx, ck.Value)
                cancel()
                if err != nil {
                    log.Error("resolve session", zap.Error(err))
                    p = nil
                }
            }
            SetPrincipal(c, p)
            return next(c)
        }
    }
}

// SetSessionCookie writes the session token cookie.
func SetSessionCookie(c echo.Context, token string, exp time.Time, secure bool) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    token,
        Path:     "/",
        Expires:  exp,
        MaxAge:   int(time.Until(exp).Seconds()),
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteLaxMode,
    })
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context, secure bool) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    "",
        Path:     "/",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteLaxMode,
    })
}
