package router // package router defines how HTTP routes are registered for the site

import (
    "net/http"

    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/handler"
    "github.com/iliyamo/office-seat-reservation/internal/middleware"
)

// Deps carries everything the route table needs.  Limiter and Cache may be
// pass-through middleware when Redis is unavailable.
type Deps struct {
    Sessions      middleware.SessionResolver
    Auth          *handler.AuthHandler
    Booking       *handler.BookingHandler
    Admin         *handler.AdminHandler
    Limiter       echo.MiddlewareFunc
    Cache         echo.MiddlewareFunc
    SecureCookies bool
    Log           *zap.Logger
}

// Register installs the session and CSRF middleware and every route.
func Register(e *echo.Echo, d Deps) {
    e.Use(middleware.Session(d.Sessions, d.Log))
    e.Use(echomw.CSRFWithConfig(csrfConfig(d.SecureCookies)))

    RegisterRoutes(e, d.Booking)
    RegisterAuth(e, d.Auth, passThrough(d.Limiter))
    RegisterMember(e, d.Booking)
    RegisterAdmin(e, d.Admin, passThrough(d.Cache))
}

// RegisterRoutes registers the pages that need no session.
func RegisterRoutes(e *echo.Echo, b *handler.BookingHandler) {
    e.GET("/healthz", handler.Health)
    e.GET("/", b.Home)
}

// RegisterAuth registers the account pages.  The form posts go through the
// limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
    e.GET("/register", a.RegisterPage)
    e.POST("/register", a.Register, limiter)
    e.GET("/login", a.LoginPage)
    e.POST("/login", a.Login, limiter)
    e.GET("/logout", a.Logout)
}

// csrfConfig reads the token from the "csrf" form field or the
// X-CSRF-Token header.  Pages expose the token under the "csrf" key.
func csrfConfig(secure bool) echomw.CSRFConfig {
    return echomw.CSRFConfig{
        Skipper:        func(c echo.Context) bool { return c.Path() == "/healthz" },
        TokenLookup:    "form:csrf,header:X-CSRF-Token",
        ContextKey:     "csrf",
        CookieName:     "_csrf",
        CookiePath:     "/",
        CookieHTTPOnly: true,
        CookieSecure:   secure,
        CookieSameSite: http.SameSiteLaxMode,
    }
}

func passThrough(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
    if mw == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return mw
}
