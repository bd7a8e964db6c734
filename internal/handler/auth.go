package handler

import (
    "context"
    "fmt"
    "net/url"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

// AuthHandler bundles dependencies for the account pages.
type AuthHandler struct {
    Auth          *service.AuthService
    Sessions      *service.SessionService
    Log           *zap.Logger
    SecureCookies bool
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, log *zap.Logger, secure bool) *AuthHandler {
    if auth == nil || sessions == nil {
        panic("nil service passed to NewAuthHandler")
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &AuthHandler{Auth: auth, Sessions: sessions, Log: log, SecureCookies: secure}
}

type loginForm struct {
    Email    string `form:"email" validate:"required"`
    Password string `form:"password" validate:"required"`
    Next     string `form:"next"`
}

// RegisterPage: GET /register.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
    return page(c, nil)
}

// Register: POST /register.  Success sends the user to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
    var in service.RegisterInput
    if err := c.Bind(&in); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, "/register")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    if _, err := h.Auth.Register(ctx, in); err != nil {
        flashError(c, h.Log, err)
        return redirect(c, "/register")
    }
    middleware.AddFlash(c, middleware.LevelSuccess, "Registration successful. Please log in.")
    return redirect(c, "/login")
}

// LoginPage: GET /login.
func (h *AuthHandler) LoginPage(c echo.Context) error {
    return page(c, echo.Map{"next": safeNext(c.QueryParam("next"))})
}

// Login: POST /login.  On success the session cookie is set and the user
// is sent to the next parameter when it is a local path.
func (h *AuthHandler) Login(c echo.Context) error {
    var f loginForm
    if err := c.Bind(&f); err != nil {
        middleware.AddFlash(c, middleware.LevelDanger, "Invalid form submission.")
        return redirect(c, "/login")
    }
    next := safeNext(f.Next)
    back := "/login?next=" + url.QueryEscape(next)
    if err := c.Validate(&f); err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()

    u, err := h.Auth.Authenticate(ctx, f.Email, f.Password)
    if err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    tok, err := h.Sessions.Start(ctx, u)
    if err != nil {
        flashError(c, h.Log, err)
        return redirect(c, back)
    }
    middleware.SetSessionCookie(c, tok.Token, tok.Exp, h.SecureCookies)
    middleware.AddFlash(c, middleware.LevelSuccess, fmt.Sprintf("Welcome back, %s!", u.Name))
    return redirect(c, next)
}

// Logout: GET /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
    if ck, err := c.Cookie(middleware.SessionCookie); err == nil && ck.Value != "" {
        ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
        defer cancel()
        if err := h.Sessions.End(ctx, ck.Value); err != nil {
            h.Log.Error("end session", zap.Error(err))
        }
    }
    middleware.ClearSessionCookie(c, h.SecureCookies)
    middleware.AddFlash(c, middleware.LevelInfo, "You have been logged out.")
    return redirect(c, "/")
}
