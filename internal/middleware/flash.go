package middleware

import (
    "encoding/base64"
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"
)

// FlashCookie carries notices across a redirect.
const FlashCookie = "flash"

const pendingKey = "flash.pending"

// Notice levels.
const (
    LevelSuccess = "success"
    LevelInfo    = "info"
    LevelWarning = "warning"
    LevelDanger  = "danger"
)

// Notice is a one-shot message shown on the next page.
type Notice struct {
    Level   string `json:"level"`
    Message string `json:"message"`
}

// AddFlash queues a notice for the next page the client loads.  Notices
// already waiting in the request cookie are kept.
func AddFlash(c echo.Context, level, message string) {
    pending, ok := c.Get(pendingKey).([]Notice)
    if !ok {
        pending = readFlash(c)
    }
    pending = append(pending, Notice{Level: level, Message: message})
    c.Set(pendingKey, pending)

    raw, err := json.Marshal(pending)
    if err != nil {
        return
    }
    c.SetCookie(&http.Cookie{
        Name:     FlashCookie,
        Value:    base64.RawURLEncoding.EncodeToString(raw),
        Path:     "/",
        HttpOnly: true,
        SameSite: http.SameSiteLaxMode,
    })
}

// DrainFlash returns every queued notice, those from the cookie followed
// by any added during this request, and clears the cookie.
func DrainFlash(c echo.Context) []Notice {
    notices, ok := c.Get(pendingKey).([]Notice)
    if !ok {
        notices = readFlash(c)
    }
    c.Set(pendingKey, []Notice{})
    if _, err := c.Cookie(FlashCookie); err == nil || len(notices) > 0 {
        c.SetCookie(&http.Cookie{Name: FlashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
    }
    if notices == nil {
        notices = []Notice{}
    }
    return notices
}

// HasFlash reports whether the request arrived with queued notices.
func HasFlash(c echo.Context) bool {
    ck, err := c.Cookie(FlashCookie)
    return err == nil && ck.Value != ""
}

func readFlash(c echo.Context) []Notice {
    ck, err := c.Cookie(FlashCookie)
    if err != nil || ck.Value == "" {
        return nil
    }
    raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
    if err != nil {
        return nil
    }
    var notices []Notice
    if err := json.Unmarshal(raw, &notices); err != nil {
        return nil
    }
    return notices
}
