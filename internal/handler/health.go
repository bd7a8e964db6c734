package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health answers liveness probes.  It touches no storage.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
