package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Leave Management API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
