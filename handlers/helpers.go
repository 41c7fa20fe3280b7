package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ทุก response ใช้ envelope {success, message, data} แบบเดียวกัน
func ok(c echo.Context, status int, message string, data map[string]any) error {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"message": message,
	})
}

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// helper สำหรับอ่าน identity จาก JWT middleware
func getUserID(c echo.Context) (uint, bool) {
	switch v := c.Get("user_id").(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	default:
		return 0, false
	}
}

func getRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}
