package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

// Claims ที่เราคาดหวัง (ตามที่เซ็นใน auth_handler.go)
type Claims struct {
	Sub  uint   `json:"sub"`
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": msg,
	})
}

// ดึง token จาก Authorization header
func extractBearer(c echo.Context) (string, error) {
	h := c.Request().Header.Get("Authorization")
	if h == "" {
		return "", unauthorized("Authentication token is required")
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", unauthorized("Invalid authorization header")
	}
	return parts[1], nil
}

// ตรวจ JWT (HS256), โหลด user จาก DB แล้วแนบ identity ไว้ใน context
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok, err := extractBearer(c)
			if err != nil {
				return err
			}
			token, err := jwt.ParseWithClaims(tok, &Claims{}, func(t *jwt.Token) (any, error) {
				// ป้องกัน alg โดนสลับ
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, unauthorized("Invalid token")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return unauthorized("Invalid token")
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return unauthorized("Invalid token")
			}
			// ตรวจ expiry (กัน lib ถูก config ปิด)
			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				return unauthorized("Token expired")
			}

			// โหลดผู้ใช้จริงจาก DB — role ใช้ค่าล่าสุด และกันบัญชีที่ถูกปิด
			var u models.User
			if err := database.DB.First(&u, claims.Sub).Error; err != nil {
				return unauthorized("Invalid token")
			}
			if !u.IsActive {
				return unauthorized("Account is deactivated")
			}

			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			c.Set("name", u.Name)
			return next(c)
		}
	}
}

// จำกัดบทบาทที่อนุญาต เช่น RequireRole("faculty")
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleAny := c.Get("role")
			role, _ := roleAny.(string)
			if _, ok := allowed[strings.ToLower(role)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{
					"success": false,
					"message": "Access denied",
				})
			}
			return next(c)
		}
	}
}
