package middlewares

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

const testSecret = "test-secret"

func setupDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func seedUser(t *testing.T, role string, active bool) models.User {
	t.Helper()
	u := models.User{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "hash",
		Role:     role,
		IsActive: active,
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func signToken(t *testing.T, sub uint, role, name string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func runAuth(t *testing.T, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/leave/my-requests", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return c, RequireAuth(testSecret)(next)(c)
}

func requireHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %v", err)
	assert.Equal(t, want, he.Code)
}

func TestRequireAuth(t *testing.T) {
	setupDB(t)
	u := seedUser(t, models.RoleStudent, true)
	tok := signToken(t, u.ID, u.Role, u.Name, time.Hour)

	c, err := runAuth(t, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.Get("user_id"))
	assert.Equal(t, models.RoleStudent, c.Get("role"))
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	setupDB(t)
	_, err := runAuth(t, "")
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_BadScheme(t *testing.T) {
	setupDB(t)
	_, err := runAuth(t, "Basic abc")
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	setupDB(t)
	_, err := runAuth(t, "Bearer not.a.jwt")
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	setupDB(t)
	u := seedUser(t, models.RoleStudent, true)
	tok := signToken(t, u.ID, u.Role, u.Name, -time.Minute)
	_, err := runAuth(t, "Bearer "+tok)
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	setupDB(t)
	tok := signToken(t, 424242, models.RoleStudent, "ghost", time.Hour)
	_, err := runAuth(t, "Bearer "+tok)
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_DeactivatedAccount(t *testing.T) {
	setupDB(t)
	u := seedUser(t, models.RoleStudent, false)
	tok := signToken(t, u.ID, u.Role, u.Name, time.Hour)
	_, err := runAuth(t, "Bearer "+tok)
	requireHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	newCtx := func(role string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/leave/all-requests", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("role", role)
		return c
	}

	// faculty ผ่าน
	err := RequireRole("faculty")(next)(newCtx("faculty"))
	require.NoError(t, err)

	// student โดน 403
	err = RequireRole("faculty")(next)(newCtx("student"))
	requireHTTPStatus(t, err, http.StatusForbidden)

	// ไม่มี role ใน context → 403
	req := httptest.NewRequest(http.MethodGet, "/leave/all-requests", nil)
	err = RequireRole("faculty")(next)(e.NewContext(req, httptest.NewRecorder()))
	requireHTTPStatus(t, err, http.StatusForbidden)
}
