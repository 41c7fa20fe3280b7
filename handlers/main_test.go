package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

// เปิด sqlite ชั่วคราวต่อหนึ่งเทสต์ แล้วชี้ database.DB ไปที่มัน
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func makeUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if role == models.RoleStudent {
		u.Class = "CS-A"
	} else {
		u.Department = "Science"
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

// context ที่ผ่าน auth middleware มาแล้ว (user_id/role อยู่ใน context)
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, u models.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", u.ID)
	c.Set("role", u.Role)
	c.Set("name", u.Name)
	return c
}

func seedRequest(t *testing.T, applicantID uint, from, to time.Time) models.LeaveRequest {
	t.Helper()
	row := models.LeaveRequest{
		ApplicantID:   applicantID,
		LeaveType:     "Casual",
		FromDate:      from,
		ToDate:        to,
		Reason:        "family function",
		PriorityLevel: "Normal",
		Status:        models.StatusPending,
	}
	require.NoError(t, database.DB.Create(&row).Error)
	require.NoError(t, database.DB.Create(&models.ApprovalEntry{
		LeaveRequestID: row.ID,
		Action:         models.ActionSubmitted,
		ActorID:        applicantID,
		Date:           time.Now().UTC(),
	}).Error)
	return row
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func dataField(t *testing.T, body map[string]any, key string) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "response has no data object")
	v, ok := data[key].(map[string]any)
	require.True(t, ok, "data has no %q object", key)
	return v
}

func dayString(d time.Time) string { return d.Format("2006-01-02") }
