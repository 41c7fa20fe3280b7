package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

/* ====================== Config & Helpers ====================== */

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) signJWT(sub uint, role, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

/* ====================== DTOs ====================== */

type RegisterReq struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"` // "student" | "faculty"
	Class      string `json:"class"`
	Department string `json:"department"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileReq struct {
	Name       string `json:"name"`
	Class      string `json:"class"`
	Department string `json:"department"`
}

/* ====================== Handlers ====================== */

// POST /auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	pass := strings.TrimSpace(req.Password)
	role := strings.TrimSpace(strings.ToLower(req.Role))
	if name == "" || email == "" || pass == "" {
		return fail(c, http.StatusBadRequest, "Name, email and password are required")
	}
	if role != models.RoleStudent && role != models.RoleFaculty {
		return fail(c, http.StatusBadRequest, "Role must be student or faculty")
	}

	// ตรวจซ้ำ email
	var dup models.User
	if err := database.DB.Where("email = ?", email).First(&dup).Error; err == nil {
		return fail(c, http.StatusBadRequest, "User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("hash password failed")
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	// เก็บเฉพาะ attribute ของ role นั้น ๆ
	if role == models.RoleStudent {
		u.Class = strings.TrimSpace(req.Class)
	} else {
		u.Department = strings.TrimSpace(req.Department)
	}
	if err := database.DB.Create(&u).Error; err != nil {
		logrus.WithError(err).Error("create user failed")
		return fail(c, http.StatusBadRequest, "Registration failed")
	}

	// สร้าง leave balance เริ่มต้นให้ user ใหม่
	if err := database.DB.Create(models.NewLeaveBalance(u.ID)).Error; err != nil {
		logrus.WithError(err).WithField("user_id", u.ID).Error("create initial balance failed")
	}

	token, err := h.signJWT(u.ID, u.Role, u.Name, 7*24*time.Hour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Registration failed")
	}

	return ok(c, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  u,
		"token": token,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Please provide email and password")
	}

	var u models.User
	if err := database.DB.Where("email = ?", email).First(&u).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if !u.IsActive {
		return fail(c, http.StatusUnauthorized, "Account is deactivated")
	}

	token, err := h.signJWT(u.ID, u.Role, u.Name, 7*24*time.Hour)
	if err != nil {
		logrus.WithError(err).Error("sign token failed")
		return fail(c, http.StatusInternalServerError, "Login failed")
	}

	return ok(c, http.StatusOK, "Login successful", map[string]any{
		"user":  u,
		"token": token,
	})
}

// GET /auth/profile
func (h *AuthHandler) GetProfile(c echo.Context) error {
	uid, _ := getUserID(c)
	var u models.User
	if err := database.DB.First(&u, uid).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to get user profile")
	}
	return ok(c, http.StatusOK, "", map[string]any{"user": u})
}

// PUT /auth/profile — แก้ได้เฉพาะ name/class/department
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, _ := getUserID(c)

	var req UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}

	updates := map[string]any{}
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Class) != "" {
		updates["class"] = strings.TrimSpace(req.Class)
	}
	if strings.TrimSpace(req.Department) != "" {
		updates["department"] = strings.TrimSpace(req.Department)
	}

	var u models.User
	if err := database.DB.First(&u, uid).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to update profile")
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
			return fail(c, http.StatusBadRequest, "Failed to update profile")
		}
	}
	return ok(c, http.StatusOK, "Profile updated successfully", map[string]any{"user": u})
}
