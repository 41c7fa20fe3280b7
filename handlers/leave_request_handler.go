package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

type LeaveRequestHandler struct{}

func NewLeaveRequestHandler() *LeaveRequestHandler { return &LeaveRequestHandler{} }

type createLeaveReq struct {
	LeaveType     string `json:"leaveType"`
	FromDate      string `json:"fromDate"` // YYYY-MM-DD
	ToDate        string `json:"toDate"`   // YYYY-MM-DD
	Reason        string `json:"reason"`
	PriorityLevel string `json:"priorityLevel"`
}

type reviewReq struct {
	Status        string `json:"status"` // "Approved" | "Rejected"
	ReviewComment string `json:"reviewComment"`
}

// รับ YYYY-MM-DD (หรือ RFC3339) แล้วตัดเวลาออกให้เหลือแต่วัน
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// preload มาตรฐานของใบลา (applicant + ผู้ตรวจ)
func withPeople(db *gorm.DB) *gorm.DB {
	return db.Preload("Applicant").Preload("ReviewedBy")
}

// POST /leave
func (h *LeaveRequestHandler) Create(c echo.Context) error {
	uid, _ := getUserID(c)

	var req createLeaveReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	reason := strings.TrimSpace(req.Reason)
	if leaveType == "" {
		return fail(c, http.StatusBadRequest, "Leave type is required")
	}
	if !models.ValidLeaveType(leaveType) {
		return fail(c, http.StatusBadRequest, "Invalid leave type")
	}
	if reason == "" {
		return fail(c, http.StatusBadRequest, "Reason is required")
	}
	if len(reason) > 500 {
		return fail(c, http.StatusBadRequest, "Reason cannot exceed 500 characters")
	}

	from, okFrom := parseDay(req.FromDate)
	to, okTo := parseDay(req.ToDate)
	if !okFrom || !okTo {
		return fail(c, http.StatusBadRequest, "From date and to date are required (YYYY-MM-DD)")
	}
	if from.Before(today()) {
		return fail(c, http.StatusBadRequest, "Leave cannot be applied for past dates")
	}
	if to.Before(from) {
		return fail(c, http.StatusBadRequest, "To date must be after from date")
	}

	priority := strings.TrimSpace(req.PriorityLevel)
	if priority == "" {
		priority = "Normal"
	}
	if !models.ValidPriority(priority) {
		return fail(c, http.StatusBadRequest, "Invalid priority level")
	}

	row := models.LeaveRequest{
		ApplicantID:   uid,
		LeaveType:     leaveType,
		FromDate:      from,
		ToDate:        to,
		Reason:        reason,
		PriorityLevel: priority,
		Status:        models.StatusPending,
	}

	// สร้างใบลาพร้อม history รายการแรก (Submitted) ใน transaction เดียว
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&models.ApprovalEntry{
			LeaveRequestID: row.ID,
			Action:         models.ActionSubmitted,
			ActorID:        uid,
			Date:           time.Now().UTC(),
		}).Error
	})
	if err != nil {
		logrus.WithError(err).Error("create leave request failed")
		return fail(c, http.StatusBadRequest, "Failed to create leave request")
	}

	var out models.LeaveRequest
	if err := withPeople(database.DB).Preload("ApprovalHistory").First(&out, row.ID).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to create leave request")
	}

	return ok(c, http.StatusCreated, "Leave request submitted successfully", map[string]any{
		"leaveRequest": out,
	})
}

// GET /leave/my-requests?status=&page=&limit=
func (h *LeaveRequestHandler) MyRequests(c echo.Context) error {
	uid, _ := getUserID(c)
	return h.list(c, database.DB.Where("applicant_id = ?", uid))
}

// GET /leave/all-requests?status=&page=&limit=&search=  (faculty เท่านั้น — route guard)
func (h *LeaveRequestHandler) AllRequests(c echo.Context) error {
	tx := database.DB

	// search: หา applicant ที่ name/email/class ตรงก่อน แล้วค่อยกรองใบลา
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		pat := "%" + strings.ToLower(q) + "%"
		var ids []uint
		if err := database.DB.Model(&models.User{}).
			Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(class) LIKE ?", pat, pat, pat).
			Pluck("id", &ids).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave requests")
		}
		tx = tx.Where("applicant_id IN ?", ids)
	}

	return h.list(c, tx)
}

func (h *LeaveRequestHandler) list(c echo.Context, tx *gorm.DB) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && status != "All" {
		tx = tx.Where("status = ?", status)
	}

	page := atoiOr(c.QueryParam("page"), 1)
	limit := atoiOr(c.QueryParam("limit"), 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Model(&models.LeaveRequest{}).Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch leave requests")
	}

	var rows []models.LeaveRequest
	offset := (page - 1) * limit
	if err := withPeople(tx.Session(&gorm.Session{})).Model(&models.LeaveRequest{}).
		Order("created_at DESC, id DESC").Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch leave requests")
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	return ok(c, http.StatusOK, "", map[string]any{
		"leaveRequests": rows,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GET /leave/:id
func (h *LeaveRequestHandler) Details(c echo.Context) error {
	uid, _ := getUserID(c)

	// id ที่ไม่ใช่ตัวเลขถือว่าไม่พบ (ตรงกับ contract 404)
	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusNotFound, "Leave request not found")
	}

	var row models.LeaveRequest
	err := withPeople(database.DB).
		Preload("Attachments").
		Preload("ApprovalHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("ApprovalHistory.Actor").
		First(&row, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Leave request not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to fetch leave request details")
	}

	// student ดูได้เฉพาะใบลาของตัวเอง
	if getRole(c) == models.RoleStudent && row.ApplicantID != uid {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	return ok(c, http.StatusOK, "", map[string]any{"leaveRequest": row})
}

// PUT /leave/:id/status  (faculty เท่านั้น — route guard)
func (h *LeaveRequestHandler) UpdateStatus(c echo.Context) error {
	uid, _ := getUserID(c)

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request payload")
	}
	status := strings.TrimSpace(req.Status)
	if status != models.StatusApproved && status != models.StatusRejected {
		return fail(c, http.StatusBadRequest, "Invalid status. Must be Approved or Rejected")
	}
	comment := strings.TrimSpace(req.ReviewComment)
	if len(comment) > 500 {
		return fail(c, http.StatusBadRequest, "Review comment cannot exceed 500 characters")
	}

	id := atoiOr(c.Param("id"), 0)
	if id <= 0 {
		return fail(c, http.StatusNotFound, "Leave request not found")
	}

	var row models.LeaveRequest
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Leave request not found")
		}
		return fail(c, http.StatusInternalServerError, "Failed to update leave request status")
	}
	if row.Status != models.StatusPending {
		return fail(c, http.StatusBadRequest, "Leave request has already been reviewed")
	}

	now := time.Now().UTC()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// conditional update: สำเร็จเฉพาะตอนที่สถานะยังเป็น Pending อยู่
		// (กันกรณี reviewer สองคนกดพร้อมกัน — คนที่แพ้จะได้ conflict)
		res := tx.Model(&models.LeaveRequest{}).
			Where("id = ? AND status = ?", row.ID, models.StatusPending).
			Updates(map[string]any{
				"status":         status,
				"reviewed_by_id": uid,
				"review_date":    &now,
				"review_comment": comment,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound // ถูกตัดสินไปแล้วระหว่างทาง
		}
		return tx.Create(&models.ApprovalEntry{
			LeaveRequestID: row.ID,
			Action:         status,
			ActorID:        uid,
			Comment:        comment,
			Date:           now,
		}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusBadRequest, "Leave request has already been reviewed")
		}
		logrus.WithError(err).Error("update leave request status failed")
		return fail(c, http.StatusInternalServerError, "Failed to update leave request status")
	}

	var out models.LeaveRequest
	if err := withPeople(database.DB).
		Preload("ApprovalHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&out, row.ID).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to update leave request status")
	}

	return ok(c, http.StatusOK, "Leave request "+strings.ToLower(status)+" successfully", map[string]any{
		"leaveRequest": out,
	})
}

// GET /leave/statistics
func (h *LeaveRequestHandler) Statistics(c echo.Context) error {
	uid, _ := getUserID(c)

	if getRole(c) == models.RoleFaculty {
		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		nextMonth := monthStart.AddDate(0, 1, 0)
		weekAgo := now.AddDate(0, 0, -7)

		var totalThisMonth, pending, approvedWeek, rejectedMonth int64
		db := database.DB.Model(&models.LeaveRequest{})

		if err := db.Session(&gorm.Session{}).
			Where("created_at >= ? AND created_at < ?", monthStart, nextMonth).
			Count(&totalThisMonth).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
		}
		if err := db.Session(&gorm.Session{}).
			Where("status = ?", models.StatusPending).
			Count(&pending).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
		}
		if err := db.Session(&gorm.Session{}).
			Where("status = ? AND review_date >= ?", models.StatusApproved, weekAgo).
			Count(&approvedWeek).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
		}
		if err := db.Session(&gorm.Session{}).
			Where("status = ? AND review_date >= ? AND review_date < ?",
				models.StatusRejected, monthStart, nextMonth).
			Count(&rejectedMonth).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
		}

		return ok(c, http.StatusOK, "", map[string]any{
			"stats": map[string]any{
				"totalRequests": map[string]any{"count": totalThisMonth, "label": "This Month"},
				"pending":       map[string]any{"count": pending, "label": "Approve Now"},
				"approved":      map[string]any{"count": approvedWeek, "label": "This Week"},
				"rejected":      map[string]any{"count": rejectedMonth, "label": "This Month"},
			},
		})
	}

	// student: balance ของตัวเอง (อ่านอย่างเดียว ไม่สร้าง) + จำนวนใบลาทั้งหมด
	var balance models.LeaveBalance
	if err := database.DB.Where("user_id = ?", uid).First(&balance).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
		}
		balance = *models.NewLeaveBalance(uid)
		balance.Total = balance.TotalDays()
	}

	var count int64
	if err := database.DB.Model(&models.LeaveRequest{}).
		Where("applicant_id = ?", uid).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch leave statistics")
	}

	return ok(c, http.StatusOK, "", map[string]any{
		"stats": map[string]any{
			"leaveBalance":  balance,
			"totalRequests": count,
		},
	})
}

// GET /leave/balance — get-or-create ด้วยค่า default 12/8/15
func (h *LeaveRequestHandler) Balance(c echo.Context) error {
	uid, _ := getUserID(c)

	var balance models.LeaveBalance
	err := database.DB.Where("user_id = ?", uid).First(&balance).Error
	if err == gorm.ErrRecordNotFound {
		balance = *models.NewLeaveBalance(uid)
		if err := database.DB.Create(&balance).Error; err != nil {
			logrus.WithError(err).WithField("user_id", uid).Error("create balance failed")
			return fail(c, http.StatusInternalServerError, "Failed to fetch leave balance")
		}
		balance.Total = balance.TotalDays()
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to fetch leave balance")
	}

	return ok(c, http.StatusOK, "", map[string]any{"leaveBalance": balance})
}
