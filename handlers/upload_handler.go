package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/config"
	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

type UploadHandler struct {
	cfg *config.Config
}

func NewUploadHandler(cfg *config.Config) *UploadHandler { return &UploadHandler{cfg: cfg} }

func saveFile(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// POST /leave/upload  (multipart: attachments[] สูงสุด 5 ไฟล์ + leaveRequestId)
func (h *UploadHandler) Upload(c echo.Context) error {
	uid, _ := getUserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "No files uploaded")
	}
	files := form.File["attachments"]
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "No files uploaded")
	}
	if len(files) > h.cfg.MaxUploadFiles {
		return fail(c, http.StatusBadRequest, "Too many files. Maximum 5 files allowed")
	}

	// เขียนไฟล์ลง disk ก่อน — ทุก path ที่ fail หลังจากนี้ต้องลบไฟล์ทั้งหมดทิ้ง
	// ห้ามเหลือไฟล์ orphan ใน storage
	var saved []string
	cleanup := func() {
		for _, p := range saved {
			if err := os.Remove(p); err != nil {
				logrus.WithError(err).WithField("path", p).Warn("failed to remove uploaded file")
			}
		}
	}

	var metas []models.Attachment
	for _, fh := range files {
		if fh.Size > h.cfg.MaxUploadBytes {
			cleanup()
			return fail(c, http.StatusBadRequest, "File too large. Maximum size is 5MB")
		}
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		dst := filepath.Join(h.cfg.UploadDir, name)
		if err := saveFile(fh, dst); err != nil {
			cleanup()
			logrus.WithError(err).Error("save uploaded file failed")
			return fail(c, http.StatusInternalServerError, "File upload failed")
		}
		saved = append(saved, dst)
		metas = append(metas, models.Attachment{
			Filename:     name,
			OriginalName: fh.Filename,
			Mimetype:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			UploadDate:   time.Now().UTC(),
		})
	}

	rawID := strings.TrimSpace(c.FormValue("leaveRequestId"))
	if rawID == "" {
		cleanup()
		return fail(c, http.StatusBadRequest, "Leave request ID is required")
	}
	id := atoiOr(rawID, 0)
	if id <= 0 {
		cleanup()
		return fail(c, http.StatusNotFound, "Leave request not found")
	}

	var row models.LeaveRequest
	if err := database.DB.First(&row, "id = ?", id).Error; err != nil {
		cleanup()
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Leave request not found")
		}
		return fail(c, http.StatusInternalServerError, "File upload failed")
	}

	// แนบได้เฉพาะเจ้าของใบลา
	if row.ApplicantID != uid {
		cleanup()
		return fail(c, http.StatusForbidden, "Access denied")
	}

	for i := range metas {
		metas[i].LeaveRequestID = row.ID
	}
	if err := database.DB.Create(&metas).Error; err != nil {
		cleanup()
		logrus.WithError(err).Error("save attachment metadata failed")
		return fail(c, http.StatusInternalServerError, "File upload failed")
	}

	return ok(c, http.StatusOK, "Files uploaded successfully", map[string]any{
		"attachments": metas,
	})
}

// GET /leave/:leaveRequestId/download/:filename
func (h *UploadHandler) Download(c echo.Context) error {
	uid, _ := getUserID(c)

	id := atoiOr(c.Param("leaveRequestId"), 0)
	if id <= 0 {
		return fail(c, http.StatusNotFound, "Leave request not found")
	}

	var row models.LeaveRequest
	err := database.DB.Preload("Attachments").
		First(&row, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fail(c, http.StatusNotFound, "Leave request not found")
		}
		return fail(c, http.StatusInternalServerError, "File download failed")
	}

	if getRole(c) == models.RoleStudent && row.ApplicantID != uid {
		return fail(c, http.StatusForbidden, "Access denied")
	}

	filename := c.Param("filename")
	var att *models.Attachment
	for i := range row.Attachments {
		if row.Attachments[i].Filename == filename {
			att = &row.Attachments[i]
			break
		}
	}
	if att == nil {
		return fail(c, http.StatusNotFound, "Attachment not found")
	}

	// ใช้ชื่อจาก metadata ไม่ใช่จาก param — กัน path traversal
	fpath := filepath.Join(h.cfg.UploadDir, att.Filename)
	if _, err := os.Stat(fpath); err != nil {
		return fail(c, http.StatusNotFound, "File not found on server")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+att.OriginalName+`"`)
	if att.Mimetype != "" {
		c.Response().Header().Set(echo.HeaderContentType, att.Mimetype)
	}
	return c.File(fpath)
}
