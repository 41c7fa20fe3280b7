package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Kalpan2007/Leave-App/config"
	"github.com/Kalpan2007/Leave-App/handlers"
	"github.com/Kalpan2007/Leave-App/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	lv := handlers.NewLeaveRequestHandler()
	up := handlers.NewUploadHandler(cfg)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	facultyMW := middlewares.RequireRole("faculty")

	e.GET("/health", handlers.Health)

	// ไฟล์แนบแบบ static (ตาม layout เดิมของระบบ)
	e.Static("/uploads", cfg.UploadDir)

	// ===== Auth =====
	e.POST("/auth/register", auth.Register)
	e.POST("/auth/login", auth.Login)
	e.GET("/auth/profile", auth.GetProfile, authMW)
	e.PUT("/auth/profile", auth.UpdateProfile, authMW)

	// ===== Leave (ทุกเส้นทางต้อง login) =====
	g := e.Group("/leave", authMW)

	g.GET("/balance", lv.Balance)
	g.GET("/statistics", lv.Statistics)

	g.POST("/upload", up.Upload)
	g.GET("/:leaveRequestId/download/:filename", up.Download)

	g.POST("", lv.Create)
	g.GET("/my-requests", lv.MyRequests)
	g.GET("/all-requests", lv.AllRequests, facultyMW)
	g.GET("/:id", lv.Details)
	g.PUT("/:id/status", lv.UpdateStatus, facultyMW)
}
