package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Kalpan2007/Leave-App/config"
	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/routes"
)

func main() {
	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("10M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("server listening")
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
