package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/config"
	"github.com/Kalpan2007/Leave-App/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect database")
	}
	DB = db

	if err := Migrate(DB); err != nil {
		logrus.WithError(err).Fatal("auto migrate failed")
	}
}

// Migrate แยกออกมาเพื่อให้ test เรียกกับ sqlite ได้ด้วย
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LeaveBalance{},
		&models.LeaveRequest{},
		&models.Attachment{},
		&models.ApprovalEntry{},
	)
}
