// scripts/create_faculty.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kalpan2007/Leave-App/config"
	"github.com/Kalpan2007/Leave-App/database"
	"github.com/Kalpan2007/Leave-App/models"
)

func main() {
	// โหลด config และเชื่อม DB ตามที่ main.go ใช้จริง
	cfg := config.Load()
	database.Connect(cfg)

	email := "faculty@example.com"
	password := "1234"

	// แฮชรหัสผ่าน
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// ตรวจว่ามีบัญชีนี้อยู่แล้วหรือไม่
	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("⚠️  Faculty user already exists with email:", email)
		os.Exit(0)
	}

	// สร้าง user ใหม่ role=faculty
	u := models.User{
		Name:       "Faculty Admin",
		Email:      email,
		Password:   string(hashed),
		Role:       models.RoleFaculty,
		Department: "Administration",
		IsActive:   true,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert faculty user: %v", err)
	}
	if err := database.DB.Create(models.NewLeaveBalance(u.ID)).Error; err != nil {
		log.Fatalf("failed to create leave balance: %v", err)
	}

	fmt.Println("✅ Faculty user created successfully!")
	fmt.Println("   Email:", email)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}
