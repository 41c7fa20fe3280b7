package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DefaultCasual = 12
	DefaultSick   = 8
	DefaultEarned = 15
)

type LeaveBalance struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`
	Casual int  `json:"casual" gorm:"default:12"`
	Sick   int  `json:"sick" gorm:"default:8"`
	Earned int  `json:"earned" gorm:"default:15"`
	Year   int  `json:"year"`

	// ฟิลด์คำนวณ
	Total int `json:"total" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewLeaveBalance(userID uint) *LeaveBalance {
	return &LeaveBalance{
		UserID: userID,
		Casual: DefaultCasual,
		Sick:   DefaultSick,
		Earned: DefaultEarned,
		Year:   time.Now().Year(),
	}
}

func (b *LeaveBalance) TotalDays() int {
	return b.Casual + b.Sick + b.Earned
}

func (b *LeaveBalance) AfterFind(tx *gorm.DB) error {
	b.Total = b.TotalDays()
	return nil
}
