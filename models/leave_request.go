package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"

	ActionSubmitted = "Submitted"
)

// ชนิดการลาตามระบบเดิม
var LeaveTypes = []string{"Medical", "Personal", "Emergency", "Vacation", "Sick", "Casual", "Other"}

var PriorityLevels = []string{"Low", "Normal", "High", "Urgent"}

type LeaveRequest struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	ApplicantID   uint       `json:"applicant_id" gorm:"index;not null"`
	LeaveType     string     `json:"leaveType" gorm:"size:20;not null"`
	FromDate      time.Time  `json:"fromDate" gorm:"not null"`
	ToDate        time.Time  `json:"toDate" gorm:"not null"`
	Reason        string     `json:"reason" gorm:"size:500;not null"`
	PriorityLevel string     `json:"priorityLevel" gorm:"size:10;default:Normal"`
	Status        string     `json:"status" gorm:"size:10;default:Pending;index"`
	ReviewedByID  *uint      `json:"reviewed_by_id"`
	ReviewDate    *time.Time `json:"reviewDate"`
	ReviewComment string     `json:"reviewComment,omitempty" gorm:"size:500"`

	// ฟิลด์คำนวณ: จำนวนวันลา (รวมวันแรกและวันสุดท้าย)
	Duration int `json:"duration" gorm:"-"`

	Applicant  *User `json:"applicant,omitempty" gorm:"foreignKey:ApplicantID"`
	ReviewedBy *User `json:"reviewedBy,omitempty" gorm:"foreignKey:ReviewedByID"`

	Attachments     []Attachment    `json:"attachments" gorm:"foreignKey:LeaveRequestID"`
	ApprovalHistory []ApprovalEntry `json:"approvalHistory" gorm:"foreignKey:LeaveRequestID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (lr *LeaveRequest) DurationDays() int {
	return int(lr.ToDate.Sub(lr.FromDate).Hours()/24) + 1
}

func (lr *LeaveRequest) AfterFind(tx *gorm.DB) error {
	lr.Duration = lr.DurationDays()
	return nil
}

// ไฟล์แนบของใบลา — ไฟล์จริงเก็บใน upload dir ตามชื่อที่ server ตั้งให้
type Attachment struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	LeaveRequestID uint `json:"leave_request_id" gorm:"index;not null"`
	// ชื่อใน storage — server ตั้งให้ ไม่ซ้ำกัน
	Filename     string    `json:"filename" gorm:"size:120;not null"`
	OriginalName string    `json:"originalName" gorm:"size:255"`
	Mimetype     string    `json:"mimetype" gorm:"size:120"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"uploadDate"`
}

// ประวัติการอนุมัติ — append-only ห้าม update/delete แถวเดิม
type ApprovalEntry struct {
	ID             uint `json:"id" gorm:"primaryKey"`
	LeaveRequestID uint `json:"leave_request_id" gorm:"index;not null"`
	// Submitted / Approved / Rejected
	Action  string    `json:"action" gorm:"size:20;not null"`
	ActorID uint      `json:"actor_id"`
	Actor   *User     `json:"by,omitempty" gorm:"foreignKey:ActorID"`
	Comment string    `json:"comment,omitempty" gorm:"size:500"`
	Date    time.Time `json:"date"`
}

func ValidLeaveType(t string) bool {
	for _, v := range LeaveTypes {
		if v == t {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range PriorityLevels {
		if v == p {
			return true
		}
	}
	return false
}
