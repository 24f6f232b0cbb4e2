package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee represents a staff member. An employee may be linked to a User
// account but exists independently of one (e.g. warehouse staff without login).
type Employee struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName       string         `gorm:"type:varchar(255);not null" json:"full_name"`
	DocumentNumber string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"document_number"`
	Position       string         `gorm:"type:varchar(100)" json:"position"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	HireDate       *time.Time     `gorm:"type:date" json:"hire_date"`
	UserID         *uuid.UUID     `gorm:"type:uuid;index" json:"user_id"`
	User           *User          `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Schedule defines a recurring weekly shift for an employee.
// StartTime/EndTime use "15:04" wall-clock format; StartTime must precede EndTime.
type Schedule struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   Employee  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	Weekday    int       `gorm:"type:int;not null" json:"weekday"` // 0 = Sunday .. 6 = Saturday
	StartTime  string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime    string    `gorm:"type:varchar(5);not null" json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AttendanceStatus constants
const (
	AttendancePresent = "PRESENT"
	AttendanceLate    = "LATE"
)

// Attendance records a single worked period for an employee
type Attendance struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee   Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	ClockIn    time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut   *time.Time `json:"clock_out"`
	Status     string     `gorm:"type:varchar(20);not null;default:'PRESENT'" json:"status"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
