package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Email     string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	FullName  string         `gorm:"not null;size:200" json:"full_name"`
	Role      Role           `gorm:"not null;size:20" json:"role"`
	Phone     string         `gorm:"size:50" json:"phone"`
	HireDate  time.Time      `gorm:"type:date;not null" json:"hire_date"`
	EndDate   *time.Time     `gorm:"type:date" json:"end_date,omitempty"`

	// Leave window. LeaveStartDate/LeaveEndDate are only meaningful while
	// LeaveType is set; LeaveEndDate is never before LeaveStartDate.
	LeaveType      string     `gorm:"size:50" json:"leave_type,omitempty"`
	LeaveStartDate *time.Time `gorm:"type:date" json:"leave_start_date,omitempty"`
	LeaveEndDate   *time.Time `gorm:"type:date" json:"leave_end_date,omitempty"`

	Entries []TimesheetEntry `gorm:"foreignKey:EmployeeID" json:"entries,omitempty"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Employee) HasLeaveWindow() bool {
	return e.LeaveType != "" && e.LeaveStartDate != nil && e.LeaveEndDate != nil
}
