package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

type LeaveRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_requester_dates"`
	EmployeeID  *uuid.UUID `gorm:"type:uuid;index"`

	LeaveType string    `gorm:"type:varchar(50);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_requester_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_requester_dates"`
	Reason    string    `gorm:"type:text;not null"`

	Status      string     `gorm:"type:varchar(20);not null;default:'Pending';index"`
	AppliedOn   time.Time  `gorm:"not null;index"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedOn *time.Time
	Comments    *string `gorm:"type:text"`
	Version     int     `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee  *LeaveEmployee `gorm:"foreignKey:EmployeeID"`
	Requester *LeaveUser     `gorm:"foreignKey:RequesterID"`
	Processor *LeaveUser     `gorm:"foreignKey:ProcessedBy"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// IsPending reports whether the request can still be approved or rejected.
func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

type LeaveEmployee struct {
	ID   uuid.UUID `gorm:"column:id;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (LeaveEmployee) TableName() string {
	return "employees"
}

type LeaveUser struct {
	ID    uuid.UUID `gorm:"column:id;primaryKey"`
	Email string    `gorm:"column:email"`
}

func (LeaveUser) TableName() string {
	return "users"
}
