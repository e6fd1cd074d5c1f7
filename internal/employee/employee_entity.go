package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber  string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_employee_number"`
	Name            string     `gorm:"type:varchar(255);not null"`
	Email           string     `gorm:"type:text;not null;uniqueIndex:uq_employee_email"`
	Phone           string     `gorm:"type:varchar(50)"`
	JobTitle        string     `gorm:"type:varchar(255)"`
	DepartmentID    *uuid.UUID `gorm:"type:uuid;index"`
	Gender          string     `gorm:"type:varchar(20)"`
	JoiningDate     time.Time  `gorm:"type:date;not null"`
	LastWorkingDate *time.Time `gorm:"type:date"`
	DateOfBirth     *time.Time `gorm:"type:date"`
	UserID          *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`

	Department *EmployeeDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
}

type EmployeeDepartment struct {
	ID   uuid.UUID `gorm:"column:id;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (EmployeeDepartment) TableName() string {
	return "departments"
}
