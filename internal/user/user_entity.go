package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;type:text;not null"`
	Role      string    `gorm:"column:role;type:varchar(50);not null;default:Employee"`
	Avatar    string    `gorm:"column:avatar;type:text"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Profile linked through employees.user_id
	Employee *UserEmployee `gorm:"foreignKey:UserID;references:ID"`
}

// UserEmployee is the slice of the employee row a user needs for display.
type UserEmployee struct {
	ID        uuid.UUID      `gorm:"column:id;primaryKey"`
	UserID    *uuid.UUID     `gorm:"column:user_id"`
	Name      string         `gorm:"column:name"`
	Phone     string         `gorm:"column:phone"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (UserEmployee) TableName() string {
	return "employees"
}

// DisplayName prefers the linked employee name over the email.
func (u User) DisplayName() string {
	if u.Employee != nil && u.Employee.Name != "" {
		return u.Employee.Name
	}
	return u.Email
}
