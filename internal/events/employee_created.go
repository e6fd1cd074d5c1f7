package events

import "time"

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const EventEmployeeCreated = "employee_created"

type EmployeeCreatedEvent struct {
	EventType      string    `json:"event_type"`
	EmployeeID     string    `json:"employee_id"`
	UserID         string    `json:"user_id"`
	EmployeeNumber string    `json:"employee_number"`
	Email          string    `json:"email"`
	DepartmentID   *string   `json:"department_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
