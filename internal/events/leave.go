package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveRequested     = "leave_requested"
	EventLeaveStatusChanged = "leave_status_changed"
)

type LeaveRequestedEvent struct {
	EventType   string    `json:"event_type"`
	LeaveID     string    `json:"leave_id"`
	RequesterID string    `json:"requester_id"`
	EmployeeID  *string   `json:"employee_id,omitempty"`
	LeaveType   string    `json:"leave_type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	LeaveID       string    `json:"leave_id"`
	RequesterID   string    `json:"requester_id"`
	Status        string    `json:"status"`
	ProcessedByID string    `json:"processed_by_id"`
	Comments      string    `json:"comments,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
