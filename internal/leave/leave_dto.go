package leave

type CreateLeaveRequest struct {
	LeaveType  string `json:"leave_type" binding:"required"`
	StartDate  string `json:"start_date" binding:"required,date"`
	EndDate    string `json:"end_date" binding:"required,date"`
	Reason     string `json:"reason" binding:"required"`
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
}

type UpdateLeaveStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Comments string `json:"comments" binding:"max=1000"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	RequesterID     string  `json:"requester_id"`
	EmployeeID      *string `json:"employee_id,omitempty"`
	EmployeeName    string  `json:"employee_name"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	AppliedOn       string  `json:"applied_on"`
	ProcessedByName *string `json:"processed_by_name,omitempty"`
	ProcessedOn     *string `json:"processed_on,omitempty"`
	Comments        *string `json:"comments,omitempty"`
}
