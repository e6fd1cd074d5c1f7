package dashboard

type StatsResponse struct {
	TotalEmployees   int64          `json:"total_employees"`
	TotalDepartments int64          `json:"total_departments"`
	PendingLeaves    int64          `json:"pending_leaves"`
	OnLeaveToday     []OnLeaveEntry `json:"on_leave_today"`
}

type OnLeaveEntry struct {
	LeaveID      string `json:"leave_id"`
	EmployeeName string `json:"employee_name"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}
