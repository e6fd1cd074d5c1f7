package employee

type CreateEmployeeRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	JobTitle        string `json:"job_title"`
	DepartmentID    string `json:"department_id" binding:"omitempty,uuid"`
	Gender          string `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	JoiningDate     string `json:"joining_date" binding:"required,date"`
	DateOfBirth     string `json:"date_of_birth" binding:"omitempty,date"`
	LastWorkingDate string `json:"last_working_date" binding:"omitempty,date"`
}

type UpdateEmployeeRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	JobTitle        string `json:"job_title"`
	DepartmentID    string `json:"department_id" binding:"omitempty,uuid"`
	LastWorkingDate string `json:"last_working_date" binding:"omitempty,date"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeeResponse struct {
	ID              string                      `json:"id"`
	EmployeeNumber  string                      `json:"employee_number"`
	Name            string                      `json:"name"`
	Email           string                      `json:"email"`
	Phone           string                      `json:"phone,omitempty"`
	JobTitle        string                      `json:"job_title,omitempty"`
	Gender          string                      `json:"gender,omitempty"`
	JoiningDate     string                      `json:"joining_date"`
	LastWorkingDate *string                     `json:"last_working_date,omitempty"`
	DateOfBirth     *string                     `json:"date_of_birth,omitempty"`
	DepartmentID    string                      `json:"department_id,omitempty"`
	Department      *EmployeeDepartmentResponse `json:"department,omitempty"`
	UserID          string                      `json:"user_id,omitempty"`
}

type EmployeeOptionResponse struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
}
