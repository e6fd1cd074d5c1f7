package auth

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest leaves a field unchanged when it is empty.
type UpdateProfileRequest struct {
	Email           string `json:"email" binding:"omitempty,email"`
	Password        string `json:"password" binding:"omitempty,min=6"`
	CurrentPassword string `json:"current_password"`
	Name            string `json:"name" binding:"omitempty,max=255"`
	Phone           string `json:"phone" binding:"omitempty,max=50"`
	Avatar          string `json:"avatar" binding:"omitempty,url"`
}

type AuthResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
}

type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         AuthResponse `json:"user"`
}
