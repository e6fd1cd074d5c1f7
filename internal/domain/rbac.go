package domain

import "strings"

const (
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
)

func IsAdmin(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdmin)
}

// NormalizeRole maps any casing of a known role onto its canonical name.
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	switch {
	case strings.EqualFold(role, RoleAdmin):
		return RoleAdmin
	case strings.EqualFold(role, RoleEmployee):
		return RoleEmployee
	default:
		return role
	}
}

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
