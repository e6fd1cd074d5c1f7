package rbac

import "go-ems/internal/domain"

type permission struct {
	Role     string
	Resource string
	Action   string
}

// Admin inherits every Employee permission through roleHierarchy.
var defaultPolicy = []permission{
	{domain.RoleEmployee, "leave", "read"},
	{domain.RoleEmployee, "leave", "create"},
	{domain.RoleEmployee, "department", "read"},
	{domain.RoleEmployee, "profile", "update"},

	{domain.RoleAdmin, "leave", "read_all"},
	{domain.RoleAdmin, "leave", "approve"},
	{domain.RoleAdmin, "employee", "read"},
	{domain.RoleAdmin, "employee", "manage"},
	{domain.RoleAdmin, "department", "manage"},
	{domain.RoleAdmin, "user", "read"},
	{domain.RoleAdmin, "user", "manage"},
	{domain.RoleAdmin, "dashboard", "read"},
}

var roleHierarchy = [][2]string{
	{domain.RoleAdmin, domain.RoleEmployee},
}
