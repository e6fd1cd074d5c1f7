package leave

import "go-ems/internal/domain"

// Caller is the authenticated identity behind a ledger call. It is built
// from verified token claims, never from a request body.
type Caller struct {
	UserID string
	Role   string
	Email  string
}

func (c Caller) IsAdmin() bool {
	return domain.IsAdmin(c.Role)
}
