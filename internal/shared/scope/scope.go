package scope

import "gorm.io/gorm"

// RequestedBy restricts a query to rows owned by the given user.
func RequestedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("requester_id = ?", userID)
	}
}
