package dashboard

import (
	"context"
	"time"

	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/leave"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OnLeaveRow struct {
	LeaveID        uuid.UUID
	EmployeeName   *string
	RequesterEmail *string
	LeaveType      string
	StartDate      time.Time
	EndDate        time.Time
}

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountEmployees(ctx context.Context) (int64, error)
	CountDepartments(ctx context.Context) (int64, error)
	CountPendingLeaves(ctx context.Context) (int64, error)
	FindOnLeave(ctx context.Context, day time.Time) ([]OnLeaveRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&employee.Employee{}).Count(&n).Error
	return n, err
}

func (r *repository) CountDepartments(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&department.Department{}).Count(&n).Error
	return n, err
}

func (r *repository) CountPendingLeaves(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&leave.LeaveRequest{}).
		Where("status = ?", leave.StatusPending).
		Count(&n).Error
	return n, err
}

// FindOnLeave lists approved requests whose period covers day.
func (r *repository) FindOnLeave(ctx context.Context, day time.Time) ([]OnLeaveRow, error) {
	var rows []OnLeaveRow
	err := r.db.WithContext(ctx).
		Table("leave_requests AS l").
		Select("l.id AS leave_id, e.name AS employee_name, u.email AS requester_email, l.leave_type, l.start_date, l.end_date").
		Joins("LEFT JOIN employees e ON e.id = l.employee_id").
		Joins("LEFT JOIN users u ON u.id = l.requester_id").
		Where("l.status = ? AND l.start_date <= ? AND l.end_date >= ?", leave.StatusApproved, day, day).
		Order("l.start_date ASC").
		Scan(&rows).Error
	return rows, err
}
