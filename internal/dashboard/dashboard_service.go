package dashboard

import (
	"context"
	"time"

	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	GetStats(ctx context.Context) (StatsResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) GetStats(ctx context.Context) (StatsResponse, error) {
	var (
		resp    StatsResponse
		onLeave []OnLeaveRow
	)
	today := s.now().UTC().Truncate(24 * time.Hour)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.TotalEmployees, err = s.repo.CountEmployees(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalDepartments, err = s.repo.CountDepartments(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.PendingLeaves, err = s.repo.CountPendingLeaves(gctx)
		return err
	})
	g.Go(func() (err error) {
		onLeave, err = s.repo.FindOnLeave(gctx, today)
		return err
	})
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("dashboard stats failed", zap.Error(err))
		return StatsResponse{}, err
	}

	resp.OnLeaveToday = make([]OnLeaveEntry, len(onLeave))
	for i, row := range onLeave {
		name := "Unknown"
		switch {
		case row.EmployeeName != nil && *row.EmployeeName != "":
			name = *row.EmployeeName
		case row.RequesterEmail != nil:
			name = *row.RequesterEmail
		}
		resp.OnLeaveToday[i] = OnLeaveEntry{
			LeaveID:      row.LeaveID.String(),
			EmployeeName: name,
			LeaveType:    row.LeaveType,
			StartDate:    row.StartDate.Format(apperror.DateLayout),
			EndDate:      row.EndDate.Format(apperror.DateLayout),
		}
	}
	return resp, nil
}
