package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-ems/internal/dashboard"

	dashboardMock "go-ems/internal/dashboard/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestDashboardService_GetStats(t *testing.T) {
	t.Run("aggregates counts and people on leave", func(t *testing.T) {
		repo := dashboardMock.NewMockRepository(gomock.NewController(t))
		name := "Eve"
		email := "frank@ems.local"
		day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

		repo.EXPECT().CountEmployees(gomock.Any()).Return(int64(12), nil)
		repo.EXPECT().CountDepartments(gomock.Any()).Return(int64(3), nil)
		repo.EXPECT().CountPendingLeaves(gomock.Any()).Return(int64(4), nil)
		repo.EXPECT().FindOnLeave(gomock.Any(), gomock.Any()).Return([]dashboard.OnLeaveRow{
			{LeaveID: uuid.New(), EmployeeName: &name, LeaveType: "Vacation", StartDate: day, EndDate: day},
			{LeaveID: uuid.New(), RequesterEmail: &email, LeaveType: "Sick Leave", StartDate: day, EndDate: day.AddDate(0, 0, 2)},
			{LeaveID: uuid.New(), LeaveType: "Other", StartDate: day, EndDate: day},
		}, nil)

		resp, err := dashboard.NewService(repo).GetStats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(12), resp.TotalEmployees)
		assert.Equal(t, int64(3), resp.TotalDepartments)
		assert.Equal(t, int64(4), resp.PendingLeaves)
		assert.Len(t, resp.OnLeaveToday, 3)
		assert.Equal(t, "Eve", resp.OnLeaveToday[0].EmployeeName)
		assert.Equal(t, "frank@ems.local", resp.OnLeaveToday[1].EmployeeName)
		assert.Equal(t, "2024-01-12", resp.OnLeaveToday[1].EndDate)
		assert.Equal(t, "Unknown", resp.OnLeaveToday[2].EmployeeName)
	})

	t.Run("any failing query fails the whole call", func(t *testing.T) {
		repo := dashboardMock.NewMockRepository(gomock.NewController(t))

		repo.EXPECT().CountEmployees(gomock.Any()).Return(int64(0), errors.New("db down")).AnyTimes()
		repo.EXPECT().CountDepartments(gomock.Any()).Return(int64(1), nil).AnyTimes()
		repo.EXPECT().CountPendingLeaves(gomock.Any()).Return(int64(1), nil).AnyTimes()
		repo.EXPECT().FindOnLeave(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

		_, err := dashboard.NewService(repo).GetStats(context.Background())

		assert.EqualError(t, err, "db down")
	})
}

type fakeDashboardService struct {
	GetStatsFn func(ctx context.Context) (dashboard.StatsResponse, error)
}

func (f *fakeDashboardService) GetStats(ctx context.Context) (dashboard.StatsResponse, error) {
	return f.GetStatsFn(ctx)
}

func TestDashboardHandler_GetStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("ok", func(t *testing.T) {
		r := gin.New()
		r.GET("/dashboard/stats", dashboard.NewHandler(&fakeDashboardService{
			GetStatsFn: func(ctx context.Context) (dashboard.StatsResponse, error) {
				return dashboard.StatsResponse{TotalEmployees: 5, OnLeaveToday: []dashboard.OnLeaveEntry{}}, nil
			},
		}).GetStats)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"total_employees":5`)
	})

	t.Run("error", func(t *testing.T) {
		r := gin.New()
		r.GET("/dashboard/stats", dashboard.NewHandler(&fakeDashboardService{
			GetStatsFn: func(ctx context.Context) (dashboard.StatsResponse, error) {
				return dashboard.StatsResponse{}, errors.New("boom")
			},
		}).GetStats)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	})
}
