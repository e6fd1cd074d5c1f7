package leave_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-ems/internal/domain"
	"go-ems/internal/leave"
	leaveerrors "go-ems/internal/leave/errors"
	"go-ems/internal/middleware"
	"go-ems/internal/shared/apperror"

	leaveMock "go-ems/internal/leave/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testUserID = "8d0f2f7e-5a43-4d8c-9b55-1f0a4e0f7c11"

func withIdentity(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, testUserID)
		c.Set(middleware.ContextRole, role)
		c.Set(middleware.ContextEmail, "caller@ems.local")
		c.Next()
	}
}

func setupRouter(t *testing.T, role string) (*gin.Engine, *leaveMock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	apperror.Init()

	svc := leaveMock.NewMockService(gomock.NewController(t))
	h := leave.NewHandler(svc)

	r := gin.New()
	r.GET("/leave/types", h.ListLeaveTypes)
	g := r.Group("/leave", withIdentity(role))
	g.GET("", h.ListAll)
	g.GET("/my", h.ListMine)
	g.GET("/:id", h.GetByID)
	g.POST("", h.Create)
	g.PUT("/:id/status", h.SetStatus)
	return r, svc
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeaveHandler_ListAll(t *testing.T) {
	t.Run("paginates admin list", func(t *testing.T) {
		r, svc := setupRouter(t, domain.RoleAdmin)
		items := make([]leave.LeaveResponse, 12)
		for i := range items {
			items[i] = leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending}
		}
		svc.EXPECT().
			ListAll(gomock.Any(), leave.Caller{UserID: testUserID, Role: domain.RoleAdmin, Email: "caller@ems.local"}).
			Return(items, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave?page=2&page_size=5", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
		assert.Equal(t, items[5].ID, got[0].ID)
		assert.EqualValues(t, 12, env.Meta["total"])
	})

	t.Run("forbidden surfaces as 403", func(t *testing.T) {
		r, svc := setupRouter(t, domain.RoleEmployee)
		svc.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(nil, leaveerrors.ErrAdminOnly)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apperror.CodeForbidden, decode(t, w).Error.Code)
	})
}

func TestLeaveHandler_ListMine(t *testing.T) {
	r, svc := setupRouter(t, domain.RoleEmployee)
	svc.EXPECT().ListMine(gomock.Any(), gomock.Any()).Return([]leave.LeaveResponse{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave/my", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))
}

func TestLeaveHandler_ListLeaveTypes(t *testing.T) {
	r, svc := setupRouter(t, "")
	svc.EXPECT().ListLeaveTypes().Return(leave.LeaveTypes())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave/types", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got []string
	assert.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, "Sick Leave", got[0])
	assert.Len(t, got, 7)
}

func TestLeaveHandler_GetByID(t *testing.T) {
	id := uuid.NewString()
	r, svc := setupRouter(t, domain.RoleEmployee)
	svc.EXPECT().GetByID(gomock.Any(), gomock.Any(), id).Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave/"+id, nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w).Error.Code)
}

func TestLeaveHandler_Create(t *testing.T) {
	body := `{"leave_type":"Sick Leave","start_date":"2024-01-10","end_date":"2024-01-12","reason":"flu"}`

	t.Run("created", func(t *testing.T) {
		r, svc := setupRouter(t, domain.RoleEmployee)
		svc.EXPECT().
			Create(gomock.Any(), gomock.Any(), leave.CreateLeaveRequest{
				LeaveType: "Sick Leave",
				StartDate: "2024-01-10",
				EndDate:   "2024-01-12",
				Reason:    "flu",
			}).
			Return(leave.LeaveResponse{ID: uuid.NewString(), Status: leave.StatusPending}, nil)

		req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Pending"`)
	})

	t.Run("bad date format never reaches service", func(t *testing.T) {
		r, _ := setupRouter(t, domain.RoleEmployee)

		req := httptest.NewRequest(http.MethodPost, "/leave",
			strings.NewReader(`{"leave_type":"Sick Leave","start_date":"10-01-2024","end_date":"2024-01-12","reason":"flu"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeValidation, decode(t, w).Error.Code)
	})

	t.Run("missing reason", func(t *testing.T) {
		r, _ := setupRouter(t, domain.RoleEmployee)

		req := httptest.NewRequest(http.MethodPost, "/leave",
			strings.NewReader(`{"leave_type":"Sick Leave","start_date":"2024-01-10","end_date":"2024-01-12"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_SetStatus(t *testing.T) {
	id := uuid.NewString()

	t.Run("no content", func(t *testing.T) {
		r, svc := setupRouter(t, domain.RoleAdmin)
		svc.EXPECT().
			SetStatus(gomock.Any(), gomock.Any(), id, leave.UpdateLeaveStatusRequest{Status: "Approved", Comments: "ok"}).
			Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/leave/"+id+"/status", strings.NewReader(`{"status":"Approved","comments":"ok"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("already processed is a conflict", func(t *testing.T) {
		r, svc := setupRouter(t, domain.RoleAdmin)
		svc.EXPECT().SetStatus(gomock.Any(), gomock.Any(), id, gomock.Any()).Return(leaveerrors.ErrLeaveNotPending)

		req := httptest.NewRequest(http.MethodPut, "/leave/"+id+"/status", strings.NewReader(`{"status":"Rejected"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodeInvalidState, decode(t, w).Error.Code)
	})
}
