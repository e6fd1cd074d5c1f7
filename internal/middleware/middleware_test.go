package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-ems/internal/domain"
	rbacmock "go-ems/internal/rbac/mock"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/jwtutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Ok    bool `json:"ok"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func issue(t *testing.T, role, tokenType string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwtutil.Issue(testSecret, "user-1", "user@test.com", role, tokenType, ttl, time.Now())
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(ContextLogger(zap.NewNop()), AuthMiddleware(testSecret))
		r.GET("/me", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"user_id":    contextutil.GetUserID(c.Request.Context()),
				"role":       c.GetString(ContextRole),
				"request_id": contextutil.GetRequestID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("positive bearer", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "admin", jwtutil.TokenTypeAccess, time.Minute))
		req.Header.Set(HeaderRequestID, "rid-1")

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, domain.RoleAdmin, body["role"])
		assert.Equal(t, "rid-1", body["request_id"])
		assert.Equal(t, "rid-1", w.Header().Get(HeaderRequestID))
	})

	t.Run("positive cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issue(t, "Employee", jwtutil.TokenTypeAccess, time.Minute)})

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	})

	t.Run("negative missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("negative expired", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "Admin", jwtutil.TokenTypeAccess, -time.Minute))

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
		assert.Equal(t, "Token has expired", env.Error.Message)
	})

	t.Run("negative refresh token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, "Admin", jwtutil.TokenTypeRefresh, time.Minute))

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeEnvelope(t, w).Error.Code)
	})
}

func TestRBACAuthorize(t *testing.T) {
	newRouter := func(svc RBACService, role string) *gin.Engine {
		r := gin.New()
		r.GET("/leave", func(c *gin.Context) {
			if role != "" {
				c.Set(ContextRole, role)
			}
			c.Next()
		}, RBACAuthorize(svc, "leave", "read_all"), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("positive allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(domain.EnforceRequest{Role: "Admin", Resource: "leave", Action: "read_all"}).Return(true, nil)

		w := httptest.NewRecorder()
		newRouter(svc, "Admin").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative denied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(gomock.Any()).Return(false, nil)

		w := httptest.NewRecorder()
		newRouter(svc, "Employee").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("negative enforcer error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)
		svc.EXPECT().Enforce(gomock.Any()).Return(false, errors.New("casbin down"))

		w := httptest.NewRecorder()
		newRouter(svc, "Admin").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("negative missing role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := rbacmock.NewMockService(ctrl)

		w := httptest.NewRecorder()
		newRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimitByIP(rate.Every(time.Hour), 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
