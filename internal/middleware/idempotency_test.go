package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempotentRouter(t *testing.T, calls *int) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/leave",
		func(c *gin.Context) { c.Set(ContextUserID, "user-1"); c.Next() },
		Idempotency(rdb),
		func(c *gin.Context) {
			*calls++
			c.JSON(http.StatusCreated, gin.H{"id": "leave-1"})
		},
	)
	return r, mock
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leave", strings.NewReader("{}"))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	cacheKey := "idemp:/leave:user-1:k1"
	lockKey := cacheKey + ":lock"

	t.Run("positive first request stores response", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotentRouter(t, &calls)

		stored, err := json.Marshal(idempotencyRecord{
			Status:      http.StatusCreated,
			ContentType: "application/json; charset=utf-8",
			Body:        `{"id":"leave-1"}`,
		})
		require.NoError(t, err)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, string(stored), idempotencyResultTTL).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := postWithKey(r, "k1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("positive retry is replayed", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotentRouter(t, &calls)

		stored, _ := json.Marshal(idempotencyRecord{
			Status:      http.StatusCreated,
			ContentType: "application/json; charset=utf-8",
			Body:        `{"id":"leave-1"}`,
		})
		mock.ExpectGet(cacheKey).SetVal(string(stored))

		w := postWithKey(r, "k1")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, `{"id":"leave-1"}`, w.Body.String())
		assert.Equal(t, "true", w.Header().Get(HeaderReplayed))
		assert.Equal(t, 0, calls)
	})

	t.Run("negative concurrent duplicate", func(t *testing.T) {
		calls := 0
		r, mock := newIdempotentRouter(t, &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

		w := postWithKey(r, "k1")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("positive no key passes through", func(t *testing.T) {
		calls := 0
		r, _ := newIdempotentRouter(t, &calls)

		w := postWithKey(r, "")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})
}
