package jwtutil_test

import (
	"testing"
	"time"

	"go-ems/internal/shared/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	now := time.Now()

	t.Run("positive", func(t *testing.T) {
		raw, err := jwtutil.Issue("s3cret", "u-1", "a@test.com", "Admin", jwtutil.TokenTypeAccess, time.Minute, now)
		require.NoError(t, err)

		claims, err := jwtutil.Parse("s3cret", raw, jwtutil.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "Admin", claims.Role)
	})

	t.Run("negative expired", func(t *testing.T) {
		raw, err := jwtutil.Issue("s3cret", "u-1", "", "Admin", jwtutil.TokenTypeAccess, time.Minute, now.Add(-time.Hour))
		require.NoError(t, err)

		_, err = jwtutil.Parse("s3cret", raw, jwtutil.TokenTypeAccess)
		assert.ErrorIs(t, err, jwtutil.ErrTokenExpired)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		raw, _ := jwtutil.Issue("s3cret", "u-1", "", "Admin", jwtutil.TokenTypeAccess, time.Minute, now)

		_, err := jwtutil.Parse("other", raw, jwtutil.TokenTypeAccess)
		assert.ErrorIs(t, err, jwtutil.ErrTokenInvalid)
	})

	t.Run("negative refresh used as access", func(t *testing.T) {
		raw, _ := jwtutil.Issue("s3cret", "u-1", "", "Admin", jwtutil.TokenTypeRefresh, time.Minute, now)

		_, err := jwtutil.Parse("s3cret", raw, jwtutil.TokenTypeAccess)
		assert.ErrorIs(t, err, jwtutil.ErrTokenInvalid)
	})
}
