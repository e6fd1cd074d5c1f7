package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-ems/internal/domain"
	"go-ems/internal/shared/apperror"
	"go-ems/internal/shared/contextutil"
	"go-ems/internal/shared/jwtutil"
	"go-ems/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextEmail  = "email"

	AccessTokenCookie = "access_token"
)

var errTokenExpired = apperror.New(apperror.CodeInvalidToken, "Token has expired", http.StatusUnauthorized)

// AuthMiddleware accepts an access token from the Authorization header or
// the access_token cookie. Refresh tokens are refused.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found")
			return
		}

		claims, err := jwtutil.Parse(secret, tokenString, jwtutil.TokenTypeAccess)
		if err != nil {
			errObj := apperror.ErrInvalidToken
			if errors.Is(err, jwtutil.ErrTokenExpired) {
				errObj = errTokenExpired
			}
			response.Abort(c, errObj.HTTPStatus, errObj.Code, errObj.Message)
			return
		}

		role := domain.NormalizeRole(claims.Role)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, claims.Email)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, claims.UserID)
		ctx = contextutil.WithRole(ctx, role)
		if reqLogger, ok := contextutil.LoggerFrom(ctx); ok {
			ctx = contextutil.WithLogger(ctx, reqLogger.With(zap.String("user_id", claims.UserID)))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
