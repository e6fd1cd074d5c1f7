package user

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
) {
	users := r.Group("/users")
	users.Use(authMiddleware)
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.UpdateStatus)
	}
}
