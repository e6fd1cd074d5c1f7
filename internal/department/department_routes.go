package department

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
) {
	departments := r.Group("/departments")
	departments.Use(authMiddleware)
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), h.GetAll)
		departments.GET("/:id", middleware.RBACAuthorize(rbacService, "department", "read"), h.GetByID)
		departments.POST("", middleware.RBACAuthorize(rbacService, "department", "manage"), h.Create)
		departments.PUT("/:id", middleware.RBACAuthorize(rbacService, "department", "manage"), h.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "department", "manage"), h.Delete)
	}
}
