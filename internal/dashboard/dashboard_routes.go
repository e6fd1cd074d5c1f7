package dashboard

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
	dashboard := r.Group("/dashboard")
	dashboard.Use(authMiddleware)
	dashboard.GET("/stats", middleware.RBACAuthorize(rbacService, "dashboard", "read"), h.GetStats)
}
