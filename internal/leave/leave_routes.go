package leave

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authMiddleware gin.HandlerFunc,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	leaves.GET("/types", h.ListLeaveTypes)

	authed := leaves.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("", middleware.RBACAuthorize(rbacService, "leave", "read_all"), h.ListAll)
		authed.GET("/my", middleware.RBACAuthorize(rbacService, "leave", "read"), h.ListMine)
		authed.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), h.GetByID)
		authed.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			h.Create,
		)
		authed.PUT("/:id/status", middleware.RBACAuthorize(rbacService, "leave", "approve"), h.SetStatus)
	}
}
