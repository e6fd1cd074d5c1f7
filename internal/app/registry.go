package app

import (
	"database/sql"

	"go-ems/internal/auth"
	"go-ems/internal/config"
	"go-ems/internal/dashboard"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/leave"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"
	"go-ems/internal/rbac/infra"
	"go-ems/internal/shared/counter"
	"go-ems/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (user.Service, error) {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBAC.ModelPath)
	if err != nil {
		return nil, err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	authService := auth.NewService(db, userRepo, employeeRepo, auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	})
	userService := user.NewService(userRepo)
	departmentService := department.NewService(db, departmentRepo, rdb)
	employeeService := employee.NewService(employee.Deps{
		DB:              db,
		Repo:            employeeRepo,
		UserRepo:        userRepo,
		Counter:         counterRepo,
		Outbox:          outboxRepo,
		Redis:           rdb,
		DefaultPassword: cfg.Seed.EmployeeDefaultPassword,
	})
	leaveService := leave.NewService(leave.Deps{
		DB:            db,
		Repo:          leaveRepo,
		EmployeeRepo:  employeeRepo,
		Outbox:        outboxRepo,
		RejectOverlap: cfg.Leave.RejectOverlap,
	})
	dashboardService := dashboard.NewService(dashboardRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     cfg.App.IsProduction(),
		AccessTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTTL: cfg.JWT.RefreshTokenTTL,
	})
	userHandler := user.NewHandler(userService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		user.RegisterRoutes(api, userHandler, authMW, rbacService)
		department.RegisterRoutes(api, departmentHandler, authMW, rbacService)
		employee.RegisterRoutes(api, employeeHandler, authMW, rbacService)
		leave.RegisterRoutes(api, leaveHandler, authMW, rbacService, rdb)
		dashboard.RegisterRoutes(api, dashboardHandler, authMW, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, authMW)
	}

	return userService, nil
}
