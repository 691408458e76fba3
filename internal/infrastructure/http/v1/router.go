// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"hermes/internal/domain/auth"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/http/v1/handlers"
	"hermes/internal/infrastructure/http/v1/middleware"
	"hermes/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Organizations and Employees are the directory repositories
	Organizations organization.Repository
	Employees     employee.Repository

	// Backend names the directory for health output
	Backend string

	// Pinger checks directory reachability for the readiness probe (optional)
	Pinger handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator enables bearer authentication on the API when set
	JWTValidator middleware.JWTValidator

	// WriteRoles may call mutating routes when JWT is enabled. Admins always may.
	// Defaults to auth.RoleEditor.
	WriteRoles []string

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Collect())

	healthHandler := handlers.NewHealthHandler(cfg.Backend, cfg.Pinger)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	writable := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{h}
	}
	if cfg.JWTValidator != nil {
		if len(cfg.WriteRoles) == 0 {
			cfg.WriteRoles = []string{auth.RoleEditor}
		}
		requireWrite := middleware.RequireRole(cfg.WriteRoles...)
		writable = func(h gin.HandlerFunc) []gin.HandlerFunc {
			return []gin.HandlerFunc{requireWrite, h}
		}
	}

	base := handlers.NewBaseHandler()
	orgHandler := handlers.NewOrganizationHandler(base, cfg.Organizations)
	empHandler := handlers.NewEmployeeHandler(base, cfg.Organizations, cfg.Employees)

	orgs := api.Group("/organizations")
	{
		orgs.GET("", orgHandler.List)
		orgs.POST("", writable(orgHandler.Create)...)
		orgs.GET("/:id", orgHandler.Get)
		orgs.PUT("/:id", writable(orgHandler.Update)...)
		orgs.DELETE("/:id", writable(orgHandler.Delete)...)

		emps := orgs.Group("/:id/employees")
		emps.GET("", empHandler.List)
		emps.POST("", writable(empHandler.Create)...)
		emps.GET("/:employeeId", empHandler.Get)
		emps.PUT("/:employeeId", writable(empHandler.Update)...)
		emps.DELETE("/:employeeId", writable(empHandler.Delete)...)
	}

	return router
}
