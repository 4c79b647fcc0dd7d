package server

import (
	"net/http"

	"archdesk/internal/config"
	"archdesk/internal/handlers"
	"archdesk/internal/middleware"
	"archdesk/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("archdesk_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/register", handlers.Register)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// CLIENTS
	auth.GET("/clients", handlers.ListClients)
	auth.GET("/clients/:id", handlers.GetClient)
	auth.POST("/clients",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.CreateClient,
	)
	auth.PUT("/clients/:id",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.UpdateClient,
	)

	// PROJECTS
	auth.GET("/projects", handlers.ListProjects)
	auth.GET("/projects/:id", handlers.GetProject)
	auth.POST("/projects",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.CreateProject,
	)
	auth.PUT("/projects/:id",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.UpdateProject,
	)
	auth.POST("/projects/:id/status", handlers.ChangeProjectStatus)

	// burn rate is financial end to end
	auth.GET("/projects/:id/burn-rate",
		middleware.RequireFinancials(),
		handlers.ProjectBurnRate,
	)

	// PHASES
	auth.GET("/projects/:id/phases", handlers.ListPhases)
	auth.POST("/projects/:id/phases",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.CreatePhase,
	)
	auth.POST("/phases/:id/substages/:sid/complete", handlers.CompleteSubstage)
	auth.POST("/phases/:id/assignments",
		middleware.RequireRole(models.RoleAdmin, models.RolePrincipal),
		handlers.CreateAssignment,
	)

	// INVOICES
	invoices := auth.Group("/invoices")
	invoices.Use(middleware.RequireFinancials())
	invoices.GET("", handlers.ListInvoices)
	invoices.GET("/:id", handlers.GetInvoice)
	invoices.POST("", handlers.CreateInvoice)
	invoices.POST("/:id/status", handlers.ChangeInvoiceStatus)
	invoices.POST("/:id/payments", handlers.RecordPayment)

	// DASHBOARD
	auth.GET("/dashboard/financial-health",
		middleware.RequireFinancials(),
		handlers.FinancialHealth,
	)

	// AUDIT
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
