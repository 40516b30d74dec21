package handlers

import (
	portssvc "github.com/corebank/bank_ledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service facades.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerAccountRoutes(v1, services.Account)
	registerLedgerRoutes(v1, services.Account, services.Ledger)
}
