package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"techmate/handlers"
	"techmate/middleware"
)

// RegisterScheduleRoutes registers technician schedule endpoints. Reads are
// open to any authenticated caller; writes come from the booking services.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	{
		reads := api.Group("/technicians")
		reads.Use(middleware.JWTAuthMiddleware())
		reads.GET("/:id/conflicts", hb.GetConflictsHandler)
		reads.GET("/:id/intervals", hb.GetIntervalsHandler)

		writes := api.Group("/activities")
		writes.Use(middleware.JWTAuthServiceMiddleware())
		writes.POST("", hb.CreateActivityIntervalHandler)
		writes.DELETE("/:activityId", hb.DeleteActivityIntervalsHandler)
	}
}

// RegisterSubscriptionRoutes registers the technician's own subscription endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	{
		api.Use(middleware.JWTAuthTechnicianMiddleware())
		api.POST("", hb.SubscribeHandler)
		api.POST("/renew", hb.RenewSubscriptionHandler)
		api.POST("/cancel", hb.CancelSubscriptionHandler)
		api.GET("/current", hb.CurrentSubscriptionHandler)
		api.GET("/history", hb.SubscriptionHistoryHandler)
	}
}

// RegisterAdminRoutes registers operator endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthAdminMiddleware())
		api.POST("/reconcile/:job", hb.ReconcileHandler)
		api.GET("/health", hb.HealthHandler)
	}
}

// RegisterHealthRoute registers a liveness endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
