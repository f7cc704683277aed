package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"agendly/handlers"
	"agendly/middleware"
	"agendly/utils"
)

// RegisterProviderRoutes registers the provider management endpoints.
// Everything under a provider id requires that provider's token.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.POST("", hb.CreateProviderHandler)

		protected := api.Group("/:providerId")
		protected.Use(middleware.JWTAuthProviderMiddleware())
		protected.GET("", hb.GetProviderHandler)
		protected.PUT("/settings", hb.UpdateSettingsHandler)

		protected.POST("/locations", hb.CreateLocationHandler)
		protected.POST("/members", hb.CreateMemberHandler)
		protected.GET("/members", hb.ListMembersHandler)
		protected.PUT("/members/:memberId/location", hb.ChangeMemberLocationHandler)
		protected.DELETE("/members/:memberId", hb.DeleteMemberHandler)
		protected.POST("/services", hb.CreateServiceHandler)

		protected.PUT("/availability", hb.SetAvailabilityHandler)
		protected.PUT("/availability/weekly", hb.SetWeeklyScheduleHandler)
		protected.GET("/availability", hb.GetWeeklyScheduleHandler)

		protected.POST("/exceptions", hb.SetExceptionHandler)
		protected.GET("/exceptions", hb.ListExceptionsHandler)
		protected.DELETE("/exceptions/:date", hb.RemoveExceptionHandler)

		protected.POST("/blocked", hb.BlockPeriodHandler)
		protected.GET("/blocked", hb.GetBlockedSlotsHandler)
		protected.DELETE("/blocked/:blockedId", hb.UnblockPeriodHandler)

		protected.POST("/planning-codes", hb.IssuePlanningCodeHandler)

		protected.GET("/bookings", hb.ListBookingsHandler)
		protected.GET("/bookings/stats", hb.BookingStatsHandler)
		protected.GET("/bookings/:bookingId", hb.GetBookingHandler)
		protected.POST("/bookings/:bookingId/confirm", hb.ConfirmBookingHandler)
		protected.POST("/bookings/:bookingId/cancel", hb.CancelBookingHandler)
		protected.POST("/bookings/:bookingId/reschedule", hb.RescheduleBookingHandler)
		protected.POST("/bookings/:bookingId/complete", hb.CompleteBookingHandler)
		protected.POST("/bookings/:bookingId/no-show", hb.MarkNoShowHandler)
	}
}

// RegisterBookingRoutes registers the public client-facing endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/slots", hb.GetSlotsHandler)
		api.POST("", hb.CreateBookingHandler)
		api.DELETE("/token/:token", hb.CancelByTokenHandler)
	}
}

// RegisterPlanningRoutes registers the access-code agenda view.
func RegisterPlanningRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/planning/:code", hb.PlanningHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(utils.ErrorHandler())

	RegisterProviderRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPlanningRoutes(r, hb)
	RegisterHealthRoute(r)
}
