package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"connectify/handlers"
	"connectify/middleware"
)

// RegisterRoutes wires all endpoint groups onto the engine.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCalendarRoutes(r)
	RegisterFulfillmentRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterAdminRoutes(r)
	RegisterHealthRoute(r)
}

// RegisterCalendarRoutes sets up availability queries. Calendar writes live
// under the admin group.
func RegisterCalendarRoutes(r *gin.Engine) {
	api := r.Group("/api/gcal")
	{
		api.GET("/availability", handlers.GetAvailableSlots)
	}
}

// RegisterFulfillmentRoutes sets up the internal fulfillment endpoint,
// guarded by the shared-secret header.
func RegisterFulfillmentRoutes(r *gin.Engine) {
	api := r.Group("/api/fulfill")
	{
		api.Use(middleware.InternalAuthMiddleware())
		api.POST("/gcal-booking", handlers.FulfillBooking)
	}
}

// RegisterPaymentRoutes sets up checkout initiation and provider webhooks.
// Webhooks authenticate by signature (Stripe) or parked reference context
// (Payrexx), not by session.
func RegisterPaymentRoutes(r *gin.Engine) {
	stripeGroup := r.Group("/api/stripe")
	{
		stripeGroup.POST("/create-checkout-session", handlers.CreateCheckoutSession)
		stripeGroup.POST("/webhook", handlers.StripeWebhook)
	}

	payrexxGroup := r.Group("/api/payrexx")
	{
		payrexxGroup.POST("/create-gateway", handlers.CreatePayrexxGateway)
		payrexxGroup.POST("/webhook", handlers.PayrexxWebhook)
	}

	adhocGroup := r.Group("/api/adhoc")
	{
		adhocGroup.POST("/initiate-session", handlers.InitiateAdhocSession)
	}
}

// RegisterAdminRoutes sets up operator endpoints for calendar management
// and the fulfillment audit trail.
func RegisterAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.POST("/bookings", handlers.BookSlot)
		adminGroup.GET("/bookings", handlers.ListBookedEvents)
		adminGroup.PATCH("/bookings/:eventID/cancel", handlers.CancelBooking)
		adminGroup.DELETE("/bookings/:eventID", handlers.DeleteBooking)
		adminGroup.GET("/fulfillments", handlers.ListFulfillments)
		adminGroup.GET("/fulfillments/:referenceID", handlers.GetFulfillment)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthCheck)
}
