package routes

import (
	"net/http"
	"time"

	"adwuma/handlers"
	"adwuma/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Booking  *handlers.BookingHandler
	Earnings *handlers.EarningsHandler
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", middleware.JWTAuthMiddleware("admin"), hb.Booking.CreateBooking)
		api.POST("/:id/accept", middleware.JWTAuthMiddleware("provider"), hb.Booking.AcceptBooking)
		api.POST("/:id/pay", middleware.JWTAuthMiddleware("client"), hb.Booking.CapturePayment)
		api.POST("/:id/complete", middleware.JWTAuthMiddleware("provider", "admin"), hb.Booking.MarkServiceCompleted)
		api.POST("/:id/confirm", middleware.JWTAuthMiddleware("client"), hb.Booking.ConfirmByClient)
		api.POST("/:id/cancel", middleware.JWTAuthMiddleware("client", "provider", "admin"), hb.Booking.CancelBooking)
		api.POST("/:id/release", middleware.JWTAuthMiddleware("admin"), hb.Booking.ReleaseEscrow)
	}
}

// RegisterEarningsRoutes sets up the provider earnings endpoints.
func RegisterEarningsRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/providers")
	{
		api.Use(middleware.JWTAuthMiddleware("provider", "admin"))
		api.GET("/:id/earnings", hb.Earnings.GetProviderEarnings)
	}
}

// RegisterInternalRoutes sets up operator-facing endpoints such as the
// sweep trigger used by external schedulers.
func RegisterInternalRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/internal")
	{
		api.Use(middleware.JWTAuthMiddleware("admin"))
		api.POST("/sweep", hb.Booking.RunSweep)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Adwuma"})
	})
}

// RegisterRoutes wires CORS and all route groups onto the engine.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterEarningsRoutes(r, hb)
	RegisterInternalRoutes(r, hb)
}
