package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marina-backend/controllers"
	"marina-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	sc *controllers.SlipController,
	bc *controllers.BookingController,
	cc *controllers.CancellationController,
	vc *controllers.VerificationController,
	jwtSecret string,
	enableMetrics bool,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if enableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.RegisterCustomer)
			auth.POST("/login", ac.CustomerLogin)
			auth.POST("/owner/login", ac.OwnerLogin)
		}

		verification := api.Group("/verification")
		{
			verification.POST("/issue", vc.IssueCode)
			verification.POST("/redeem", vc.RedeemCode)
		}

		slips := api.Group("/slips")
		{
			slips.GET("", sc.GetSlips)
			slips.GET("/:id", sc.GetSlip)
			slips.POST("", middleware.RequireAuth(jwtSecret, middleware.RoleOwner), sc.CreateSlip)
			slips.DELETE("/:id", middleware.RequireAuth(jwtSecret, middleware.RoleOwner), sc.DeactivateSlip)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", middleware.RequireAuth(jwtSecret, ""), bc.GetBookings)
			bookings.GET("/:id", middleware.RequireAuth(jwtSecret, ""), bc.GetBooking)
			bookings.POST("", middleware.RequireAuth(jwtSecret, middleware.RoleCustomer), bc.CreateBooking)
			bookings.POST("/:id/confirm", middleware.RequireAuth(jwtSecret, middleware.RoleCustomer), bc.ConfirmBooking)
			bookings.POST("/:id/abandon", middleware.RequireAuth(jwtSecret, middleware.RoleCustomer), bc.AbandonBooking)
			bookings.POST("/:id/complete", middleware.RequireAuth(jwtSecret, middleware.RoleOwner), bc.CompleteBooking)
			bookings.POST("/:id/cancellation-requests", middleware.RequireAuth(jwtSecret, middleware.RoleCustomer), cc.RequestCancellation)
		}

		cancellations := api.Group("/cancellation-requests", middleware.RequireAuth(jwtSecret, middleware.RoleOwner))
		{
			cancellations.GET("", cc.ListCancellations)
			cancellations.POST("/:id/dispose", cc.DisposeCancellation)
		}
	}

	return r
}
