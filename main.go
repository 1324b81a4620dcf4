package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marina-backend/config"
	"marina-backend/controllers"
	"marina-backend/routes"
	"marina-backend/services"
	"marina-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("config.DB is nil after ConnectDatabase()")
	}
	log.Println("Database connection established and migrations applied")

	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)

	// Collaborators
	var notifier services.Notifier
	if os.Getenv("SMTP_HOST") != "" {
		notifier = services.NewSMTPNotifierFromEnv()
	} else {
		notifier = services.LogNotifier{}
	}
	charges := services.NewSandboxChargeAuthority()

	// Core services
	index := services.NewIntervalIndex()
	couponService := services.NewCouponService(db)
	pricingService := services.NewPricingService(cfg.ServiceFeeRate, couponService)
	bookingService := services.NewBookingService(db, index, pricingService)
	cancellationService := services.NewCancellationService(db, bookingService, cfg.RefundTiers)
	verificationService := services.NewVerificationService(
		redisClient, cfg.VerificationCodeLength, cfg.VerificationCodeTTL, utils.GenerateOTP)

	if err := bookingService.LoadIndex(); err != nil {
		log.Fatalf("Failed to load interval index: %v", err)
	}
	log.Println("Interval index loaded")

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, cfg.TokenTTL)
	slipController := controllers.NewSlipController(db)
	bookingController := controllers.NewBookingController(bookingService, charges, notifier, cfg.Currency, cfg.ChargeTimeout)
	cancellationController := controllers.NewCancellationController(cancellationService, notifier)
	verificationController := controllers.NewVerificationController(
		verificationService, notifier, cfg.JWTSecret, cfg.TokenTTL, cfg.Environment == "development")

	router := routes.SetupRouter(
		authController,
		slipController,
		bookingController,
		cancellationController,
		verificationController,
		cfg.JWTSecret,
		cfg.EnableMetrics,
	)

	// Sweep pendings whose charge never resolved so their soft locks free up.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.PendingSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				n, err := bookingService.AbandonStale(sweepCtx, cfg.PendingAbandonAfter)
				if err != nil {
					log.Printf("warning: pending sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("pending sweep abandoned %d bookings", n)
				}
			}
		}
	}()

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
