// File: adwuma/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adwuma/config"
	"adwuma/cron"
	"adwuma/database"
	bookingRepo "adwuma/database/repository/booking"
	disputeRepo "adwuma/database/repository/dispute"
	identityRepo "adwuma/database/repository/identity"
	"adwuma/handlers"
	"adwuma/middleware"
	"adwuma/routes"
	"adwuma/services/booking"
	"adwuma/services/earnings"
	"adwuma/services/notification"
	"adwuma/services/payment"
	"adwuma/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}
	disputes := disputeRepo.NewMongoDisputeRepo()
	identities := identityRepo.NewMongoIdentityRepo()

	// services.
	sender, err := notification.NewFCMSender(identities)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification sender: %v", err)
	}
	dispatcher := cron.NewAsynqDispatcher(logger)

	processor := &payment.MethodRouter{
		Card:    &payment.StripeProcessor{Logger: logger},
		Offline: &payment.OfflineProcessor{Logger: logger},
	}

	snapshotCache := earnings.NewSnapshotCache(utils.GetCacheClient(), 2*time.Minute, logger)
	commissionRate := decimal.NewFromFloat(config.AppConfig.CommissionRate)
	holdPeriod := time.Duration(config.AppConfig.EscrowHoldHours) * time.Hour

	bookingService := &booking.DefaultBookingService{
		Repo:           bookings,
		Disputes:       disputes,
		Identity:       identities,
		Payments:       processor,
		Notifier:       dispatcher,
		Snapshots:      snapshotCache,
		CommissionRate: commissionRate,
		HoldPeriod:     holdPeriod,
		Logger:         logger,
	}

	earningsService := &earnings.DefaultEarningsService{
		Repo:           bookings,
		Cache:          snapshotCache,
		CommissionRate: commissionRate,
		HoldPeriod:     holdPeriod,
		Currency:       config.AppConfig.DefaultCurrency,
		Logger:         logger,
	}

	// background sweep + notification worker.
	cron.InitSweepWorker(bookingService, sender, logger)

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Earnings: handlers.NewEarningsHandler(earningsService, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
