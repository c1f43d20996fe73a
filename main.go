// File: connectify/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"

	"connectify/config"
	"connectify/cron"
	"connectify/database"
	fulfillmentRepo "connectify/database/repository/fulfillment"
	"connectify/handlers"
	"connectify/middleware"
	"connectify/routes"
	"connectify/services/booking"
	"connectify/services/fulfillment"
	"connectify/services/gcal"
	"connectify/services/notification"
	"connectify/services/payment"
	"connectify/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	stripe.Key = config.AppConfig.StripeKey

	loc, err := time.LoadLocation(config.AppConfig.TimeZone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid TIME_ZONE %q: %v", config.AppConfig.TimeZone, err)
	}
	workStart, err := booking.ParseMinutesOfDay(config.AppConfig.WorkStartTime)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid WORK_START_TIME: %v", err)
	}
	workEnd, err := booking.ParseMinutesOfDay(config.AppConfig.WorkEndTime)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid WORK_END_TIME: %v", err)
	}

	gateway, err := gcal.NewGoogleCalendarGateway(context.Background(), config.AppConfig.GcalCredentialsFile)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar gateway: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	fulfillRepo := fulfillmentRepo.NewMongoFulfillmentRepo()

	// services.
	calendarID := config.AppConfig.GcalCalendarID
	bookingService := &booking.DefaultBookingService{
		Gateway:    gateway,
		CalendarID: calendarID,
		Tiers:      config.AppConfig.PriceTiers,
		Settings: booking.AvailabilitySettings{
			Location:     loc,
			WorkStartMin: workStart,
			WorkEndMin:   workEnd,
			WorkingDays:  booking.ParseWorkingDays(config.AppConfig.WorkingDays),
			Step:         time.Duration(config.AppConfig.SlotStepMinutes) * time.Minute,
			BufferBefore: time.Duration(config.AppConfig.BufferBeforeMinutes) * time.Minute,
			BufferAfter:  time.Duration(config.AppConfig.BufferAfterMinutes) * time.Minute,
			Preparation:  time.Duration(config.AppConfig.PreparationMinutes) * time.Minute,
		},
	}

	fulfillmentService := &fulfillment.DefaultFulfillmentService{
		Booking:         bookingService,
		Finder:          gateway,
		CalendarID:      calendarID,
		Records:         fulfillRepo,
		EnqueueReminder: cron.EnqueueBookingReminder,
	}

	stripeService := payment.NewDefaultStripeService(config.AppConfig.PriceTiers)

	handlers.BookingSvc = bookingService
	handlers.FulfillmentSvc = fulfillmentService
	handlers.StripeSvc = stripeService
	handlers.PayrexxSvc = payment.NewDefaultPayrexxService()
	handlers.AdhocSvc = &payment.DefaultAdhocService{
		Gateway:    gateway,
		CalendarID: calendarID,
		Stripe:     stripeService,
	}
	handlers.FulfillmentDB = fulfillRepo

	routes.RegisterRoutes(router)

	// Reminder worker consumes the queue fulfillment feeds.
	cron.InitReminderWorker(notification.NewDefaultNotificationService())

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
