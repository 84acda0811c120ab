package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	agendaRepo "slotwise/database/repository/agenda"
	bookingRepoPkg "slotwise/database/repository/booking"
	credentialRepo "slotwise/database/repository/credential"
	customerRepoPkg "slotwise/database/repository/customer"
	hostconfigRepoPkg "slotwise/database/repository/hostconfig"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/availability"
	"slotwise/services/booking"
	"slotwise/services/calendar"
	"slotwise/services/notification"
	"slotwise/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	hostConfigRepo := hostconfigRepoPkg.NewMongoHostConfigRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	customerRepo := customerRepoPkg.NewMongoCustomerRepo()
	agendaRepository := agendaRepo.NewMongoAgendaRepo()
	credentialStore := credentialRepo.NewMongoCredentialStore()

	// services.
	calendarAdapter := calendar.NewGoogleCalendarAdapter(credentialStore)
	notificationService := notification.NewSMTPNotificationService()

	availabilityService := &availability.Service{
		ConfigRepo:  hostConfigRepo,
		BookingRepo: bookingRepo,
		Calendar:    calendarAdapter,
		Cache:       utils.GetCacheClient(),
		CacheTTL:    time.Duration(config.AppConfig.AvailabilityCacheTTL) * time.Second,
	}

	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer reminderClient.Close()

	bookingEngine := &booking.DefaultBookingEngine{
		ConfigRepo:   hostConfigRepo,
		BookingRepo:  bookingRepo,
		CustomerRepo: customerRepo,
		AgendaRepo:   agendaRepository,
		Calendar:     calendarAdapter,
		Notifier:     notificationService,
		Availability: availabilityService,
		Reminders:    reminderClient,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadMin) * time.Minute,
	}

	// Reminder worker consumes the scheduled tasks.
	cron.InitReminderWorker(notificationService, bookingRepo)

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingEngine, logger)
	hostConfigHandler := handlers.NewHostConfigHandler(hostConfigRepo)

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler, hostConfigHandler)

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
