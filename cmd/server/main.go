package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/config"
	"github.com/viccabs/booking-service/internal/handlers"
	"github.com/viccabs/booking-service/internal/middleware"
	"github.com/viccabs/booking-service/internal/services"
	"github.com/viccabs/booking-service/pkg/chat"
	"github.com/viccabs/booking-service/pkg/geocode"
	"github.com/viccabs/booking-service/pkg/mailer"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Victoria Cabs booking service")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Notification channels
	logger.Info("Initializing services...")
	emailSender, chatGateway := notificationChannels(cfg, logger)
	settings := services.NewNotificationSettings(cfg)

	emailDispatcher := services.NewEmailDispatcher(emailSender, settings, logger)
	chatDispatcher := services.NewChatDispatcher(chatGateway, settings, logger)

	orchestratorService := services.NewBookingOrchestratorService(
		emailDispatcher,
		chatDispatcher,
		services.BookingOrchestratorConfig{
			DispatchTimeout: cfg.Notification.Timeout,
			BusinessPhone:   cfg.Business.Phone,
		},
		logger,
	)

	// Address lookup
	sessionToken := cfg.Address.SessionToken
	if sessionToken == "" {
		sessionToken = uuid.NewString()
	}
	searchBox := geocode.NewSearchBoxClient(geocode.SearchBoxConfig{
		APIURL:       cfg.Address.APIURL,
		AccessToken:  cfg.Address.AccessToken,
		SessionToken: sessionToken,
		Country:      cfg.Address.Country,
		Proximity:    cfg.Address.Proximity,
		Types:        cfg.Address.Types,
		Limit:        cfg.Address.SuggestLimit,
		Timeout:      cfg.Address.RequestTimeout,
	})
	if cfg.Address.AccessToken == "" {
		logger.Warn("MAPBOX_ACCESS_TOKEN not set, address suggestions will be empty")
	}
	addressService := services.NewAddressService(searchBox, logger)
	confirmationService := services.NewConfirmationService()

	// Rate limiters, swept in the background
	janitorCtx, stopJanitors := context.WithCancel(context.Background())
	defer stopJanitors()

	bookingLimiter := services.NewRateLimitService("booking", services.RateLimitConfig{
		MaxRequests: cfg.RateLimit.Requests,
		Window:      time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		IdleTTL:     10 * time.Minute,
	})
	addressLimiter := services.NewRateLimitService("address", services.RateLimitConfig{
		MaxRequests: 60,
		Window:      time.Minute,
		IdleTTL:     10 * time.Minute,
	})
	bookingLimiter.StartJanitor(janitorCtx, time.Minute)
	addressLimiter.StartJanitor(janitorCtx, time.Minute)

	logger.Info("Services initialized successfully")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(orchestratorService, cfg.Business, logger)
	addressHandler := handlers.NewAddressHandler(addressService, cfg.Address.DebounceDelay, logger)
	confirmationHandler := handlers.NewConfirmationHandler(confirmationService, cfg.Business.Name)
	healthHandler := handlers.NewHealthHandler(version, cfg)

	templates, err := handlers.LoadTemplates()
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}

	// Initialize Gin router
	router := gin.New()
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if cfg.Server.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  cfg.CORS.AllowedMethods,
		AllowHeaders:  cfg.CORS.AllowedHeaders,
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", healthHandler.Health)

	// Customer pages
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/book")
	})
	router.GET("/book", bookingHandler.ShowForm)
	router.POST("/book", middleware.RateLimit(bookingLimiter, logger), bookingHandler.SubmitForm)
	router.GET("/thank-you", confirmationHandler.ShowThankYou)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", middleware.RateLimit(bookingLimiter, logger), bookingHandler.SubmitJSON)
			bookings.POST("/validate", bookingHandler.Validate)
		}

		address := v1.Group("/address")
		address.Use(middleware.RateLimit(addressLimiter, logger))
		{
			address.GET("/suggest", addressHandler.Suggest)
			address.POST("/resolve", addressHandler.Resolve)
			address.GET("/ws", addressHandler.WebSocket)
		}

		v1.GET("/confirmation", confirmationHandler.GetConfirmation)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
		// Submissions wait for both notification channels
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Notification.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopJanitors()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// notificationChannels picks real providers in production and logging stand-ins otherwise
func notificationChannels(cfg *config.Config, logger *logrus.Logger) (mailer.Sender, chat.Gateway) {
	n := cfg.Notification

	if !n.IsProduction() {
		logger.Info("📝 Notification mode: dev (messages are logged, not sent)")
		return mailer.NewLogSender(logger), chat.NewLogGateway(logger)
	}

	var sender mailer.Sender = mailer.NewLogSender(logger)
	if n.EmailConfigured() {
		sender = mailer.NewResendSender(n.ResendAPIKey)
		logger.WithField("recipients", len(n.EmailRecipients)).Info("📧 Email channel: Resend")
	} else {
		logger.Warn("Email channel not configured")
	}

	var gateway chat.Gateway = chat.NewLogGateway(logger)
	if n.ChatConfigured() {
		gateway = chat.NewWhatsAppGateway(chat.WhatsAppConfig{
			APIURL:     n.ChatAPIURL,
			InstanceID: n.ChatInstanceID,
			APIToken:   n.ChatAPIToken,
			Timeout:    n.Timeout,
		})
		logger.WithField("recipients", len(n.ChatRecipients)).Info("💬 Chat channel: WhatsApp")
	} else {
		logger.Warn("WhatsApp channel not configured")
	}

	return sender, gateway
}
