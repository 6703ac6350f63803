package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"rentwheels/internal/config"
	"rentwheels/internal/handlers"
	appmw "rentwheels/internal/middleware"
	"rentwheels/internal/services"
)

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := services.InitDB(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	var cache *services.RedisCache
	if cfg.Redis.URL != "" {
		cache, err = services.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			log.Printf("Warning: Redis unavailable, catalog cache disabled: %v", err)
			cache = nil
		}
	} else {
		log.Println("Warning: REDIS_URL not set, catalog cache disabled")
	}

	var gateway *services.PaystackService
	if cfg.Paystack.Enabled() {
		gateway = services.NewPaystackService(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL, cfg.Paystack.Currency)
	} else {
		log.Println("Warning: PAYSTACK_SECRET_KEY not set, payment features disabled")
	}

	var notifier handlers.Notifier
	if cfg.Telegram.Enabled() {
		n, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChannelID)
		if err != nil {
			log.Printf("Warning: Telegram initialization failed, notifications disabled: %v", err)
		} else {
			notifier = n
		}
	} else {
		log.Println("Warning: Telegram credentials not set, notifications disabled")
	}

	bookingService := services.NewBookingService(db, services.SettlementMode(cfg.Booking.SettlementMode), cfg.Paystack.Currency)
	catalogService := services.NewCatalogService(db, cache, cfg.Catalog.StorageBaseURL, cfg.Catalog.PlaceholderImage, cfg.Catalog.CacheTTL)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = appmw.JSONErrorHandler

	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(db, gateway, bookingService, cfg.Server.AppURL)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notifier)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	api.GET("/cars", catalogHandler.ListCars)
	api.POST("/bookings", bookingHandler.CreateBooking)
	api.GET("/bookings/:order_id", bookingHandler.GetBooking)
	api.POST("/payments/initialize", paymentHandler.InitializePayment)
	api.GET("/payments/verify", paymentHandler.VerifyPayment)
	api.POST("/payments/confirm", paymentHandler.ConfirmPayment)
	api.POST("/payments/webhook", paymentHandler.Webhook)
	api.POST("/notifications", notificationHandler.SendNotification)

	log.Printf("Server starting on port %s", cfg.Server.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
