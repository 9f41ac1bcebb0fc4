package main

// @title AgencyHub API
// @version 1.0
// @description Agency dashboard and client portal API backed by an ERPNext document store.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/luminamkt/agencyhub/config"
	"github.com/luminamkt/agencyhub/pkg/api/handlers"
	custommw "github.com/luminamkt/agencyhub/pkg/api/middleware"
	"github.com/luminamkt/agencyhub/pkg/billing"
	"github.com/luminamkt/agencyhub/pkg/clients"
	"github.com/luminamkt/agencyhub/pkg/contentgrid"
	"github.com/luminamkt/agencyhub/pkg/deliverables"
	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/leads"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	custommiddleware "github.com/luminamkt/agencyhub/pkg/middleware"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 1.0, // Capture 100% of transactions in development, adjust in production
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize local repository (Redis when configured, in-memory otherwise)
	var repo store.Repository
	if cfg.RedisURL != "" {
		redisRepo, err := store.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer redisRepo.Close()
		repo = redisRepo
		log.Printf("✅ Redis repository initialized")
	} else {
		repo = store.NewMemory()
		log.Printf("ℹ️  In-memory repository (records do not survive restarts)")
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New()
	log.Printf("✅ Prometheus metrics initialized")

	// Initialize the remote document store gateway
	var gateway *erp.Client
	if cfg.ERPConfigured() {
		gateway = erp.NewClient(cfg.ERPBaseURL, cfg.ERPAPIKey, cfg.ERPAPISecret, prometheusMetrics)
		log.Printf("✅ Remote document store gateway initialized (%s)", cfg.ERPBaseURL)
	} else {
		gateway = erp.NewClient("", "", "", prometheusMetrics)
		log.Printf("⚠️  Remote document store not configured; all records will be kept locally")
	}

	// Initialize notification relay
	var sinks []notify.Sink
	if cfg.AutomationWebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.AutomationWebhookURL))
		log.Printf("✅ Automation webhook sink enabled")
	}
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, notify.NewSlackSink(cfg.SlackWebhookURL))
		log.Printf("✅ Slack sink enabled")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		sinks = append(sinks, notify.NewTelegramSink(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Printf("✅ Telegram sink enabled")
	}
	relay := notify.NewRelay(prometheusMetrics, sinks...)

	// Initialize services
	clientService := clients.NewService(gateway, repo, relay, prometheusMetrics)
	contentService := contentgrid.NewService(gateway, repo, relay, prometheusMetrics)
	deliverableService := deliverables.NewService(gateway, repo, relay, prometheusMetrics)
	leadService := leads.NewService(gateway, repo, relay, prometheusMetrics, cfg.LeadPhoneRegion)
	billingService := billing.NewService(gateway, relay)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, prometheusMetrics)
	clientHandler := handlers.NewClientHandler(clientService)
	contentHandler := handlers.NewContentHandler(contentService)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService)
	leadHandler := handlers.NewLeadHandler(leadService)
	billingHandler := handlers.NewBillingHandler(billingService, clientService)
	portalHandler := handlers.NewPortalHandler(deliverableService)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Initialize rate limiters
	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	authRateLimiter := custommiddleware.NewRateLimiter(5, 2) // 5 req/min for login

	// Global middleware. Per-request lines are suppressed above info
	// level; LOG_FORMAT selects the line shape.
	logRequests := cfg.LogLevel == "debug" || cfg.LogLevel == "info"
	logJSON := cfg.LogFormat == "json"
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if !logRequests {
				return nil
			}
			if logJSON {
				line, err := json.Marshal(map[string]any{
					"method": c.Request().Method,
					"uri":    v.URI,
					"status": v.Status,
				})
				if err == nil {
					log.Println(string(line))
				}
				return nil
			}
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true, // Repanic after capturing to let the Recover middleware handle it
		}))
	}

	// Prometheus metrics middleware
	e.Use(prometheusMetrics.Middleware())

	// CORS with restricted origins
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))

	e.Use(middleware.Gzip())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.SecurityHeadersConfig{}))

	// Global rate limiting
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Root info endpoint (public)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "AgencyHub API",
			"version":     "0.1.0",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":           "healthy",
			"remote_store":     cfg.ERPConfigured(),
			"local_repository": "up",
		})
	})

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Auth (public, strict rate limit on login)
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login, authRateLimiter.RateLimitMiddleware())
	authGroup.GET("/me", authHandler.Me, custommw.Session(cfg.JWTSecret))

	// Dashboard routes (JWT session)
	dashboard := v1.Group("", custommw.Session(cfg.JWTSecret))

	dashboard.GET("/clients", clientHandler.List)
	dashboard.POST("/clients", clientHandler.Create)
	dashboard.GET("/clients/:id", clientHandler.Get)
	dashboard.PUT("/clients/:id", clientHandler.Update)
	dashboard.DELETE("/clients/:id", clientHandler.Delete, custommw.RequireAdmin())
	dashboard.POST("/clients/:id/resync", clientHandler.Resync, custommw.RequireAdmin())

	dashboard.GET("/clients/:id/content", contentHandler.List)
	dashboard.POST("/clients/:id/content", contentHandler.Create)
	dashboard.PUT("/clients/:id/content/:itemId", contentHandler.Update)
	dashboard.DELETE("/clients/:id/content/:itemId", contentHandler.Delete)
	dashboard.POST("/clients/:id/content/:itemId/resync", contentHandler.Resync)

	dashboard.GET("/deliverables", deliverableHandler.List)
	dashboard.POST("/deliverables", deliverableHandler.Create)
	dashboard.GET("/deliverables/:id", deliverableHandler.Get)
	dashboard.PATCH("/deliverables/:id/status", deliverableHandler.UpdateStatus)
	dashboard.DELETE("/deliverables/:id", deliverableHandler.Delete)

	dashboard.GET("/leads", leadHandler.List)
	dashboard.POST("/leads", leadHandler.Create)
	dashboard.PUT("/leads/:id", leadHandler.Update)
	dashboard.PATCH("/leads/:id/status", leadHandler.UpdateStatus)
	dashboard.DELETE("/leads/:id", leadHandler.Delete)

	dashboard.GET("/clients/:id/billing", billingHandler.Summary)
	dashboard.POST("/invoices/:id/mark-paid", billingHandler.MarkPaid)

	// Portal routes (client token)
	portal := v1.Group("/portal", custommw.PortalToken(clientService))
	portal.GET("/me", portalHandler.Me)
	portal.GET("/deliverables", portalHandler.Deliverables)
	portal.POST("/deliverables/:id/feedback", portalHandler.Feedback)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 AgencyHub API starting on %s", address)
	log.Printf("🔐 JWT expiration: %d hours", cfg.JWTExpirationHours)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d), login 5/min", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Gracefully shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
