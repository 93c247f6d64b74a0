package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sophia/api/browser"
	"sophia/api/database"
	"sophia/api/ga"
	"sophia/api/handlers"
	"sophia/api/jobs"
	"sophia/api/middleware"
	"sophia/api/services"
	"sophia/api/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL")
	}
	defer dbClient.Close()

	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ClickHouse")
	}
	defer chClient.Close()
	if err := chClient.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure ClickHouse schema")
	}

	cache := database.NewRedisClient()
	if cache != nil {
		defer cache.Close()
	}

	// Stores
	userStore := store.NewUserStore(dbClient.DB)
	businessStore := store.NewBusinessStore(dbClient.DB, cache)
	metricStore := store.NewMetricStore(dbClient.DB)
	conversionStore := store.NewConversionStore(chClient)
	campaignStore := store.NewCampaignStore(dbClient.DB)
	deploymentStore := store.NewDeploymentStore(dbClient.DB)

	// Optional Google Analytics provider
	var provider services.TrackingProvider
	if credsPath := os.Getenv("GA_CREDENTIALS_FILE"); credsPath != "" {
		creds, err := os.ReadFile(credsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", credsPath).Msg("Failed to read GA credentials")
		}
		gaClient, err := ga.NewClient(context.Background(), creds, os.Getenv("GA_ACCOUNT_ID"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize GA client")
		}
		provider = gaClient
		log.Info().Msg("Google Analytics provider enabled")
	} else {
		log.Warn().Msg("GA_CREDENTIALS_FILE not set, analytics provisioning disabled")
	}

	// Optional Gemini-backed LLM; the agent falls back to the canned mock.
	var llm services.LLMClient
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := services.NewGeminiClient(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
		}
		llm = gemini
		log.Info().Msg("Gemini LLM enabled")
	}

	browserClient := browser.NewClient(browser.DefaultConfig())
	defer browserClient.Close()

	// Services
	businessService := services.NewBusinessService(businessStore, campaignStore, deploymentStore)
	analyticsService := services.NewAnalyticsService(businessStore, metricStore, conversionStore, provider)
	monitoringService := services.NewMonitoringService(browserClient)
	agentService := services.NewAgentService(businessStore, llm)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userStore)
	businessHandlers := handlers.NewBusinessHandlers(businessService)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsService)
	monitoringHandlers := handlers.NewMonitoringHandlers(businessService, monitoringService)
	agentHandlers := handlers.NewAgentHandlers(agentService)

	middleware.InitMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandlers.Register)
			auth.POST("/login", authHandlers.Login)

			authProtected := auth.Group("/")
			authProtected.Use(middleware.AuthRequired())
			{
				authProtected.POST("/refresh-token", authHandlers.RefreshToken)
				authProtected.GET("/profile", authHandlers.Profile)
				authProtected.PUT("/change-password", authHandlers.ChangePassword)
				authProtected.DELETE("/account", authHandlers.DeleteAccount)
			}
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			businesses := protected.Group("/businesses")
			{
				businesses.POST("", businessHandlers.Create)
				businesses.GET("", businessHandlers.List)
				businesses.GET("/search", businessHandlers.Search)
				businesses.GET("/statistics", businessHandlers.Statistics)
				businesses.GET("/:id", businessHandlers.Get)
				businesses.PUT("/:id", businessHandlers.Update)
				businesses.PATCH("/:id/status", businessHandlers.UpdateStatus)
				businesses.DELETE("/:id", businessHandlers.Delete)

				businesses.POST("/:id/campaigns", businessHandlers.CreateCampaign)
				businesses.GET("/:id/campaigns", businessHandlers.ListCampaigns)
				businesses.POST("/:id/deployments", businessHandlers.CreateDeployment)
				businesses.GET("/:id/deployments", businessHandlers.ListDeployments)
			}

			analytics := protected.Group("/analytics")
			{
				analytics.POST("/:businessId/setup", analyticsHandlers.SetupTracking)
				analytics.GET("/:businessId/summary", analyticsHandlers.Summary)
				analytics.GET("/:businessId/insights", analyticsHandlers.Insights)
				analytics.GET("/:businessId/compare-periods", analyticsHandlers.ComparePeriods)
				analytics.GET("/:businessId/trend/:metric", analyticsHandlers.MetricTrend)
				analytics.POST("/:businessId/track-conversion", analyticsHandlers.TrackConversion)
				analytics.GET("/:businessId/conversions", analyticsHandlers.ListConversions)
			}

			monitoring := protected.Group("/monitoring")
			{
				monitoring.POST("/:businessId/uptime", monitoringHandlers.CheckUptime)
				monitoring.POST("/:businessId/audit", monitoringHandlers.RunAudit)
				monitoring.POST("/:businessId/payment-flow", monitoringHandlers.TestPaymentFlow)
			}

			agent := protected.Group("/agent")
			{
				agent.POST("/:businessId/market-analysis", agentHandlers.AnalyzeMarket)
				agent.POST("/:businessId/business-plan", agentHandlers.GenerateBusinessPlan)
				agent.POST("/:businessId/recommendations", agentHandlers.RecommendActions)
			}
		}
	}

	scheduler := jobs.NewScheduler(businessService, monitoringService)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", port).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("API server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
