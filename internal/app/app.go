package app

import (
	"log/slog"

	"expense-tracker/internal/config"
	"expense-tracker/internal/handlers"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/models"
	"expense-tracker/internal/repositories"
	"expense-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Application bundles the wired HTTP server with its configuration
type Application struct {
	Echo   *echo.Echo
	Config *config.Config
}

// New wires repositories, services, handlers and middleware into a ready
// Echo instance. The curated holiday calendar is seeded as part of wiring
// so insights have events to work with on a fresh database.
func New(cfg *config.Config, db *gorm.DB) *Application {
	logger := slog.Default()
	metrics := services.NewPrometheusMetrics()

	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	budgetRepo := repositories.NewBudgetRepository(db)
	holidayEventRepo := repositories.NewHolidayEventRepository(db)
	insightRepo := repositories.NewHolidayInsightRepository(db)

	passwordService := services.NewPasswordService(userRepo)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(
		userRepo,
		refreshTokenRepo,
		blacklistedTokenRepo,
		passwordService,
		tokenService,
		metrics,
		logger,
	)
	userService := services.NewUserService(userRepo, logger)
	transactionService := services.NewTransactionService(transactionRepo, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, logger)
	holidayProvider := services.NewCalendarificProvider(&cfg.Holidays, metrics, logger)
	calendarService := services.NewHolidayCalendarService(holidayEventRepo, holidayProvider, logger)
	insightService := services.NewInsightService(
		userRepo,
		transactionRepo,
		budgetRepo,
		holidayEventRepo,
		insightRepo,
		calendarService,
		&cfg.Insights,
		metrics,
		logger,
	)
	demoDataService := services.NewDemoDataService(userRepo, transactionRepo, budgetRepo, calendarService, logger)

	if seeded, err := calendarService.SeedCuratedEvents(models.DefaultCountryCode); err != nil {
		logger.Warn("Failed to seed curated holiday events", "error", err)
	} else if seeded > 0 {
		logger.Info("Seeded curated holiday events", "count", seeded)
	}

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, passwordService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	holidayHandler := handlers.NewHolidayHandler(userService, calendarService, insightService, cfg.Insights.DefaultWindowDays)
	devHandler := handlers.NewDevHandler(demoDataService)
	healthHandler := handlers.NewHealthCheckHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
	}))
	e.Use(middleware.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("", middleware.RequireAuth(tokenService, blacklistedTokenRepo))

	protected.GET("/users/me", userHandler.GetProfile)
	protected.PUT("/users/me/preferences", userHandler.UpdatePreferences)
	protected.PUT("/users/me/password", userHandler.ChangePassword)

	protected.POST("/transactions", transactionHandler.CreateTransaction)
	protected.GET("/transactions", transactionHandler.ListTransactions)
	protected.GET("/transactions/stats", transactionHandler.GetStats)
	protected.GET("/transactions/:id", transactionHandler.GetTransaction)
	protected.PUT("/transactions/:id", transactionHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", transactionHandler.DeleteTransaction)

	protected.POST("/budgets", budgetHandler.CreateBudget)
	protected.GET("/budgets", budgetHandler.ListBudgets)
	protected.GET("/budgets/:id", budgetHandler.GetBudget)
	protected.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	protected.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	protected.GET("/holidays/upcoming", holidayHandler.ListUpcomingHolidays)
	protected.GET("/holidays/insights", holidayHandler.GetHolidayInsights)

	// Demo data seeding never runs in production
	if !cfg.IsProduction() {
		protected.POST("/dev/seed", devHandler.SeedDemoData)
	}

	return &Application{
		Echo:   e,
		Config: cfg,
	}
}

// Start runs the HTTP server on the configured address
func (a *Application) Start() error {
	a.Echo.Server.ReadTimeout = a.Config.Server.ReadTimeout
	a.Echo.Server.WriteTimeout = a.Config.Server.WriteTimeout
	return a.Echo.Start(a.Config.Server.Host + ":" + a.Config.Server.Port)
}
