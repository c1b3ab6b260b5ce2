package router

import (
	"mizan/config"
	"mizan/internal/handler"
	"mizan/internal/metrics"
	"mizan/internal/middleware"
	"mizan/internal/repository"
	"mizan/internal/service"
	"mizan/pkg/cache"
	"mizan/pkg/llm"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-level collaborators built by the caller.
type Deps struct {
	Log         *zap.Logger
	Metrics     *metrics.Registry
	LLM         llm.Client        // nil serves fallback advice only
	AdviceCache cache.AdviceCache // nil disables caching
}

// Setup wires the API. The returned func releases background resources
// owned by the engine and must be called once it stops serving.
func Setup(cfg *config.Config, db *gorm.DB, deps Deps) (*gin.Engine, func()) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	reg := deps.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	loc := cfg.Server.Location()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))
	limiter := middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	r.Use(middleware.RateLimit(limiter))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	actionRepo := repository.NewActionRepository(db)
	entryRepo := repository.NewDailyActionRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)

	// Services
	authSvc := service.NewAuthService(&cfg.JWT, db, userRepo, log)
	actionSvc := service.NewActionService(db, actionRepo, entryRepo)
	balanceSvc := service.NewBalanceService(db, userRepo, actionRepo, entryRepo, balanceRepo, reg, log)
	adviceSvc := service.NewAdviceService(deps.LLM, service.AdviceOptions{
		Timeout:  cfg.Advice.Timeout,
		Cache:    deps.AdviceCache,
		CacheTTL: cfg.Advice.CacheTTL,
		Observer: reg,
	}, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, log)
	actionHandler := handler.NewActionHandler(actionSvc, loc, log)
	balanceHandler := handler.NewBalanceHandler(balanceSvc, loc, log)
	adviceHandler := handler.NewAdviceHandler(balanceSvc, adviceSvc, loc, log)
	healthHandler := handler.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(&cfg.JWT))
	{
		actions := protected.Group("/actions")
		actions.GET("", actionHandler.List)
		actions.GET("/type/:type", actionHandler.ListByType)
		actions.GET("/today", actionHandler.Today)
		actions.GET("/date/:date", actionHandler.ByDate)

		balance := protected.Group("/balance")
		balance.POST("/toggle", balanceHandler.Toggle)
		balance.GET("/today", balanceHandler.Today)
		balance.GET("/date/:date", balanceHandler.ByDate)
		balance.GET("/history", balanceHandler.History)
		balance.GET("/recent", balanceHandler.Recent)

		protected.GET("/advice/today", adviceHandler.Today)
	}

	return r, limiter.Stop
}
