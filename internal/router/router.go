package router

import (
	"time"

	"github.com/wesglu/checkbox/internal/config"
	"github.com/wesglu/checkbox/internal/handler"
	"github.com/wesglu/checkbox/internal/middleware"
	"github.com/wesglu/checkbox/internal/repository"
	"github.com/wesglu/checkbox/internal/service"
	"github.com/wesglu/checkbox/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	checkRepo := repository.NewCheckRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	checkSvc := service.NewCheckService(checkRepo, userRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	checksH := handler.NewChecksHandler(checkSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/auth")
	{
		auth.POST("/signup", authH.Signup)
		auth.POST("/signin", middleware.SigninRateLimiter(), authH.Signin)
	}

	// Receipt rendering is public: the check id printed on the receipt is
	// itself the sharing credential.
	r.GET("/check/get-text", checksH.GetText)
	r.GET("/check/get-pdf", checksH.GetPDF)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret, userRepo)
	check := r.Group("/check", jwtMW)
	{
		check.POST("/create", checksH.Create)
		check.GET("/get-all", checksH.GetAll)
		check.GET("/get", checksH.Get)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
