package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/biyeshadi/matrimony-system/docs"
	"github.com/biyeshadi/matrimony-system/internal/api/handler"
	"github.com/biyeshadi/matrimony-system/internal/api/middleware"
	"github.com/biyeshadi/matrimony-system/internal/core/service"
	"github.com/biyeshadi/matrimony-system/internal/infrastructure/config"
	mongorepo "github.com/biyeshadi/matrimony-system/internal/infrastructure/db/mongo"
	redisrepo "github.com/biyeshadi/matrimony-system/internal/infrastructure/db/redis"
	"github.com/biyeshadi/matrimony-system/internal/infrastructure/imghost"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The view-stats recorder is created by main so its worker pool lifecycle is
// tied to the process, not the router.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	cfg *config.Config,
	views service.ViewStatsRecorder,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("matrimony"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	biodataRepo := mongorepo.NewBiodataRepository(db)
	membershipRepo := mongorepo.NewMembershipRepository(db)
	grantRepo := mongorepo.NewGrantRepository(db)
	shortlistRepo := mongorepo.NewShortlistRepository(db)
	viewCounter := redisrepo.NewViewCounter(rdb)
	images := imghost.NewClient(cfg.ImageHost.UploadURL, cfg.ImageHost.APIKey)

	// --- Services ---
	memberships := service.NewMembershipLedger(membershipRepo, log)
	authService := service.NewAuthService(userRepo, memberships, cfg.JWTSecret, 24*time.Hour, log)
	biodatas := service.NewBiodataService(biodataRepo, grantRepo, memberships, images, views, viewCounter, log)
	unlocks := service.NewUnlockCoordinator(biodataRepo, grantRepo, memberships, log)
	shortlists := service.NewShortlistService(shortlistRepo, biodataRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	biodataHandler := handler.NewBiodataHandler(biodatas)
	unlockHandler := handler.NewUnlockHandler(unlocks)
	membershipHandler := handler.NewMembershipHandler(memberships)
	shortlistHandler := handler.NewShortlistHandler(shortlists)

	requireAuth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Profile routes ---
	v1 := e.Group("/v1")
	v1.GET("/biodatas", biodataHandler.Browse, optionalAuth)
	v1.POST("/biodatas", biodataHandler.Create, requireAuth)
	v1.GET("/biodatas/me", biodataHandler.GetOwn, requireAuth)
	v1.PUT("/biodatas/me", biodataHandler.Update, requireAuth)
	v1.POST("/biodatas/me/photo", biodataHandler.UploadPhoto, requireAuth)
	v1.GET("/biodatas/:number", biodataHandler.Get, optionalAuth)

	// --- Entitlement routes ---
	v1.GET("/biodatas/:number/can-view", unlockHandler.CanView, optionalAuth)
	v1.POST("/biodatas/:number/unlock", unlockHandler.Unlock, requireAuth)
	v1.POST("/biodatas/:number/unlock-contact", unlockHandler.UnlockContact, requireAuth)

	// --- Membership routes ---
	v1.GET("/memberships/me", membershipHandler.GetCurrent, requireAuth)
	v1.POST("/memberships/purchase", membershipHandler.Purchase, requireAuth)

	// --- Shortlist routes ---
	v1.GET("/shortlist", shortlistHandler.List, requireAuth)
	v1.POST("/shortlist/:number", shortlistHandler.Add, requireAuth)
	v1.DELETE("/shortlist/:number", shortlistHandler.Remove, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
