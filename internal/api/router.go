package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/memberbase/membership-api/docs"
	"github.com/memberbase/membership-api/internal/api/handler"
	"github.com/memberbase/membership-api/internal/api/middleware"
	"github.com/memberbase/membership-api/internal/core/policy"
	"github.com/memberbase/membership-api/internal/core/service"
	mongostore "github.com/memberbase/membership-api/internal/infrastructure/db/mongo"
	redisstore "github.com/memberbase/membership-api/internal/infrastructure/db/redis"
)

// RouterConfig carries everything the router needs to assemble the service.
// The reconciler's lifecycle belongs to main; the router only hands it to the
// counter manager as a scheduler.
type RouterConfig struct {
	DB            *mongo.Database
	Redis         *redis.Client
	JWTSecret     string
	SecureCookies bool
	Reconciler    service.ReconcileScheduler
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("membership"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(cfg.DB)
	resourceRepo := mongostore.NewResourceRepository(cfg.DB)
	postRepo := mongostore.NewPostRepository(cfg.DB)
	newsRepo := mongostore.NewNewsRepository(cfg.DB)
	eventRepo := mongostore.NewEventRepository(cfg.DB)

	revocations := redisstore.NewRevocationList(cfg.Redis, service.TokenTTL)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, service.TokenTTL)
	userService := service.NewUserService(userRepo, revocations, cfg.Logger)
	resourceService := service.NewResourceService(resourceRepo, cfg.Logger)
	counters := service.NewCounterManager(postRepo, cfg.Reconciler, cfg.Logger)
	postService := service.NewPostService(postRepo, counters, cfg.Logger)
	newsService := service.NewNewsService(newsRepo)
	eventService := service.NewEventService(eventRepo)

	authHandler := handler.NewAuthHandler(authService, revocations, cfg.SecureCookies)
	userHandler := handler.NewUserHandler(userService)
	resourceHandler := handler.NewResourceHandler(resourceService)
	postHandler := handler.NewPostHandler(postService)
	newsHandler := handler.NewNewsHandler(newsService)
	eventHandler := handler.NewEventHandler(eventService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	auth := middleware.Auth(cfg.JWTSecret, revocations)
	g := e.Group("", auth)

	g.GET("/auth/me", authHandler.Me)
	g.POST("/auth/logout", authHandler.Logout)

	// Member management. The service layer re-decides with self-protection
	// and fresh target state, so no route guard here beyond authentication.
	g.GET("/users", userHandler.List)
	g.PUT("/users/:id/role", userHandler.ChangeRole)
	g.PUT("/users/:id/status", userHandler.ChangeStatus)
	g.DELETE("/users/:id", userHandler.Delete)

	// Resources. Creation, deletion and download all depend on target state
	// (type, ownership, existence), so the service decides after a fresh read.
	g.POST("/resources", resourceHandler.Create)
	g.GET("/resources", resourceHandler.List)
	g.DELETE("/resources/:id", resourceHandler.Delete)
	g.GET("/resources/:id/download", resourceHandler.Download)

	// Q&A.
	g.POST("/posts", postHandler.Create)
	g.GET("/posts", postHandler.List)
	g.GET("/posts/:id", postHandler.Get)
	g.DELETE("/posts/:id", postHandler.Delete)
	g.POST("/posts/:id/answers", postHandler.CreateAnswer)
	g.DELETE("/answers/:id", postHandler.DeleteAnswer)
	g.POST("/posts/:id/vote", postHandler.ToggleVote,
		middleware.Permit(policy.ActionVote))

	// News and events. Reads are open to any member. Creates are role-gated
	// at the route; updates and deletes leave the decision to the service so
	// a missing target reports not-found rather than denied.
	g.GET("/news", newsHandler.List)
	g.GET("/news/:id", newsHandler.Get)
	g.POST("/news", newsHandler.Create, middleware.Permit(policy.ActionManageNews))
	g.PUT("/news/:id", newsHandler.Update)
	g.DELETE("/news/:id", newsHandler.Delete)

	g.GET("/events", eventHandler.List)
	g.GET("/events/:id", eventHandler.Get)
	g.POST("/events", eventHandler.Create, middleware.Permit(policy.ActionManageEvents))
	g.PUT("/events/:id", eventHandler.Update)
	g.DELETE("/events/:id", eventHandler.Delete)

	return e
}
