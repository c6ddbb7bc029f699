package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nantkhun/fintracker/internal/config"
	"github.com/nantkhun/fintracker/internal/http/handlers"
	"github.com/nantkhun/fintracker/internal/http/middlewares"
	"github.com/nantkhun/fintracker/internal/observability"
)

// Deps carries everything the router wires together. Prom and Metrics
// are optional so tests can run without a shared registry.
type Deps struct {
	Log          *slog.Logger
	Auth         *handlers.AuthHandler
	Categories   *handlers.CategoriesHandler
	Transactions *handlers.TransactionsHandler
	Balance      *handlers.BalanceHandler
	JWT          middlewares.TokenVerifier
	Prom         *observability.Prom
	Metrics      http.Handler
	Ready        func(context.Context) error
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("fintracker"))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(deps.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	window := time.Minute
	publicLimiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, window)
	authedLimiter := middlewares.NewRateLimiter(cfg.RateLimitPerMinute, window)
	authMW := middlewares.NewAuthMiddleware(deps.JWT)

	api := r.Group("/api")

	users := api.Group("/users")
	users.Use(publicLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	users.POST("/register", deps.Auth.Register)
	users.POST("/login", deps.Auth.Login)

	authed := api.Group("")
	authed.Use(authMW.RequireAuth())
	authed.Use(authedLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	authed.GET("/users/me", deps.Auth.Me)

	authed.GET("/transactions", deps.Transactions.List)
	authed.POST("/transactions", deps.Transactions.Create)
	authed.PUT("/transactions/:id", deps.Transactions.Update)
	authed.DELETE("/transactions/:id", deps.Transactions.Delete)

	authed.GET("/categories", deps.Categories.List)
	authed.GET("/categories/summary", deps.Categories.Summary)
	authed.POST("/categories", deps.Categories.Create)
	authed.PUT("/categories/:id", deps.Categories.Update)
	authed.DELETE("/categories/:id", deps.Categories.Delete)

	authed.GET("/balance", deps.Balance.Get)

	return r
}
