package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/handlers"
	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/middleware"
	"github.com/Gaurav200247/suvichar-auth/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	OTP      *usecase.OTPService
	Sessions *usecase.SessionService
	Users    *usecase.UserService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Database DatabaseChecker
	Metrics  *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthHandler := handlers.NewHealthHandler(deps.Database)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.OTP, deps.Services.Sessions)
		authHandler.RegisterRoutes(api.Group("/auth"))

		userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Services.Sessions)
		userHandler.RegisterRoutes(api.Group("/user"))
	}

	handlers.RegisterSwagger(r)

	return r
}
