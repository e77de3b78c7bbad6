package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Gaurav200247/suvichar-auth/internal/core/port"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/config"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/database"
	kafkainfra "github.com/Gaurav200247/suvichar-auth/internal/infra/kafka"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/logger"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/security"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/sms"
	"github.com/Gaurav200247/suvichar-auth/internal/infra/storage"
	postgresrepo "github.com/Gaurav200247/suvichar-auth/internal/repository/postgres"
	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/middleware"
	"github.com/Gaurav200247/suvichar-auth/internal/transport/http/routes"
	"github.com/Gaurav200247/suvichar-auth/internal/usecase"
)

// Application owns the wired service graph and the HTTP server lifecycle.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	kafka  *kafkainfra.Producer
}

// New wires configuration, infrastructure, repositories, services, and routes.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	signer, err := security.NewTokenSigner(cfg.JWT)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token signer: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	var kafkaProducer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	smsSender := sms.NewTwilioSender(cfg.Twilio, log)

	var fileStorage port.FileStorage
	if cfg.S3.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		fileStorage = s3Storage
	} else {
		log.Info("s3 bucket not configured, profile image uploads disabled")
	}

	sessionService := usecase.NewSessionService(repos.Users, repos.Tokens, signer, cfg.JWT.RenewalThreshold, eventPublisher, log)
	otpService := usecase.NewOTPService(cfg, repos.Users, repos.Passcodes, smsSender, sessionService, eventPublisher, log)
	userService := usecase.NewUserService(repos.Users, fileStorage, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Database: pool,
		Metrics:  metrics,
		Services: routes.ServiceSet{
			OTP:      otpService,
			Sessions: sessionService,
			Users:    userService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		kafka:  kafkaProducer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			if err := a.kafka.Close(); err != nil {
				a.logger.Warn("close kafka producer", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
