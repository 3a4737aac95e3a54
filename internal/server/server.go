package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/healthdiary/backend/config"
	"github.com/pageza/healthdiary/backend/internal/api"
	"github.com/pageza/healthdiary/backend/internal/database"
	"github.com/pageza/healthdiary/backend/internal/middleware"
	"github.com/pageza/healthdiary/backend/internal/router"
	"github.com/pageza/healthdiary/backend/internal/service"
)

// Server owns the HTTP listener and every dependency behind it.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	log    *zap.Logger
}

// Dependencies lets callers supply collaborators instead of building them
// from configuration. Nil fields are built.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Generator service.Generator
	Archiver  service.Archiver
	Clock     service.Clock
}

// New builds the dependency graph described by cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, deps Dependencies) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := deps.DB
	if db == nil {
		var err error
		db, err = database.New(cfg, log.Named("database"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	redisClient := deps.Redis
	if redisClient == nil && cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}

	generator := deps.Generator
	if generator == nil {
		var err error
		generator, err = service.NewGenerator(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generator: %w", err)
		}
	}

	archiver := deps.Archiver
	if archiver == nil {
		archiver = service.NoopArchiver{}
		if cfg.S3BucketName != "" {
			s3cfg, err := config.NewS3Config(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize S3: %w", err)
			}
			archiver = service.NewS3Archiver(s3cfg.Client, s3cfg.BucketName, log)
		}
	}

	clock := deps.Clock
	if clock == nil {
		clock = service.SystemClock
	}

	authService := service.NewAuthService(cfg.JWTSecret, clock)
	userService := service.NewUserService(db, authService, archiver, log)
	diaryService := service.NewDiaryService(db, userService, clock, log)
	recommendationService := service.NewRecommendationService(db, userService, generator, service.RecommendationOptions{
		Archiver: archiver,
		Clock:    clock,
		Timeout:  cfg.GeneratorTimeout,
	}, log)

	handlerLog := log.Named("api")
	handlers := router.Handlers{
		Auth:            api.NewAuthHandler(userService, handlerLog),
		Users:           api.NewUserHandler(userService, handlerLog),
		Diary:           api.NewDiaryHandler(diaryService, handlerLog),
		Recommendations: api.NewRecommendationHandler(recommendationService, handlerLog),
		Health:          api.NewHealthHandler(db, redisClient),
	}

	opts := router.Options{
		AuthRequired: cfg.AuthRequired,
		Tokens:       authService,
		CORSOrigins:  cfg.CORSAllowedOrigins,
	}
	if redisClient != nil && cfg.RecommendationRateLimit > 0 {
		opts.RateLimiter = middleware.NewRecommendationRateLimiter(redisClient, cfg.RecommendationRateLimit, cfg.RecommendationRateWindow, log)
	}

	engine := router.SetupRouter(handlers, opts, log)

	log.Info("server configured",
		zap.String("environment", string(cfg.Environment)),
		zap.String("generator", generator.Name()),
		zap.Bool("auth_required", cfg.AuthRequired),
		zap.Bool("rate_limited", opts.RateLimiter != nil),
		zap.Bool("archive", cfg.S3BucketName != ""))

	return &Server{
		cfg:    cfg,
		router: engine,
		db:     db,
		redis:  redisClient,
		log:    log,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes its connections.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.log.Warn("failed to close redis", zap.Error(cerr))
		}
	}
	if sqlDB, derr := s.db.DB(); derr == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			s.log.Warn("failed to close database", zap.Error(cerr))
		}
	}
	return err
}
