package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/healthdiary/backend/internal/api"
	"github.com/pageza/healthdiary/backend/internal/middleware"
)

// Handlers groups the API handlers the router mounts.
type Handlers struct {
	Auth            *api.AuthHandler
	Users           *api.UserHandler
	Diary           *api.DiaryHandler
	Recommendations *api.RecommendationHandler
	Health          *api.HealthHandler
}

// Options controls the optional parts of the HTTP surface.
type Options struct {
	// AuthRequired puts every per-user route behind a bearer token whose
	// subject must match the :id parameter.
	AuthRequired bool
	Tokens       middleware.TokenValidator
	// RateLimiter guards recommendation generation when non-nil.
	RateLimiter *middleware.RateLimiter
	CORSOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestLogger(log.Named("http")),
		middleware.Recovery(log),
		middleware.CORS(opts.CORSOrigins),
	)

	h.Health.RegisterRoutes(router)

	apiGroup := router.Group("/api")
	owned := apiGroup.Group("")
	if opts.AuthRequired {
		owned.Use(middleware.AuthMiddleware(opts.Tokens))
	}

	var limiter gin.HandlerFunc
	if opts.RateLimiter != nil {
		limiter = opts.RateLimiter.Middleware()
	}

	h.Auth.RegisterRoutes(apiGroup)
	h.Users.RegisterRoutes(apiGroup, owned)
	h.Diary.RegisterRoutes(owned)
	h.Recommendations.RegisterRoutes(owned, limiter)

	return router
}
