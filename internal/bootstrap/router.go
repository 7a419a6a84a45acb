package bootstrap

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	httpapi "github.com/pinmark/pinmark-backend/internal/api/http"
	"github.com/pinmark/pinmark-backend/internal/api/http/middleware"
	"github.com/pinmark/pinmark-backend/internal/auth"
	billinghttp "github.com/pinmark/pinmark-backend/internal/billing/http"
	commenthttp "github.com/pinmark/pinmark-backend/internal/comments/http"
	folderhttp "github.com/pinmark/pinmark-backend/internal/folders/http"
	"github.com/pinmark/pinmark-backend/internal/functions"
	imagehttp "github.com/pinmark/pinmark-backend/internal/images/http"
	markhttp "github.com/pinmark/pinmark-backend/internal/marks/http"
	"github.com/pinmark/pinmark-backend/internal/metrics"
	profilehttp "github.com/pinmark/pinmark-backend/internal/profiles/http"
	projecthttp "github.com/pinmark/pinmark-backend/internal/projects/http"
	"github.com/pinmark/pinmark-backend/internal/realtime"
	realtimehttp "github.com/pinmark/pinmark-backend/internal/realtime/http"
	sharehttp "github.com/pinmark/pinmark-backend/internal/shares/http"
)

const ServiceName = "pinmark-backend"

type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Services *Services
	Verifier auth.Verifier
	Hub      *realtime.Hub

	DBPing    httpapi.PingFunc
	RedisPing httpapi.PingFunc
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`.*/events$`, `.*/ws$`})))

	healthHandler := httpapi.NewHealthHandler(ServiceName, cfg.App.Version, dep.DBPing, dep.RedisPing)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	svc := dep.Services
	billinghttp.New(svc.Billing).Register(r.Group(""))

	requireUser := auth.RequireUser(dep.Verifier, svc.EnsureProfile)

	api := r.Group("/api/v1")
	api.Use(requireUser)

	profilehttp.New(svc.Profiles).Register(api)
	projecthttp.New(svc.Projects).Register(api)
	folderhttp.New(svc.Folders).Register(api)
	imagehttp.New(svc.Images).Register(api)
	commenthttp.New(svc.Comments).Register(api)
	markhttp.New(svc.Marks).Register(api)
	sharehttp.New(svc.Shares).Register(api)

	if dep.Hub != nil {
		streams := realtimehttp.SubscribeFunc(func(ctx context.Context, projectID string) (realtimehttp.Stream, error) {
			sub, err := dep.Hub.Subscribe(ctx, projectID)
			if err != nil {
				return nil, err
			}
			return sub, nil
		})
		realtimehttp.New(svc.Roles, streams, originChecker(cfg.Server.AllowedOrigins)).Register(api)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.FunctionsRPS, cfg.RateLimit.FunctionsBurst)
	fn := r.Group("/functions")
	fn.Use(requireUser, limiter.Middleware())
	functions.New(svc.Images, svc.Notifications, svc.Shares, svc.Billing).Register(fn)

	return r
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if allowsAll(origins) {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// originChecker mirrors the CORS policy for WebSocket upgrades.
func originChecker(origins []string) func(string) bool {
	if allowsAll(origins) {
		return func(string) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(origin string) bool {
		_, ok := allowed[origin]
		return ok
	}
}
