package http

import (
	"context"
	"time"

	"tasklist/internal/http/handlers"
	"tasklist/internal/http/middleware"
	"tasklist/internal/service"
	"tasklist/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps is everything the router needs. Redis and Hub are optional.
type Deps struct {
	Tasks   *service.TaskService
	DB      handlers.Pinger
	Redis   *redis.Client
	Hub     *ws.Hub
	Version string

	RateLimit     int
	RateWindow    time.Duration
	AllowedOrigin string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.Metrics(), middleware.CORS(d.AllowedOrigin))

	h := handlers.NewHandler(d.Tasks)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Version)
	if d.Redis != nil {
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		})
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimit := d.RateLimit
	if rateLimit <= 0 {
		rateLimit = 60
	}
	rateWindow := d.RateWindow
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}

	var ipLimit gin.HandlerFunc
	if d.Redis != nil {
		ipLimit = middleware.RedisRateLimit(d.Redis, rateLimit, rateWindow)
	} else {
		ipLimit = middleware.SimpleRateLimit(rateLimit, rateWindow)
	}
	userLimit := middleware.UserRateLimit(d.Redis, rateLimit, rateWindow)

	registerTaskRoutes(&r.RouterGroup, h, ipLimit, userLimit)
	registerTaskRoutes(r.Group("/api"), h, ipLimit, userLimit)

	// Task event feed
	if d.Hub != nil {
		r.GET("/ws", ws.Handler(d.Hub, d.AllowedOrigin))
	}
}

func registerTaskRoutes(g *gin.RouterGroup, h *handlers.Handler, ipLimit, userLimit gin.HandlerFunc) {
	tasks := g.Group("/tasks")
	tasks.Use(ipLimit, middleware.JWT(), middleware.RequestMeta())
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", userLimit, h.CreateTask)
		tasks.PATCH("/:id", userLimit, h.UpdateTask)
		tasks.PUT("/:id", userLimit, h.UpdateTask)
		tasks.DELETE("/:id", userLimit, h.DeleteTask)
	}
}
