package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stackstep/internal/config"
	"stackstep/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	rdb *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	r := gin.Default()
	r.Use(RequestMetrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	limiter := SignupLimiter(
		rdb,
		cfg.SignupLimit.Max,
		time.Duration(cfg.SignupLimit.WindowSeconds)*time.Second,
		logger,
	)
	r.POST("/register", limiter, authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(cfg.JWT.Secret))
	{
		auth.POST("/projects", projectHandler.Generate)
		auth.GET("/projects", projectHandler.List)
		auth.GET("/projects/:id", projectHandler.Get)
		auth.DELETE("/projects/:id", projectHandler.Delete)
		auth.PATCH("/projects/:id/tasks/:taskId/status", projectHandler.UpdateTaskStatus)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
