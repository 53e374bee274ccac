package main

import (
	"time"

	"go.uber.org/zap"

	"stackstep/internal/config"
	"stackstep/internal/handler"
	"stackstep/internal/httpserver"
	"stackstep/internal/llm"
	"stackstep/internal/mq"
	"stackstep/internal/repository"
	"stackstep/internal/service"
	"stackstep/pkg/db"
	"stackstep/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn)
	projectRepo := repository.NewProjectRepository(dbConn, log)

	// Pipeline components
	prompts := llm.NewPromptBuilder(cfg.LLM.SystemPrompt)
	llmClient := llm.NewClient(cfg.LLM, log)
	retry := llm.RetryPolicy{
		MaxAttempts: cfg.LLM.MaxAttempts,
		Delay:       time.Duration(cfg.LLM.RetryDelayMS) * time.Millisecond,
	}

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	generator := service.NewGenerator(prompts, llmClient, projectRepo, publisher, retry, log)
	projectService := service.NewProjectService(projectRepo, publisher, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	projectHandler := handler.NewProjectHandler(generator, projectService, log)

	router := httpserver.NewRouter(authHandler, projectHandler, rdb, cfg, log)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("Server start failed", zap.Error(err))
	}
}
