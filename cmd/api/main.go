package main

import (
	"context"
	"go-hr-tracker/config"
	v1 "go-hr-tracker/internal/delivery/http/v1"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/internal/repository/postgres"
	"go-hr-tracker/internal/usecase"
	"go-hr-tracker/pkg/auth"
	"go-hr-tracker/pkg/database"
	"go-hr-tracker/pkg/logger"
	"go-hr-tracker/pkg/redis"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting hr tracker backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, disables rate limiting when absent)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.New(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	vacancyRepo := postgres.NewVacancyRepository(dbPool)
	resumeRepo := postgres.NewResumeRepository(dbPool)
	slaRepo := postgres.NewSLARepository(dbPool)
	statsRepo := postgres.NewStatsRepository(dbPool)

	// 6. Setup UseCases
	validate := validator.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	policy := domain.AccessPolicy{TeamLeadWritesAll: cfg.TeamLeadWritesAll}

	authUC := usecase.NewAuthUsecase(userRepo, tokens)
	vacancyUC := usecase.NewVacancyUsecase(vacancyRepo, policy)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, vacancyRepo, policy, validate)
	statsUC := usecase.NewStatsUsecase(statsRepo, resumeRepo, policy)
	slaUC := usecase.NewSLAUsecase(slaRepo, policy)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:    authUC,
		VacancyUC: vacancyUC,
		ResumeUC:  resumeUC,
		StatsUC:   statsUC,
		SLAUC:     slaUC,
		Tokens:    tokens,
		Redis:     redisClient,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
