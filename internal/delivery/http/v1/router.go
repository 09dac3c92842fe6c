package v1

import (
	"go-hr-tracker/config"
	"go-hr-tracker/internal/delivery/http/middleware"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/auth"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	AuthUC    domain.AuthUsecase
	VacancyUC domain.VacancyUsecase
	ResumeUC  domain.ResumeUsecase
	StatsUC   domain.StatsUsecase
	SLAUC     domain.SLAUsecase
	Tokens    *auth.TokenManager
	Redis     *goredis.Client // nil disables rate limiting
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	isProduction := os.Getenv("GIN_MODE") == "release"

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, isProduction))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimit(deps.Redis, middleware.GlobalRateLimitConfig(
		deps.Config.RateLimitGlobalThreshold, deps.Config.RateLimitWindowSeconds)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes, with a tighter limit on credential endpoints
	public := v1.Group("")
	public.Use(middleware.RateLimit(deps.Redis, middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold, deps.Config.RateLimitWindowSeconds)))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(public, protected, deps.AuthUC)
		NewVacancyHandler(protected, deps.VacancyUC)
		NewResumeHandler(protected, deps.ResumeUC, deps.StatsUC)
		NewStatsHandler(protected, deps.StatsUC)
		NewSLAHandler(protected, deps.SLAUC)
	}

	return r
}
