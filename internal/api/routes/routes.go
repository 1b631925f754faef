package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/healthbuzzonline/post-gateway/internal/api/handlers"
	"github.com/healthbuzzonline/post-gateway/internal/config"
	"github.com/healthbuzzonline/post-gateway/internal/gateway"
	middlewares "github.com/healthbuzzonline/post-gateway/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SetupRouter registra as rotas reservadas e envia todo o resto para o
// handler de artigos
func SetupRouter(cfg *config.Config, engine *gateway.Engine, logger *zap.Logger, checks ...handlers.HealthCheck) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestTiming())
	r.Use(middlewares.RequestLogger(logger))

	healthHandler := handlers.NewHealthHandler(engine.PolicyName(), checks...)
	postHandler := handlers.NewPostHandler(engine, cfg.TrackingParams, logger)

	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)
	r.GET("/health", healthHandler.Health)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(postHandler.ServePost)

	return r
}
