package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/middleware"
	"github.com/noah-isme/jieqi-converter/internal/service"
	"github.com/noah-isme/jieqi-converter/pkg/config"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
	"github.com/noah-isme/jieqi-converter/pkg/logger"
	corsmiddleware "github.com/noah-isme/jieqi-converter/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/jieqi-converter/pkg/middleware/requestid"
	"github.com/noah-isme/jieqi-converter/pkg/response"
)

const legacyPrefix = "/api"

// RouterDeps bundles everything the HTTP layer is built from.
type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	SolarTerms *SolarTermHandler
	Conversion *ConversionHandler
	Probes     *MetricsHandler
}

// NewRouter wires middleware and routes onto a new gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", deps.Probes.Health)
	r.GET("/ready", deps.Probes.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", deps.Probes.Prometheus)
	}
	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group(cfg.APIPrefix)
	v1.GET("/solar-terms/:year", deps.SolarTerms.Get)
	v1.POST("/convert", deps.Conversion.Convert)

	if cfg.Aliases.LegacyRoutesEnabled {
		legacy := r.Group(legacyPrefix)
		legacy.GET("/solar_terms/:year", deps.SolarTerms.LegacyGet)
		legacy.POST("/convert", deps.Conversion.LegacyConvert)
	}

	return r
}
