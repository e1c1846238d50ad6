package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/moonshill-backend/internal/http/handlers"
	httpMW "github.com/yungbote/moonshill-backend/internal/http/middleware"
	"github.com/yungbote/moonshill-backend/internal/observability"
	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	CampaignHandler *httpH.CampaignHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	service := cfg.ServiceName
	if service == "" {
		service = "moonshill"
	}
	r.Use(otelgin.Middleware(service))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Campaigns
		if cfg.CampaignHandler != nil {
			api.POST("/campaigns/:id/generate", cfg.CampaignHandler.Generate)
		}
	}

	return r
}
