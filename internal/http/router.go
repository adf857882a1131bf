package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/memoquiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/memoquiz-backend/internal/http/middleware"
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	QuizHandler    *httpH.QuizHandler
	HistoryHandler *httpH.HistoryHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestID())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	quiz := r.Group("/quiz")
	{
		if cfg.QuizHandler != nil {
			quiz.POST("/session", cfg.QuizHandler.CreateSession)
			quiz.POST("/answer", cfg.QuizHandler.SubmitAnswer)
			quiz.GET("/pool", cfg.QuizHandler.DumpPool)
			quiz.GET("/pool/stats", cfg.QuizHandler.PoolStats)
		}

		if cfg.HistoryHandler != nil {
			quiz.POST("/history", cfg.HistoryHandler.RecordResult)
			quiz.GET("/history", cfg.HistoryHandler.ListResults)
			quiz.GET("/members", cfg.HistoryHandler.MemberRanking)
		}
	}

	return r
}
