package app

import (
	"github.com/yungbote/memoquiz-backend/internal/http"
	httpH "github.com/yungbote/memoquiz-backend/internal/http/handlers"
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Quiz    *httpH.QuizHandler
	History *httpH.HistoryHandler
}

func wireHandlers(log *logger.Logger, cfg Config, repos Repos, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(repos.QuizPool),
		Quiz: httpH.NewQuizHandler(log, services.Sessions, services.Outcomes, services.History, repos.QuizPool, httpH.QuizHandlerConfig{
			DefaultSessionSize: cfg.DefaultSessionSize,
			ExplorationRate:    cfg.ExplorationRate,
			RefillAttempts:     cfg.RefillAttempts,
			PoolDiagnostics:    cfg.PoolDiagnostics,
		}),
		History: httpH.NewHistoryHandler(services.History),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		QuizHandler:    handlers.Quiz,
		HistoryHandler: handlers.History,
		HealthHandler:  handlers.Health,
	})
}
