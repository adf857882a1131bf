package app

import (
	"github.com/yungbote/memoquiz-backend/internal/observability"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
	"github.com/yungbote/memoquiz-backend/internal/services"
)

type Services struct {
	Generator   services.QuestionGenerator
	Selector    services.BanditSelector
	Synthesizer services.QuestionSynthesizer
	Sessions    services.SessionBuilder
	Outcomes    services.OutcomeRecorder
	History     services.QuizHistoryService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, repos Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	src := services.NewRandSource(cfg.RandomSeed)

	var generator services.QuestionGenerator
	if clients.OpenAI != nil {
		generator = services.NewLLMQuestionGenerator(log, clients.OpenAI, cfg.Distractors)
	} else {
		generator = services.NewUnavailableGenerator("OPENAI_API_KEY not configured")
	}
	selector := services.NewThompsonSelector(src)
	synth := services.NewQuestionSynthesizer(log, generator, src, cfg.GenerationTimeout, metrics)

	return Services{
		Generator:   generator,
		Selector:    selector,
		Synthesizer: synth,
		Sessions:    services.NewSessionBuilder(log, repos.QuizPool, selector, synth, repos.Memories, src, cfg.MaxSessionSize, metrics),
		Outcomes:    services.NewOutcomeRecorder(log, repos.QuizPool, metrics),
		History:     services.NewQuizHistoryService(log, repos.QuizResult, repos.MemberStats),
	}
}
