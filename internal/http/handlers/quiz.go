package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memoquiz-backend/internal/http/response"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
	"github.com/yungbote/memoquiz-backend/internal/services"
)

type QuizHandlerConfig struct {
	DefaultSessionSize int
	ExplorationRate    float64
	RefillAttempts     int
	PoolDiagnostics    bool
}

type QuizHandler struct {
	log      *logger.Logger
	sessions services.SessionBuilder
	outcomes services.OutcomeRecorder
	history  services.QuizHistoryService
	pool     services.QuizPool
	cfg      QuizHandlerConfig
}

func NewQuizHandler(
	log *logger.Logger,
	sessions services.SessionBuilder,
	outcomes services.OutcomeRecorder,
	history services.QuizHistoryService,
	pool services.QuizPool,
	cfg QuizHandlerConfig,
) *QuizHandler {
	return &QuizHandler{
		log:      log.With("handler", "QuizHandler"),
		sessions: sessions,
		outcomes: outcomes,
		history:  history,
		pool:     pool,
		cfg:      cfg,
	}
}

type sessionResponse struct {
	Questions []services.QuestionPayload `json:"questions"`
	Requested int                        `json:"requested"`
	Degraded  bool                       `json:"degraded"`
	Failures  []services.SlotFailure     `json:"failures"`
}

// POST /quiz/session?count=N&epsilon=E
func (h *QuizHandler) CreateSession(c *gin.Context) {
	count, err := queryInt(c, "count", h.cfg.DefaultSessionSize)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_count", err)
		return
	}
	epsilon, err := queryFloat(c, "epsilon", h.cfg.ExplorationRate)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_epsilon", err)
		return
	}
	sess, err := h.sessions.BuildSession(c.Request.Context(), services.SessionOptions{
		Count:           count,
		ExplorationRate: epsilon,
		RefillAttempts:  h.cfg.RefillAttempts,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	failures := sess.Failures
	if failures == nil {
		failures = []services.SlotFailure{}
	}
	response.RespondOK(c, sessionResponse{
		Questions: services.NewQuestionPayloads(sess.Items, nil),
		Requested: sess.Requested,
		Degraded:  sess.Degraded,
		Failures:  failures,
	})
}

type answerRequest struct {
	QuestionID string  `json:"question_id"`
	Answer     *string `json:"answer"`
	Correct    *bool   `json:"correct"`
	Member     string  `json:"member"`
}

// POST /quiz/answer
func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("question_id required"))
		return
	}

	var (
		out *services.Outcome
		err error
	)
	switch {
	case req.Answer != nil:
		out, err = h.outcomes.RecordAnswer(c.Request.Context(), req.QuestionID, *req.Answer)
	case req.Correct != nil:
		out, err = h.outcomes.RecordOutcome(c.Request.Context(), req.QuestionID, *req.Correct)
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("answer or correct required"))
		return
	}
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	if member := strings.TrimSpace(req.Member); member != "" && h.history != nil {
		// The outcome is already durable; a stats failure must not fail the answer.
		if err := h.history.RecordMemberAnswer(c.Request.Context(), member, out.Correct); err != nil {
			h.log.Warn("Member stat update failed", "member", member, "error", err)
		}
	}

	response.RespondOK(c, gin.H{
		"status":         "ok",
		"correct":        out.Correct,
		"correct_answer": out.Item.CorrectAnswer,
	})
}

// GET /quiz/pool
func (h *QuizHandler) DumpPool(c *gin.Context) {
	if !h.cfg.PoolDiagnostics {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("pool diagnostics disabled"))
		return
	}
	snap, err := h.pool.Snapshot(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, snap)
}

// GET /quiz/pool/stats
func (h *QuizHandler) PoolStats(c *gin.Context) {
	snap, err := h.pool.Snapshot(c.Request.Context())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, snap.Stats())
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func queryFloat(c *gin.Context, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

