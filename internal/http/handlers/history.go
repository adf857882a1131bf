package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memoquiz-backend/internal/http/response"
	"github.com/yungbote/memoquiz-backend/internal/services"
)

type HistoryHandler struct {
	history services.QuizHistoryService
}

func NewHistoryHandler(history services.QuizHistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type resultRequest struct {
	Score          *int `json:"score" binding:"required"`
	TotalQuestions *int `json:"total_questions" binding:"required"`
}

// POST /quiz/history
func (h *HistoryHandler) RecordResult(c *gin.Context) {
	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.history.RecordResult(c.Request.Context(), *req.Score, *req.TotalQuestions)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"result": res})
}

// GET /quiz/history?limit=N
func (h *HistoryHandler) ListResults(c *gin.Context) {
	limit, err := queryLimit(c, 50)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
		return
	}
	results, err := h.history.ListResults(c.Request.Context(), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"results": results})
}

type memberRanking struct {
	Name      string `json:"name"`
	Successes int    `json:"successes"`
	Failures  int    `json:"failures"`
	Total     int    `json:"total"`
}

// GET /quiz/members?limit=N
func (h *HistoryHandler) MemberRanking(c *gin.Context) {
	limit, err := queryLimit(c, 5)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
		return
	}
	stats, err := h.history.MemberRanking(c.Request.Context(), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out := make([]memberRanking, 0, len(stats))
	for _, st := range stats {
		out = append(out, memberRanking{
			Name:      st.Name,
			Successes: st.Successes,
			Failures:  st.Failures,
			Total:     st.Total(),
		})
	}
	response.RespondOK(c, gin.H{"members": out})
}

func queryLimit(c *gin.Context, def int) (int, error) {
	limit, err := queryInt(c, "limit", def)
	if err != nil {
		return 0, err
	}
	if limit < 0 {
		return 0, fmt.Errorf("limit must be >= 0")
	}
	return limit, nil
}
