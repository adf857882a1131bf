package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/memoquiz-backend/internal/http/response"
	"github.com/yungbote/memoquiz-backend/internal/services"
)

type HealthHandler struct {
	pool services.QuizPool
}

func NewHealthHandler(pool services.QuizPool) *HealthHandler { return &HealthHandler{pool: pool} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz fails while the quiz pool can't be loaded.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pool == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	if _, err := h.pool.Snapshot(c.Request.Context()); err != nil {
		response.RespondError(c, http.StatusServiceUnavailable, "pool_unavailable", err)
		return
	}
	c.String(http.StatusOK, "ok")
}
