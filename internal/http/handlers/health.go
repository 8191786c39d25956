package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "db_unavailable", errors.New("database unavailable"))
			return
		}
	}
	response.RespondOK(c, gin.H{"status": "ok"})
}
