package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OnlineCounter reports how many users are currently ONLINE.
type OnlineCounter interface {
	Count(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	online OnlineCounter
	log    *zap.Logger
}

// NewHealthHandler accepts a nil counter when presence tracking is disabled.
func NewHealthHandler(online OnlineCounter, log *zap.Logger) *HealthHandler {
	return &HealthHandler{online: online, log: log}
}

func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.online != nil {
		n, err := h.online.Count(c.Request.Context())
		if err != nil {
			h.log.Warn("presence count unavailable", zap.Error(err))
		} else {
			body["online"] = n
		}
	}
	c.JSON(http.StatusOK, body)
}
