package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/api/transport"
	"github.com/fastygo/hunter/internal/infrastructure/monitor"
	"github.com/fastygo/hunter/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

type healthReport struct {
	Timestamp  time.Time       `json:"timestamp"`
	LastCheck  time.Time       `json:"last_check"`
	Components map[string]bool `json:"components"`
	Buffer     bufferReport    `json:"buffer"`
}

type bufferReport struct {
	Enabled bool `json:"enabled"`
	Pending int  `json:"pending"`
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	report := healthReport{
		Timestamp:  time.Now().UTC(),
		LastCheck:  status.LastCheck,
		Components: status.Components,
		Buffer:     bufferReport{Enabled: status.Buffer, Pending: status.BufferSize},
	}

	if status.Online {
		h.respondSuccess(ctx, http.StatusOK, report)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", report))
}
