package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/pkg/httpcontext"
	leaderboardUC "github.com/fastygo/hunter/usecase/leaderboard"
)

type LeaderboardHandler struct {
	baseHandler
	uc *leaderboardUC.UseCase
}

func NewLeaderboardHandler(uc *leaderboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Top hunters by total XP
// @Tags leaderboard
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) Top(ctx *fasthttp.RequestCtx) {
	limit := parseInt(ctx.QueryArgs().Peek("limit"), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.Top(stdCtx, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Caller's leaderboard standing
// @Tags leaderboard
// @Router /api/v1/leaderboard/me [get]
func (h *LeaderboardHandler) Me(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry, err := h.uc.Standing(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entry)
}
