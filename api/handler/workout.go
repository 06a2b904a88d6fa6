package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/api/transport"
	"github.com/fastygo/hunter/pkg/httpcontext"
	progressionUC "github.com/fastygo/hunter/usecase/progression"
	workoutUC "github.com/fastygo/hunter/usecase/workout"
)

type WorkoutHandler struct {
	baseHandler
	workouts    *workoutUC.UseCase
	progression *progressionUC.UseCase
}

func NewWorkoutHandler(workouts *workoutUC.UseCase, progression *progressionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		baseHandler: newBaseHandler(adapter, logger),
		workouts:    workouts,
		progression: progression,
	}
}

// @Summary List workouts
// @Tags workouts
// @Router /api/v1/workouts [get]
func (h *WorkoutHandler) GetWorkouts(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(ctx.QueryArgs().Peek("limit"), 0)
	offset := parseInt(ctx.QueryArgs().Peek("offset"), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	workouts, err := h.workouts.ListWorkouts(stdCtx, userID, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondPage(ctx, workouts, limit, offset, len(workouts))
}

// @Summary Log a finished workout
// @Tags workouts
// @Accept json
// @Router /api/v1/workouts [post]
func (h *WorkoutHandler) LogWorkout(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.WorkoutRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.invalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.progression.LogWorkout(stdCtx, userID, req.Spec())
	if err != nil {
		if result != nil {
			h.respondErrorWithData(ctx, err, result)
			return
		}
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, result)
}
