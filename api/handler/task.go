package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/api/transport"
	"github.com/fastygo/hunter/pkg/httpcontext"
	progressionUC "github.com/fastygo/hunter/usecase/progression"
	taskUC "github.com/fastygo/hunter/usecase/task"
)

type TaskHandler struct {
	baseHandler
	tasks       *taskUC.UseCase
	progression *progressionUC.UseCase
}

func NewTaskHandler(tasks *taskUC.UseCase, progression *progressionUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		progression: progression,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(ctx.QueryArgs().Peek("limit"), 0)
	offset := parseInt(ctx.QueryArgs().Peek("offset"), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.tasks.ListTasks(stdCtx, userID, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondPage(ctx, tasks, limit, offset, len(tasks))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.invalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.tasks.CreateTask(stdCtx, userID, req.Spec(), req.Table)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.invalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.progression.ToggleTask(stdCtx, userID, id)
	if err != nil {
		if result != nil {
			h.respondErrorWithData(ctx, err, result)
			return
		}
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.invalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tasks.DeleteTask(stdCtx, userID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}
