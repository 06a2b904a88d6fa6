package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/hunter/api/transport"
	"github.com/fastygo/hunter/domain"
	"github.com/fastygo/hunter/pkg/httpcontext"
	appLogger "github.com/fastygo/hunter/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondPage(ctx *fasthttp.RequestCtx, data interface{}, limit, offset, count int) {
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(data, transport.PageMeta{Limit: limit, Offset: offset, Count: count}))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	h.respondErrorWithData(ctx, err, nil)
}

// respondErrorWithData reports err and still hands back data, the state that
// was computed but could not be stored.
func (h baseHandler) respondErrorWithData(ctx *fasthttp.RequestCtx, err error, data interface{}) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		appLogger.WithRequestID(httpRequestContext(ctx), h.logger).Error("request failed",
			zap.String("path", string(ctx.Path())), zap.Error(err))
	}
	if data != nil {
		h.respondJSON(ctx, status, transport.NewPartial(code, err.Error(), data))
		return
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) invalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := httpcontext.UserID(ctx)
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
	}
	return userID
}

// httpRequestContext carries the request and user IDs for logging.
func httpRequestContext(ctx *fasthttp.RequestCtx) context.Context {
	out := appLogger.ContextWithRequestID(context.Background(), string(ctx.Response.Header.Peek("X-Request-ID")))
	return appLogger.ContextWithUserID(out, httpcontext.UserID(ctx))
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func parseInt(value []byte, fallback int) int {
	if v, err := strconv.Atoi(string(value)); err == nil {
		return v
	}
	return fallback
}
