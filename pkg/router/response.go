package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/gin-gonic/gin"
)

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type httpRequestKey struct{}

func withHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

// HTTPRequest returns the raw request for middlewares needing headers or
// query values. It is nil outside of a router-managed call.
func HTTPRequest(ctx context.Context) *http.Request {
	r, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return r
}

func writeError(gctx *gin.Context, err error) {
	var xerr errorx.Error
	if !errors.As(err, &xerr) {
		xerr = errorx.Unknown
	}

	gctx.JSON(statusOf(xerr.Code), response{
		Code:    int(xerr.Code),
		Message: xerr.Message,
	})
}

// statusOf maps domain error codes to transport statuses at the boundary,
// keeping raw storage errors out of responses entirely.
func statusOf(code errorx.Code) int {
	switch code {
	case errorx.BadRequest, errorx.OutOfRange:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.NumberConflict,
		errorx.LateConfirmation, errorx.IntegrityViolation:
		return http.StatusConflict
	case errorx.InsufficientUnits:
		return http.StatusUnprocessableEntity
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
