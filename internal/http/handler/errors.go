package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/membership/internal/http/dto"
	"basegraph.app/membership/internal/service"
)

// writeServiceError maps a workflow error to a status code. Only the
// caller-safe message leaves the process.
func writeServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slog.ErrorContext(c.Request.Context(), "unexpected service error", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error", Code: string(service.KindInternal)})
		return
	}

	status := statusForKind(svcErr.Kind)
	code := string(svcErr.Kind)
	if errors.Is(err, service.ErrNoActivePlan) {
		code = "upgrade_required"
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
	}
	c.JSON(status, dto.ErrorResponse{Error: svcErr.Message(), Code: code})
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidSeatCount:
		return http.StatusUnprocessableEntity
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
