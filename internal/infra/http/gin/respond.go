package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shortify/internal/app/commands"
	"shortify/internal/app/middleware"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainshorts.ErrNotFound),
		errors.Is(err, domaintags.ErrNotFound),
		errors.Is(err, domaintags.ErrNotLinked),
		errors.Is(err, domainreports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, middleware.ErrValidation),
		errors.Is(err, domainshorts.ErrEmptyAuthor),
		errors.Is(err, domainshorts.ErrEmptyCaption),
		errors.Is(err, domainshorts.ErrInvalidMediaURL),
		errors.Is(err, domaintags.ErrEmptyText),
		errors.Is(err, domainreports.ErrEmptyUser):
		return http.StatusBadRequest
	case errors.Is(err, domainreports.ErrAlreadyReported):
		return http.StatusConflict
	case errors.Is(err, uow.ErrUnitOfWorkMissing),
		errors.Is(err, commands.ErrHandlerNotFound),
		errors.Is(err, queries.ErrHandlerNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log *slog.Logger, op string, err error) {
	status := statusFor(err)
	if log != nil && status >= http.StatusInternalServerError {
		log.Error(op+" failed", "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
