package ginserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"shortify/internal/app/commands"
	"shortify/internal/app/queries"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
)

func TestStatusForMapsSentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(domainshorts.ErrNotFound))
	assert.Equal(t, http.StatusConflict, statusFor(domainreports.ErrAlreadyReported))
	assert.Equal(t, http.StatusBadRequest, statusFor(domainshorts.ErrInvalidMediaURL))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestStatusForUnboundHandler(t *testing.T) {
	// a key nobody registered means the composition root is incomplete,
	// reported as service unavailable rather than a generic 500
	cmdErr := fmt.Errorf("%w: shorts.create", commands.ErrHandlerNotFound)
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(cmdErr))

	qryErr := fmt.Errorf("%w: shorts.list", queries.ErrHandlerNotFound)
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(qryErr))
}
