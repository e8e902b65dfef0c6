package uow

import (
	"context"
	"errors"
)

// ErrUnitOfWorkMissing is returned when a handler expects a transactional
// unit in context but the command bypassed the Transaction middleware.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork binds a unit to the dispatch context. The
// Transaction middleware calls this once per command; handler helpers
// read it back so repository access stays inside the same unit.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext returns the unit bound by ContextWithUnitOfWork, if any.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}
