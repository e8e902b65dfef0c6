package support

import (
	"context"

	"shortify/internal/app/uow"
)

// BeginWriteUnit is the command-side twin of BeginReadOnlyUnit. When the
// transaction middleware already opened a unit the returned commit is a no-op;
// otherwise the handler owns the boundary and must call commit on success.
// The cleanup rolls back anything not committed.
func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(context.Context) error, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		noop := func(context.Context) error { return nil }
		return unit, ctx, noop, func() {}, nil
	}
	if factory == nil {
		return nil, ctx, nil, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, nil, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)

	committed := false
	commit := func(c context.Context) error {
		if err := unit.Commit(c); err != nil {
			return err
		}
		committed = true
		return nil
	}
	cleanup := func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}
	return unit, execCtx, commit, cleanup, nil
}
