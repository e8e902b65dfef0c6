package uow

import (
	"context"

	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Shorts() domainshorts.Repository
	Tags() domaintags.Repository
	Reports() domainreports.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
