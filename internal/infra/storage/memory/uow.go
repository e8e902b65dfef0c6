package memory

import (
	"context"
	"errors"

	"shortify/internal/app/uow"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ShortsRepo  domainshorts.Repository
	TagsRepo    domaintags.Repository
	ReportsRepo domainreports.Repository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ShortsRepo == nil || f.TagsRepo == nil || f.ReportsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		shorts:  f.ShortsRepo,
		tags:    f.TagsRepo,
		reports: f.ReportsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	shorts  domainshorts.Repository
	tags    domaintags.Repository
	reports domainreports.Repository
}

func (u *Unit) Shorts() domainshorts.Repository {
	return u.shorts
}

func (u *Unit) Tags() domaintags.Repository {
	return u.tags
}

func (u *Unit) Reports() domainreports.Repository {
	return u.reports
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
