package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shortify/internal/app/uow"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ShortsRepo  domainshorts.Repository
	TagsRepo    domaintags.Repository
	ReportsRepo domainreports.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:      f.DB,
		session: session,
		shorts:  f.ShortsRepo,
		tags:    f.TagsRepo,
		reports: f.ReportsRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
