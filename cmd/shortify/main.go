package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortify/internal/app/commands"
	reportsapp "shortify/internal/app/handlers/reports"
	shortsapp "shortify/internal/app/handlers/shorts"
	tagsapp "shortify/internal/app/handlers/tags"
	"shortify/internal/app/middleware"
	"shortify/internal/app/outbox"
	"shortify/internal/app/projection"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	kafkabroker "shortify/internal/infra/broker/kafka"
	"shortify/internal/infra/config"
	mongodb "shortify/internal/infra/db/mongo"
	ginserver "shortify/internal/infra/http/gin"
	"shortify/internal/infra/obs"
	infraoutbox "shortify/internal/infra/outbox"
	"shortify/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	deps, err := buildDependencies(cfg, logger)
	if err != nil {
		logger.Error("dependency wiring failed", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(deps, logger)
	if err != nil {
		logger.Error("handler registration failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: deps.ready(ctx),
	}, app.handlers)

	if deps.outboxWorker != nil {
		go func() {
			if err := deps.outboxWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if deps.projectionConsumer != nil {
		go func() {
			topic := cfg.KafkaTopicPrefix + "report.events.v1"
			if err := deps.projectionConsumer.Run(ctx, []string{topic}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("projection consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", deps.storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type dependencies struct {
	storage    string
	uowFactory uow.UoWFactory
	outboxBox  outbox.Outbox
	idStore    middleware.IdempotencyStore
	mongo      *mongodb.Client

	outboxWorker       *infraoutbox.Worker
	projectionConsumer *kafkabroker.Consumer
	reportVolume       *projection.ReportVolume
}

func (d dependencies) ready(ctx context.Context) func() error {
	if d.mongo == nil {
		return func() error { return nil }
	}
	return func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return d.mongo.Ping(pingCtx)
	}
}

func buildDependencies(cfg config.Config, logger *slog.Logger) (dependencies, error) {
	deps := dependencies{storage: "memory"}

	if cfg.MongoEnabled() {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return dependencies{}, err
		}
		deps.storage = "mongo"
		deps.mongo = client
		deps.uowFactory = mongodb.Factory{
			DB:          client.DB,
			ShortsRepo:  mongodb.NewShortRepository(client.DB),
			TagsRepo:    mongodb.NewTagRepository(client.DB),
			ReportsRepo: mongodb.NewReportRepository(client.DB),
		}
		deps.idStore = mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		store := infraoutbox.NewStore(client.DB)
		deps.outboxBox = store

		if cfg.KafkaEnabled() {
			producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
			if err != nil {
				return dependencies{}, err
			}
			deps.outboxWorker = &infraoutbox.Worker{
				Store:       store,
				Producer:    producer,
				Interval:    cfg.OutboxPollInterval,
				TopicPrefix: cfg.KafkaTopicPrefix,
				Backoff:     cfg.RetryBackoff,
			}
			deps.reportVolume = projection.NewReportVolume()
			consumer, err := kafkabroker.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, nil, kafkabroker.ReportFeed{Volume: deps.reportVolume}, logger)
			if err != nil {
				return dependencies{}, err
			}
			deps.projectionConsumer = consumer
		}
		return deps, nil
	}

	if cfg.KafkaEnabled() {
		logger.Warn("kafka configured without mongo, event publishing disabled")
	}
	deps.uowFactory = memory.Factory{
		ShortsRepo:  memory.NewShortRepository(),
		TagsRepo:    memory.NewTagRepository(),
		ReportsRepo: memory.NewReportRepository(),
	}
	deps.outboxBox = memory.NewOutbox()
	deps.idStore = memory.NewIdempotencyStore()
	return deps, nil
}

type application struct {
	handlers ginserver.Handlers
}

func buildApplication(deps dependencies, logger *slog.Logger) (application, error) {
	encoder := outbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	if err := errors.Join(
		commands.RegisterHandler(commandBus, shortsapp.CreateShortCommand{}.Key(), &shortsapp.CreateShortHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, shortsapp.UpdateShortCommand{}.Key(), &shortsapp.UpdateShortHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, shortsapp.DeleteShortCommand{}.Key(), &shortsapp.DeleteShortHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.CreateTagCommand{}.Key(), &tagsapp.CreateTagHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.RenameTagCommand{}.Key(), &tagsapp.RenameTagHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.RenameShortTagCommand{}.Key(), &tagsapp.RenameShortTagHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.DeleteTagCommand{}.Key(), &tagsapp.DeleteTagHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.ClearShortTagsCommand{}.Key(), &tagsapp.ClearShortTagsHandler{
			UoWFactory: deps.uowFactory, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, tagsapp.RemoveShortTagCommand{}.Key(), &tagsapp.RemoveShortTagHandler{
			UoWFactory: deps.uowFactory, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, reportsapp.SubmitReportCommand{}.Key(), &reportsapp.SubmitReportHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
		commands.RegisterHandler(commandBus, reportsapp.RetractReportCommand{}.Key(), &reportsapp.RetractReportHandler{
			UoWFactory: deps.uowFactory, Outbox: deps.outboxBox, Encoder: encoder, Logger: logger,
		}),
	); err != nil {
		return application{}, err
	}

	queryBus := queries.NewInMemoryBus()
	if err := errors.Join(
		queries.RegisterHandler(queryBus, shortsapp.ListShortsQuery{}.Key(), &shortsapp.ListShortsHandler{UoWFactory: deps.uowFactory, Logger: logger}),
		queries.RegisterHandler(queryBus, shortsapp.ListShortsByAuthorQuery{}.Key(), &shortsapp.ListShortsByAuthorHandler{UoWFactory: deps.uowFactory, Logger: logger}),
		queries.RegisterHandler(queryBus, shortsapp.ListShortsByTagQuery{}.Key(), &shortsapp.ListShortsByTagHandler{UoWFactory: deps.uowFactory, Logger: logger}),
		queries.RegisterHandler(queryBus, shortsapp.GetShortQuery{}.Key(), &shortsapp.GetShortHandler{UoWFactory: deps.uowFactory}),
		queries.RegisterHandler(queryBus, tagsapp.ListTagsQuery{}.Key(), &tagsapp.ListTagsHandler{UoWFactory: deps.uowFactory, Logger: logger}),
		queries.RegisterHandler(queryBus, tagsapp.ListTagsByShortQuery{}.Key(), &tagsapp.ListTagsByShortHandler{UoWFactory: deps.uowFactory}),
		queries.RegisterHandler(queryBus, reportsapp.ListReportsQuery{}.Key(), &reportsapp.ListReportsHandler{UoWFactory: deps.uowFactory, Logger: logger}),
		queries.RegisterHandler(queryBus, reportsapp.ListReportsByUserQuery{}.Key(), &reportsapp.ListReportsByUserHandler{UoWFactory: deps.uowFactory}),
		queries.RegisterHandler(queryBus, reportsapp.ListReportsByShortQuery{}.Key(), &reportsapp.ListReportsByShortHandler{UoWFactory: deps.uowFactory}),
		queries.RegisterHandler(queryBus, reportsapp.GetReportQuery{}.Key(), &reportsapp.GetReportHandler{UoWFactory: deps.uowFactory}),
	); err != nil {
		return application{}, err
	}

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.NewStructValidator()),
		middleware.Idempotency(deps.idStore, nil),
		middleware.Transaction(deps.uowFactory, nil),
		middleware.OutboxFlush(deps.outboxBox),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	return application{
		handlers: ginserver.Handlers{
			Shorts: ginserver.ShortHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Tags: ginserver.TagHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Reports: ginserver.ReportHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Volume:   deps.reportVolume,
				Logger:   logger,
			},
			Identity: ginserver.IdentityMiddleware{}.Handle,
		},
	}, nil
}
