package shorts

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/middleware"
	"shortify/internal/app/outbox"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
)

const createShortKey = "shorts.create"

// CreateShortCommand publishes a new short for the resolved author.
type CreateShortCommand struct {
	AuthorID        string `validate:"required"`
	Caption         string `validate:"required"`
	MediaURL        string `validate:"omitempty,url"`
	IdempotencyKeyV string
	Now             time.Time
}

func (c CreateShortCommand) Key() string { return createShortKey }

func (c CreateShortCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateShortCommand) ResultPrototype() any { return &dto.Short{} }

type CreateShortHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateShortHandler) Handle(ctx context.Context, cmd CreateShortCommand) (dto.Short, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Short{}, err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	short, err := domainshorts.New(domainshorts.CreateParams{
		ID:       domainshorts.ShortID(uuid.NewString()),
		AuthorID: cmd.AuthorID,
		Caption:  cmd.Caption,
		MediaURL: cmd.MediaURL,
		Now:      now,
	})
	if err != nil {
		return dto.Short{}, err
	}
	if err := unit.Shorts().Save(execCtx, short); err != nil {
		return dto.Short{}, err
	}
	if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, short); err != nil {
		return dto.Short{}, err
	}
	if err := commit(execCtx); err != nil {
		return dto.Short{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("short created", "short_id", short.ID, "author_id", short.AuthorID)
	}
	return dto.MapShort(short), nil
}

var (
	_ commands.Handler[CreateShortCommand, dto.Short] = (*CreateShortHandler)(nil)
	_ middleware.IdempotentCommand                    = CreateShortCommand{}
)
