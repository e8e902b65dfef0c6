package shorts

import (
	"context"
	"log/slog"
	"time"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/outbox"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
)

const updateShortKey = "shorts.update"

// UpdateShortCommand replaces the caption and media of an existing short.
type UpdateShortCommand struct {
	ShortID  string `validate:"required"`
	Caption  string `validate:"required"`
	MediaURL string `validate:"omitempty,url"`
	Now      time.Time
}

func (c UpdateShortCommand) Key() string { return updateShortKey }

type UpdateShortHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *UpdateShortHandler) Handle(ctx context.Context, cmd UpdateShortCommand) (dto.Short, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Short{}, err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	short, err := unit.Shorts().ByID(execCtx, domainshorts.ShortID(cmd.ShortID))
	if err != nil {
		return dto.Short{}, err
	}
	if err := short.Update(cmd.Caption, cmd.MediaURL, now); err != nil {
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
		h.Logger.Info("short updated", "short_id", short.ID)
	}
	return dto.MapShort(short), nil
}

var _ commands.Handler[UpdateShortCommand, dto.Short] = (*UpdateShortHandler)(nil)
