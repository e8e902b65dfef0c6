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

const deleteShortKey = "shorts.delete"

// DeleteShortCommand removes a short together with its tag links and reports.
// The cascade lives here, inside one unit of work, so a failure cannot leave
// orphaned associations behind.
type DeleteShortCommand struct {
	ShortID string `validate:"required"`
	Now     time.Time
}

func (c DeleteShortCommand) Key() string { return deleteShortKey }

type DeleteShortHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteShortHandler) Handle(ctx context.Context, cmd DeleteShortCommand) (dto.Short, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Short{}, err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id := domainshorts.ShortID(cmd.ShortID)
	short, err := unit.Shorts().ByID(execCtx, id)
	if err != nil {
		return dto.Short{}, err
	}

	unlinked, err := unit.Tags().UnlinkAll(execCtx, id)
	if err != nil {
		return dto.Short{}, err
	}
	removedReports, err := unit.Reports().DeleteByShort(execCtx, id)
	if err != nil {
		return dto.Short{}, err
	}
	if err := unit.Shorts().Delete(execCtx, id); err != nil {
		return dto.Short{}, err
	}

	short.MarkDeleted(now)
	if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, short); err != nil {
		return dto.Short{}, err
	}
	if err := commit(execCtx); err != nil {
		return dto.Short{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("short deleted", "short_id", id, "unlinked_tags", unlinked, "removed_reports", removedReports)
	}
	return dto.MapShort(short), nil
}

var _ commands.Handler[DeleteShortCommand, dto.Short] = (*DeleteShortHandler)(nil)
