package tags

import (
	"context"
	"log/slog"
	"time"

	"shortify/internal/app/commands"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/outbox"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

const (
	deleteTagKey      = "tags.delete"
	clearShortTagsKey = "tags.short.clear"
	removeShortTagKey = "tags.short.remove"

	StatusDeleted = "deleted"
	StatusCleared = "cleared"
	StatusRemoved = "removed"
)

// DeleteTagCommand removes a tag and every link pointing at it.
type DeleteTagCommand struct {
	Text string `validate:"required"`
	Now  time.Time
}

func (c DeleteTagCommand) Key() string { return deleteTagKey }

type DeleteTagHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *DeleteTagHandler) Handle(ctx context.Context, cmd DeleteTagCommand) (string, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return "", err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tag, err := unit.Tags().ByText(execCtx, domaintags.NormalizeText(cmd.Text))
	if err != nil {
		return "", err
	}
	if err := unit.Tags().Delete(execCtx, tag.ID); err != nil {
		return "", err
	}
	tag.Record(domaintags.TagDeleted{TagID: tag.ID, Text: tag.Text, At: now})
	if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, tag); err != nil {
		return "", err
	}
	if err := commit(execCtx); err != nil {
		return "", err
	}

	if h.Logger != nil {
		h.Logger.Info("tag deleted", "tag", tag.Text)
	}
	return StatusDeleted, nil
}

// ClearShortTagsCommand detaches every tag from one short. A short with no
// tags is a no-op, not an error.
type ClearShortTagsCommand struct {
	ShortID string `validate:"required"`
	Now     time.Time
}

func (c ClearShortTagsCommand) Key() string { return clearShortTagsKey }

type ClearShortTagsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ClearShortTagsHandler) Handle(ctx context.Context, cmd ClearShortTagsCommand) (string, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return "", err
	}
	defer cleanup()

	shortID := domainshorts.ShortID(cmd.ShortID)
	if _, err := unit.Shorts().ByID(execCtx, shortID); err != nil {
		return "", err
	}
	unlinked, err := unit.Tags().UnlinkAll(execCtx, shortID)
	if err != nil {
		return "", err
	}
	if err := commit(execCtx); err != nil {
		return "", err
	}

	if h.Logger != nil {
		h.Logger.Info("short tags cleared", "short_id", shortID, "unlinked", unlinked)
	}
	return StatusCleared, nil
}

// RemoveShortTagCommand detaches a single tag from a single short.
type RemoveShortTagCommand struct {
	ShortID string `validate:"required"`
	Text    string `validate:"required"`
	Now     time.Time
}

func (c RemoveShortTagCommand) Key() string { return removeShortTagKey }

type RemoveShortTagHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *RemoveShortTagHandler) Handle(ctx context.Context, cmd RemoveShortTagCommand) (string, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return "", err
	}
	defer cleanup()

	shortID := domainshorts.ShortID(cmd.ShortID)
	tag, err := unit.Tags().ByText(execCtx, domaintags.NormalizeText(cmd.Text))
	if err != nil {
		return "", err
	}
	if err := unit.Tags().Unlink(execCtx, shortID, tag.ID); err != nil {
		return "", err
	}
	if err := commit(execCtx); err != nil {
		return "", err
	}

	if h.Logger != nil {
		h.Logger.Info("short tag removed", "short_id", shortID, "tag", tag.Text)
	}
	return StatusRemoved, nil
}

var (
	_ commands.Handler[DeleteTagCommand, string]      = (*DeleteTagHandler)(nil)
	_ commands.Handler[ClearShortTagsCommand, string] = (*ClearShortTagsHandler)(nil)
	_ commands.Handler[RemoveShortTagCommand, string] = (*RemoveShortTagHandler)(nil)
)
