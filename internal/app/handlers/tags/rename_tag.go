package tags

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shortify/internal/app/commands"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/outbox"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

const (
	renameTagKey      = "tags.rename"
	renameShortTagKey = "tags.short.rename"

	StatusRenamed = "renamed"
)

// RenameTagCommand renames a tag everywhere it is used. When the target text
// already belongs to another tag the two are merged: every short linked to
// the old tag moves to the existing one.
type RenameTagCommand struct {
	OldText string `validate:"required"`
	NewText string `validate:"required"`
	Now     time.Time
}

func (c RenameTagCommand) Key() string { return renameTagKey }

type RenameTagHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *RenameTagHandler) Handle(ctx context.Context, cmd RenameTagCommand) (string, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return "", err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	oldText := domaintags.NormalizeText(cmd.OldText)
	newText := domaintags.NormalizeText(cmd.NewText)
	if newText == "" {
		return "", domaintags.ErrEmptyText
	}

	tag, err := unit.Tags().ByText(execCtx, oldText)
	if err != nil {
		return "", err
	}
	if oldText == newText {
		return StatusRenamed, commit(execCtx)
	}

	target, err := unit.Tags().ByText(execCtx, newText)
	switch {
	case err == nil && target.ID != tag.ID:
		// merge into the existing tag
		shortIDs, err := unit.Tags().ShortIDsByTag(execCtx, tag.ID)
		if err != nil {
			return "", err
		}
		for _, shortID := range shortIDs {
			if err := unit.Tags().Link(execCtx, shortID, target.ID); err != nil {
				return "", err
			}
		}
		if err := unit.Tags().Delete(execCtx, tag.ID); err != nil {
			return "", err
		}
		target.Record(domaintags.TagRenamed{TagID: target.ID, OldText: oldText, NewText: newText, At: now})
		if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, target); err != nil {
			return "", err
		}
	case err == nil || errors.Is(err, domaintags.ErrNotFound):
		if err := tag.Rename(newText, now); err != nil {
			return "", err
		}
		if err := unit.Tags().Save(execCtx, tag); err != nil {
			return "", err
		}
		if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, tag); err != nil {
			return "", err
		}
	default:
		return "", err
	}

	if err := commit(execCtx); err != nil {
		return "", err
	}
	if h.Logger != nil {
		h.Logger.Info("tag renamed", "old", oldText, "new", newText)
	}
	return StatusRenamed, nil
}

// RenameShortTagCommand replaces a tag on a single short, leaving other
// shorts carrying the old tag untouched.
type RenameShortTagCommand struct {
	ShortID string `validate:"required"`
	OldText string `validate:"required"`
	NewText string `validate:"required"`
	Now     time.Time
}

func (c RenameShortTagCommand) Key() string { return renameShortTagKey }

type RenameShortTagHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *RenameShortTagHandler) Handle(ctx context.Context, cmd RenameShortTagCommand) (string, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return "", err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	shortID := domainshorts.ShortID(cmd.ShortID)
	newText := domaintags.NormalizeText(cmd.NewText)
	if newText == "" {
		return "", domaintags.ErrEmptyText
	}

	oldTag, err := unit.Tags().ByText(execCtx, domaintags.NormalizeText(cmd.OldText))
	if err != nil {
		return "", err
	}
	linked, err := unit.Tags().Linked(execCtx, shortID, oldTag.ID)
	if err != nil {
		return "", err
	}
	if !linked {
		return "", domaintags.ErrNotLinked
	}
	if err := unit.Tags().Unlink(execCtx, shortID, oldTag.ID); err != nil {
		return "", err
	}

	newTag, err := unit.Tags().ByText(execCtx, newText)
	if errors.Is(err, domaintags.ErrNotFound) {
		newTag, err = domaintags.New(domaintags.TagID(uuid.NewString()), newText, now)
		if err != nil {
			return "", err
		}
		if err := unit.Tags().Save(execCtx, newTag); err != nil {
			return "", err
		}
		if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, newTag); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}
	if err := unit.Tags().Link(execCtx, shortID, newTag.ID); err != nil {
		return "", err
	}

	if err := commit(execCtx); err != nil {
		return "", err
	}
	if h.Logger != nil {
		h.Logger.Info("short tag renamed", "short_id", shortID, "old", oldTag.Text, "new", newText)
	}
	return StatusRenamed, nil
}

var (
	_ commands.Handler[RenameTagCommand, string]      = (*RenameTagHandler)(nil)
	_ commands.Handler[RenameShortTagCommand, string] = (*RenameShortTagHandler)(nil)
)
