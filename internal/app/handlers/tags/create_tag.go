package tags

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/outbox"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

const createTagKey = "tags.create"

// CreateTagCommand attaches a tag to a short, creating the tag entity on
// first use. Re-tagging a short with the same text is a no-op, not an error.
type CreateTagCommand struct {
	ShortID string `validate:"required"`
	Text    string `validate:"required"`
	Now     time.Time
}

func (c CreateTagCommand) Key() string { return createTagKey }

type CreateTagHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *CreateTagHandler) Handle(ctx context.Context, cmd CreateTagCommand) (dto.Tag, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Tag{}, err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	shortID := domainshorts.ShortID(cmd.ShortID)
	if _, err := unit.Shorts().ByID(execCtx, shortID); err != nil {
		return dto.Tag{}, err
	}

	text := domaintags.NormalizeText(cmd.Text)
	if text == "" {
		return dto.Tag{}, domaintags.ErrEmptyText
	}

	tag, err := unit.Tags().ByText(execCtx, text)
	switch {
	case err == nil:
	case errors.Is(err, domaintags.ErrNotFound):
		tag, err = domaintags.New(domaintags.TagID(uuid.NewString()), text, now)
		if err != nil {
			return dto.Tag{}, err
		}
		if err := unit.Tags().Save(execCtx, tag); err != nil {
			return dto.Tag{}, err
		}
		if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, tag); err != nil {
			return dto.Tag{}, err
		}
	default:
		return dto.Tag{}, err
	}

	linked, err := unit.Tags().Linked(execCtx, shortID, tag.ID)
	if err != nil {
		return dto.Tag{}, err
	}
	if !linked {
		if err := unit.Tags().Link(execCtx, shortID, tag.ID); err != nil {
			return dto.Tag{}, err
		}
	}
	if err := commit(execCtx); err != nil {
		return dto.Tag{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("tag attached", "short_id", shortID, "tag", tag.Text, "already_linked", linked)
	}
	return dto.MapTag(tag), nil
}

var _ commands.Handler[CreateTagCommand, dto.Tag] = (*CreateTagHandler)(nil)
