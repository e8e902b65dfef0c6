package tags

import (
	"context"
	"log/slog"

	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
)

const (
	listTagsKey        = "tags.list"
	listTagsByShortKey = "tags.short.list"
)

// ListTagsQuery retrieves every known tag.
type ListTagsQuery struct{}

func (q ListTagsQuery) Key() string { return listTagsKey }

type ListTagsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListTagsHandler) Handle(ctx context.Context, q ListTagsQuery) (dto.TagCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TagCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Tags().List(execCtx)
	if err != nil {
		return dto.TagCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("tags listed", "count", len(items))
	}
	return dto.MapTags(items), nil
}

// ListTagsByShortQuery retrieves the tags attached to one short. Unknown or
// deleted shorts yield an empty collection, which keeps the contract stable
// across a cascade delete.
type ListTagsByShortQuery struct {
	ShortID string
}

func (q ListTagsByShortQuery) Key() string { return listTagsByShortKey }

type ListTagsByShortHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListTagsByShortHandler) Handle(ctx context.Context, q ListTagsByShortQuery) (dto.TagCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TagCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Tags().ListByShort(execCtx, domainshorts.ShortID(q.ShortID))
	if err != nil {
		return dto.TagCollection{}, err
	}
	return dto.MapTags(items), nil
}

var (
	_ queries.Handler[ListTagsQuery, dto.TagCollection]        = (*ListTagsHandler)(nil)
	_ queries.Handler[ListTagsByShortQuery, dto.TagCollection] = (*ListTagsByShortHandler)(nil)
)
