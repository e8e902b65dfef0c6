package shorts

import (
	"context"
	"log/slog"

	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	domaintags "shortify/internal/domain/tags"
)

const (
	listShortsKey         = "shorts.list"
	listShortsByAuthorKey = "shorts.author.list"
	listShortsByTagKey    = "shorts.tag.list"
)

// ListShortsQuery retrieves every short.
type ListShortsQuery struct{}

func (q ListShortsQuery) Key() string { return listShortsKey }

type ListShortsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListShortsHandler) Handle(ctx context.Context, q ListShortsQuery) (dto.ShortCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Shorts().List(execCtx)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("shorts listed", "count", len(items))
	}
	return dto.MapShorts(items), nil
}

// ListShortsByAuthorQuery retrieves shorts owned by one user.
type ListShortsByAuthorQuery struct {
	AuthorID string
}

func (q ListShortsByAuthorQuery) Key() string { return listShortsByAuthorKey }

type ListShortsByAuthorHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListShortsByAuthorHandler) Handle(ctx context.Context, q ListShortsByAuthorQuery) (dto.ShortCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Shorts().ListByAuthor(execCtx, q.AuthorID)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	return dto.MapShorts(items), nil
}

// ListShortsByTagQuery retrieves shorts carrying a tag. Unknown or unused
// tags yield an empty collection.
type ListShortsByTagQuery struct {
	TagID string
}

func (q ListShortsByTagQuery) Key() string { return listShortsByTagKey }

type ListShortsByTagHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListShortsByTagHandler) Handle(ctx context.Context, q ListShortsByTagQuery) (dto.ShortCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	ids, err := unit.Tags().ShortIDsByTag(execCtx, domaintags.TagID(q.TagID))
	if err != nil {
		return dto.ShortCollection{}, err
	}
	if len(ids) == 0 {
		return dto.MapShorts(nil), nil
	}
	items, err := unit.Shorts().ListByIDs(execCtx, ids)
	if err != nil {
		return dto.ShortCollection{}, err
	}
	return dto.MapShorts(items), nil
}

var (
	_ queries.Handler[ListShortsQuery, dto.ShortCollection]         = (*ListShortsHandler)(nil)
	_ queries.Handler[ListShortsByAuthorQuery, dto.ShortCollection] = (*ListShortsByAuthorHandler)(nil)
	_ queries.Handler[ListShortsByTagQuery, dto.ShortCollection]    = (*ListShortsByTagHandler)(nil)
)
