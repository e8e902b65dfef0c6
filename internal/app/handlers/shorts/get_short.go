package shorts

import (
	"context"

	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	domainshorts "shortify/internal/domain/shorts"
)

const getShortKey = "shorts.get"

// GetShortQuery retrieves a single short by id.
type GetShortQuery struct {
	ShortID string
}

func (q GetShortQuery) Key() string { return getShortKey }

type GetShortHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetShortHandler) Handle(ctx context.Context, q GetShortQuery) (dto.Short, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Short{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	short, err := unit.Shorts().ByID(execCtx, domainshorts.ShortID(q.ShortID))
	if err != nil {
		return dto.Short{}, err
	}
	return dto.MapShort(short), nil
}

var _ queries.Handler[GetShortQuery, dto.Short] = (*GetShortHandler)(nil)
