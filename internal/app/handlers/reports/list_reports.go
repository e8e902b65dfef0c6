package reports

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
	listReportsKey        = "reports.list"
	listReportsByUserKey  = "reports.user.list"
	listReportsByShortKey = "reports.short.list"
)

// ListReportsQuery retrieves every open report, for moderation tooling.
type ListReportsQuery struct{}

func (q ListReportsQuery) Key() string { return listReportsKey }

type ListReportsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListReportsHandler) Handle(ctx context.Context, q ListReportsQuery) (dto.ReportCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Reports().List(execCtx)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	if h.Logger != nil {
		h.Logger.Debug("reports listed", "count", len(items))
	}
	return dto.MapReports(items), nil
}

// ListReportsByUserQuery retrieves the reports a user has filed.
type ListReportsByUserQuery struct {
	UserID string
}

func (q ListReportsByUserQuery) Key() string { return listReportsByUserKey }

type ListReportsByUserHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListReportsByUserHandler) Handle(ctx context.Context, q ListReportsByUserQuery) (dto.ReportCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Reports().ListByUser(execCtx, q.UserID)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	return dto.MapReports(items), nil
}

// ListReportsByShortQuery retrieves the reports filed against one short.
// A deleted or unknown short yields an empty collection.
type ListReportsByShortQuery struct {
	ShortID string
}

func (q ListReportsByShortQuery) Key() string { return listReportsByShortKey }

type ListReportsByShortHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListReportsByShortHandler) Handle(ctx context.Context, q ListReportsByShortQuery) (dto.ReportCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Reports().ListByShort(execCtx, domainshorts.ShortID(q.ShortID))
	if err != nil {
		return dto.ReportCollection{}, err
	}
	return dto.MapReports(items), nil
}

var (
	_ queries.Handler[ListReportsQuery, dto.ReportCollection]        = (*ListReportsHandler)(nil)
	_ queries.Handler[ListReportsByUserQuery, dto.ReportCollection]  = (*ListReportsByUserHandler)(nil)
	_ queries.Handler[ListReportsByShortQuery, dto.ReportCollection] = (*ListReportsByShortHandler)(nil)
)
