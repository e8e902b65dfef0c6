package reports

import (
	"context"
	"errors"

	"shortify/internal/app/dto"
	handlersupport "shortify/internal/app/handlers/support"
	"shortify/internal/app/queries"
	"shortify/internal/app/uow"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
)

const getReportKey = "reports.get"

// GetReportQuery looks up the report for a (short, user) pair. An absent
// report is a nil result, not an error: the caller probes this to decide
// whether a "report" button should render.
type GetReportQuery struct {
	ShortID string
	UserID  string
}

func (q GetReportQuery) Key() string { return getReportKey }

type GetReportHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetReportHandler) Handle(ctx context.Context, q GetReportQuery) (*dto.Report, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	report, err := unit.Reports().ByKey(execCtx, domainshorts.ShortID(q.ShortID), q.UserID)
	if err != nil {
		if errors.Is(err, domainreports.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	mapped := dto.MapReport(report)
	return &mapped, nil
}

var _ queries.Handler[GetReportQuery, *dto.Report] = (*GetReportHandler)(nil)
