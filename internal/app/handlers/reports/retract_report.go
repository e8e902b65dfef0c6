package reports

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

const retractReportKey = "reports.retract"

// RetractReportCommand deletes the report identified by (short, user).
type RetractReportCommand struct {
	ShortID string `validate:"required"`
	UserID  string `validate:"required"`
	Now     time.Time
}

func (c RetractReportCommand) Key() string { return retractReportKey }

type RetractReportHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *RetractReportHandler) Handle(ctx context.Context, cmd RetractReportCommand) (dto.Report, error) {
	unit, execCtx, commit, cleanup, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Report{}, err
	}
	defer cleanup()

	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	shortID := domainshorts.ShortID(cmd.ShortID)
	report, err := unit.Reports().ByKey(execCtx, shortID, cmd.UserID)
	if err != nil {
		return dto.Report{}, err
	}
	if err := unit.Reports().Delete(execCtx, shortID, cmd.UserID); err != nil {
		return dto.Report{}, err
	}
	report.MarkDeleted(now)
	if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, report); err != nil {
		return dto.Report{}, err
	}
	if err := commit(execCtx); err != nil {
		return dto.Report{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("report retracted", "short_id", shortID, "user_id", cmd.UserID)
	}
	return dto.MapReport(report), nil
}

var _ commands.Handler[RetractReportCommand, dto.Report] = (*RetractReportHandler)(nil)
