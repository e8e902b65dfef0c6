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
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
)

const submitReportKey = "reports.submit"

// SubmitReportCommand files a moderation report. At most one report exists
// per (short, user) pair; a second submission conflicts.
type SubmitReportCommand struct {
	ShortID string `validate:"required"`
	UserID  string `validate:"required"`
	Reason  string
	Now     time.Time
}

func (c SubmitReportCommand) Key() string { return submitReportKey }

type SubmitReportHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
}

func (h *SubmitReportHandler) Handle(ctx context.Context, cmd SubmitReportCommand) (dto.Report, error) {
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
	if _, err := unit.Shorts().ByID(execCtx, shortID); err != nil {
		return dto.Report{}, err
	}

	report, err := domainreports.Submit(domainreports.SubmitParams{
		ShortID: shortID,
		UserID:  cmd.UserID,
		Reason:  cmd.Reason,
		Now:     now,
	})
	if err != nil {
		return dto.Report{}, err
	}
	// uniqueness is the repository's job so concurrent submissions for the
	// same pair race safely: one wins, the other sees ErrAlreadyReported
	if err := unit.Reports().Create(execCtx, report); err != nil {
		return dto.Report{}, err
	}
	if err := outbox.Drain(execCtx, h.Outbox, h.Encoder, report); err != nil {
		return dto.Report{}, err
	}
	if err := commit(execCtx); err != nil {
		return dto.Report{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("report submitted", "short_id", shortID, "user_id", report.UserID)
	}
	return dto.MapReport(report), nil
}

var _ commands.Handler[SubmitReportCommand, dto.Report] = (*SubmitReportHandler)(nil)
