package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"shortify/internal/domain/shared/events"
	"shortify/internal/domain/shorts"
)

var (
	ErrNotFound        = errors.New("reports: not found")
	ErrAlreadyReported = errors.New("reports: short already reported by user")
	ErrEmptyUser       = errors.New("reports: user is required")
)

// Report is a moderation complaint, uniquely keyed by (ShortID, UserID).
// There is no surrogate id at this boundary.
type Report struct {
	ShortID   shorts.ShortID
	UserID    string
	Reason    string
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	// ByKey returns ErrNotFound when the pair has no report.
	ByKey(ctx context.Context, shortID shorts.ShortID, userID string) (*Report, error)
	List(ctx context.Context) ([]*Report, error)
	ListByUser(ctx context.Context, userID string) ([]*Report, error)
	ListByShort(ctx context.Context, shortID shorts.ShortID) ([]*Report, error)
	// Create enforces pair uniqueness and returns ErrAlreadyReported on a
	// second report for the same (short, user).
	Create(ctx context.Context, report *Report) error
	Delete(ctx context.Context, shortID shorts.ShortID, userID string) error
	DeleteByShort(ctx context.Context, shortID shorts.ShortID) (int, error)
}

type SubmitParams struct {
	ShortID shorts.ShortID
	UserID  string
	Reason  string
	Now     time.Time
}

// Submit builds a report aggregate for the given pair.
func Submit(params SubmitParams) (*Report, error) {
	user := strings.TrimSpace(params.UserID)
	if user == "" {
		return nil, ErrEmptyUser
	}
	now := params.Now.UTC()
	report := &Report{
		ShortID:   params.ShortID,
		UserID:    user,
		Reason:    strings.TrimSpace(params.Reason),
		CreatedAt: now,
	}
	report.Record(ReportCreated{ShortID: report.ShortID, UserID: report.UserID, At: now})
	return report, nil
}

// MarkDeleted records the retraction event before the repository delete.
func (r *Report) MarkDeleted(now time.Time) {
	r.Record(ReportDeleted{ShortID: r.ShortID, UserID: r.UserID, At: now.UTC()})
}
