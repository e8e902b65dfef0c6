package dto

import (
	"time"

	"github.com/samber/lo"

	domainreports "shortify/internal/domain/reports"
)

// Report represents a public moderation report payload.
type Report struct {
	ShortID   string    `json:"short_id"`
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReportCollection struct {
	Items []Report `json:"items"`
	Total int      `json:"total"`
}

func MapReport(report *domainreports.Report) Report {
	if report == nil {
		return Report{}
	}
	return Report{
		ShortID:   string(report.ShortID),
		UserID:    report.UserID,
		Reason:    report.Reason,
		CreatedAt: report.CreatedAt,
	}
}

func MapReports(items []*domainreports.Report) ReportCollection {
	mapped := lo.Map(items, func(item *domainreports.Report, _ int) Report {
		return MapReport(item)
	})
	return ReportCollection{Items: mapped, Total: len(mapped)}
}
