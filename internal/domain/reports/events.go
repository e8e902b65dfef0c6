package reports

import (
	"time"

	"shortify/internal/domain/shorts"
)

type ReportCreated struct {
	ShortID shorts.ShortID
	UserID  string
	At      time.Time
}

func (e ReportCreated) EventName() string     { return "report.created" }
func (e ReportCreated) AggregateID() string   { return string(e.ShortID) }
func (e ReportCreated) OccurredAt() time.Time { return e.At }

type ReportDeleted struct {
	ShortID shorts.ShortID
	UserID  string
	At      time.Time
}

func (e ReportDeleted) EventName() string     { return "report.deleted" }
func (e ReportDeleted) AggregateID() string   { return string(e.ShortID) }
func (e ReportDeleted) OccurredAt() time.Time { return e.At }
