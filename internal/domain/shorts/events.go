package shorts

import "time"

type ShortCreated struct {
	ShortID  ShortID
	AuthorID string
	At       time.Time
}

func (e ShortCreated) EventName() string     { return "short.created" }
func (e ShortCreated) AggregateID() string   { return string(e.ShortID) }
func (e ShortCreated) OccurredAt() time.Time { return e.At }

type ShortUpdated struct {
	ShortID ShortID
	At      time.Time
}

func (e ShortUpdated) EventName() string     { return "short.updated" }
func (e ShortUpdated) AggregateID() string   { return string(e.ShortID) }
func (e ShortUpdated) OccurredAt() time.Time { return e.At }

type ShortDeleted struct {
	ShortID  ShortID
	AuthorID string
	At       time.Time
}

func (e ShortDeleted) EventName() string     { return "short.deleted" }
func (e ShortDeleted) AggregateID() string   { return string(e.ShortID) }
func (e ShortDeleted) OccurredAt() time.Time { return e.At }
