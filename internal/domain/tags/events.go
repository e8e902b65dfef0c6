package tags

import "time"

type TagCreated struct {
	TagID TagID
	Text  string
	At    time.Time
}

func (e TagCreated) EventName() string     { return "tag.created" }
func (e TagCreated) AggregateID() string   { return string(e.TagID) }
func (e TagCreated) OccurredAt() time.Time { return e.At }

type TagRenamed struct {
	TagID   TagID
	OldText string
	NewText string
	At      time.Time
}

func (e TagRenamed) EventName() string     { return "tag.renamed" }
func (e TagRenamed) AggregateID() string   { return string(e.TagID) }
func (e TagRenamed) OccurredAt() time.Time { return e.At }

type TagDeleted struct {
	TagID TagID
	Text  string
	At    time.Time
}

func (e TagDeleted) EventName() string     { return "tag.deleted" }
func (e TagDeleted) AggregateID() string   { return string(e.TagID) }
func (e TagDeleted) OccurredAt() time.Time { return e.At }
