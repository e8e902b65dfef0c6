package tags

import (
	"context"
	"errors"
	"strings"
	"time"

	"shortify/internal/domain/shared/events"
	"shortify/internal/domain/shorts"
)

var (
	ErrNotFound  = errors.New("tags: not found")
	ErrEmptyText = errors.New("tags: text is required")
	ErrNotLinked = errors.New("tags: tag not attached to short")
)

type TagID string

// Tag is a free-text label shared across shorts (many-to-many).
type Tag struct {
	ID        TagID
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

// Repository owns both the tag entities and the short<->tag link set.
type Repository interface {
	ByID(ctx context.Context, id TagID) (*Tag, error)
	ByText(ctx context.Context, text string) (*Tag, error)
	List(ctx context.Context) ([]*Tag, error)
	ListByShort(ctx context.Context, shortID shorts.ShortID) ([]*Tag, error)
	ShortIDsByTag(ctx context.Context, id TagID) ([]shorts.ShortID, error)
	Save(ctx context.Context, tag *Tag) error
	// Delete removes the tag and every link pointing at it.
	Delete(ctx context.Context, id TagID) error

	Link(ctx context.Context, shortID shorts.ShortID, tagID TagID) error
	Unlink(ctx context.Context, shortID shorts.ShortID, tagID TagID) error
	UnlinkAll(ctx context.Context, shortID shorts.ShortID) (int, error)
	Linked(ctx context.Context, shortID shorts.ShortID, tagID TagID) (bool, error)
}

// NormalizeText canonicalizes tag text so "Funny" and " funny " collapse
// into one label.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// New builds a tag with normalized text.
func New(id TagID, text string, now time.Time) (*Tag, error) {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil, ErrEmptyText
	}
	ts := now.UTC()
	tag := &Tag{
		ID:        id,
		Text:      normalized,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	tag.Record(TagCreated{TagID: tag.ID, Text: tag.Text, At: ts})
	return tag, nil
}

// Rename changes the tag text everywhere the tag is linked.
func (t *Tag) Rename(text string, now time.Time) error {
	normalized := NormalizeText(text)
	if normalized == "" {
		return ErrEmptyText
	}
	old := t.Text
	t.Text = normalized
	t.UpdatedAt = now.UTC()
	t.Record(TagRenamed{TagID: t.ID, OldText: old, NewText: normalized, At: t.UpdatedAt})
	return nil
}
