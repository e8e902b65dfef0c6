package shorts

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"shortify/internal/domain/shared/events"
)

var (
	ErrNotFound        = errors.New("shorts: not found")
	ErrEmptyAuthor     = errors.New("shorts: author is required")
	ErrEmptyCaption    = errors.New("shorts: caption is required")
	ErrInvalidMediaURL = errors.New("shorts: media url must be absolute")
)

type ShortID string

// Short is a short-form content post owned by a single author.
type Short struct {
	ID        ShortID
	AuthorID  string
	Caption   string
	MediaURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ShortID) (*Short, error)
	List(ctx context.Context) ([]*Short, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*Short, error)
	ListByIDs(ctx context.Context, ids []ShortID) ([]*Short, error)
	Save(ctx context.Context, short *Short) error
	Delete(ctx context.Context, id ShortID) error
}

type CreateParams struct {
	ID       ShortID
	AuthorID string
	Caption  string
	MediaURL string
	Now      time.Time
}

// New validates the payload and builds a fresh short aggregate.
func New(params CreateParams) (*Short, error) {
	author := strings.TrimSpace(params.AuthorID)
	if author == "" {
		return nil, ErrEmptyAuthor
	}
	caption := strings.TrimSpace(params.Caption)
	if caption == "" {
		return nil, ErrEmptyCaption
	}
	media := strings.TrimSpace(params.MediaURL)
	if media != "" {
		parsed, err := url.Parse(media)
		if err != nil || !parsed.IsAbs() {
			return nil, ErrInvalidMediaURL
		}
	}
	now := params.Now.UTC()
	short := &Short{
		ID:        params.ID,
		AuthorID:  author,
		Caption:   caption,
		MediaURL:  media,
		CreatedAt: now,
		UpdatedAt: now,
	}
	short.Record(ShortCreated{ShortID: short.ID, AuthorID: short.AuthorID, At: now})
	return short, nil
}

// Update replaces the mutable fields of a short.
func (s *Short) Update(caption, mediaURL string, now time.Time) error {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ErrEmptyCaption
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL != "" {
		parsed, err := url.Parse(mediaURL)
		if err != nil || !parsed.IsAbs() {
			return ErrInvalidMediaURL
		}
	}
	s.Caption = caption
	s.MediaURL = mediaURL
	s.UpdatedAt = now.UTC()
	s.Record(ShortUpdated{ShortID: s.ID, At: s.UpdatedAt})
	return nil
}

// MarkDeleted records the deletion event; removal itself is the repository's job.
func (s *Short) MarkDeleted(now time.Time) {
	s.Record(ShortDeleted{ShortID: s.ID, AuthorID: s.AuthorID, At: now.UTC()})
}
