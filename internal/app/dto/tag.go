package dto

import (
	"time"

	"github.com/samber/lo"

	domaintags "shortify/internal/domain/tags"
)

// Tag represents a public tag payload.
type Tag struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type TagCollection struct {
	Items []Tag `json:"items"`
	Total int   `json:"total"`
}

func MapTag(tag *domaintags.Tag) Tag {
	if tag == nil {
		return Tag{}
	}
	return Tag{
		ID:        string(tag.ID),
		Text:      tag.Text,
		CreatedAt: tag.CreatedAt,
	}
}

func MapTags(items []*domaintags.Tag) TagCollection {
	mapped := lo.Map(items, func(item *domaintags.Tag, _ int) Tag {
		return MapTag(item)
	})
	return TagCollection{Items: mapped, Total: len(mapped)}
}
