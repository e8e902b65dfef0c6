package dto

import (
	"time"

	"github.com/samber/lo"

	domainshorts "shortify/internal/domain/shorts"
)

// Short represents a public short payload.
type Short struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"media_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShortCollection struct {
	Items []Short `json:"items"`
	Total int     `json:"total"`
}

// MapShort builds a DTO from a domain short.
func MapShort(short *domainshorts.Short) Short {
	if short == nil {
		return Short{}
	}
	return Short{
		ID:        string(short.ID),
		AuthorID:  short.AuthorID,
		Caption:   short.Caption,
		MediaURL:  short.MediaURL,
		CreatedAt: short.CreatedAt,
		UpdatedAt: short.UpdatedAt,
	}
}

func MapShorts(items []*domainshorts.Short) ShortCollection {
	mapped := lo.Map(items, func(item *domainshorts.Short, _ int) Short {
		return MapShort(item)
	})
	return ShortCollection{Items: mapped, Total: len(mapped)}
}
