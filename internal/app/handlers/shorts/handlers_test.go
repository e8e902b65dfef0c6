package shorts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortify/internal/app/outbox"
	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
	"shortify/internal/infra/storage/memory"
)

type fixture struct {
	factory memory.Factory
	outbox  *memory.Outbox
	now     time.Time
}

func newFixture() fixture {
	return fixture{
		factory: memory.Factory{
			ShortsRepo:  memory.NewShortRepository(),
			TagsRepo:    memory.NewTagRepository(),
			ReportsRepo: memory.NewReportRepository(),
		},
		outbox: memory.NewOutbox(),
		now:    time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (f fixture) createShort(t *testing.T, author, caption string) string {
	t.Helper()
	handler := &CreateShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	short, err := handler.Handle(context.Background(), CreateShortCommand{
		AuthorID: author,
		Caption:  caption,
		Now:      f.now,
	})
	require.NoError(t, err)
	return short.ID
}

func TestCreateShortThenGet(t *testing.T) {
	f := newFixture()
	handler := &CreateShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}

	created, err := handler.Handle(context.Background(), CreateShortCommand{
		AuthorID: "alice",
		Caption:  "first clip",
		MediaURL: "https://cdn.example.com/v/1.mp4",
		Now:      f.now,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.AuthorID)
	assert.Equal(t, "first clip", created.Caption)

	get := &GetShortHandler{UoWFactory: f.factory}
	fetched, err := get.Handle(context.Background(), GetShortQuery{ShortID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	records := f.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "short.created", records[0].Name)
	assert.Equal(t, created.ID, records[0].Aggregate)
}

func TestCreateShortRejectsRelativeMediaURL(t *testing.T) {
	f := newFixture()
	handler := &CreateShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}

	_, err := handler.Handle(context.Background(), CreateShortCommand{
		AuthorID: "alice",
		Caption:  "clip",
		MediaURL: "v/1.mp4",
		Now:      f.now,
	})
	assert.ErrorIs(t, err, domainshorts.ErrInvalidMediaURL)
}

func TestUpdateShort(t *testing.T) {
	f := newFixture()
	id := f.createShort(t, "alice", "before")

	handler := &UpdateShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	updated, err := handler.Handle(context.Background(), UpdateShortCommand{
		ShortID: id,
		Caption: "after",
		Now:     f.now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Caption)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestUpdateShortNotFound(t *testing.T) {
	f := newFixture()

	handler := &UpdateShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := handler.Handle(context.Background(), UpdateShortCommand{
		ShortID: "missing",
		Caption: "whatever",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)
}

func TestGetShortNotFound(t *testing.T) {
	f := newFixture()

	get := &GetShortHandler{UoWFactory: f.factory}
	_, err := get.Handle(context.Background(), GetShortQuery{ShortID: "missing"})
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)
}

func TestListShortsByAuthor(t *testing.T) {
	f := newFixture()
	f.createShort(t, "alice", "a1")
	f.createShort(t, "alice", "a2")
	f.createShort(t, "bob", "b1")

	list := &ListShortsByAuthorHandler{UoWFactory: f.factory}
	result, err := list.Handle(context.Background(), ListShortsByAuthorQuery{AuthorID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	for _, item := range result.Items {
		assert.Equal(t, "alice", item.AuthorID)
	}

	all, err := (&ListShortsHandler{UoWFactory: f.factory}).Handle(context.Background(), ListShortsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestListShortsByTag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tagged := f.createShort(t, "alice", "tagged")
	f.createShort(t, "alice", "plain")

	tag, err := domaintags.New("t1", "funny", f.now)
	require.NoError(t, err)
	require.NoError(t, f.factory.TagsRepo.Save(ctx, tag))
	require.NoError(t, f.factory.TagsRepo.Link(ctx, domainshorts.ShortID(tagged), tag.ID))

	list := &ListShortsByTagHandler{UoWFactory: f.factory}
	result, err := list.Handle(ctx, ListShortsByTagQuery{TagID: "t1"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, tagged, result.Items[0].ID)
}

func TestDeleteShortCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := f.createShort(t, "alice", "doomed")
	shortID := domainshorts.ShortID(id)

	tag, err := domaintags.New("t1", "funny", f.now)
	require.NoError(t, err)
	require.NoError(t, f.factory.TagsRepo.Save(ctx, tag))
	require.NoError(t, f.factory.TagsRepo.Link(ctx, shortID, tag.ID))

	report, err := domainreports.Submit(domainreports.SubmitParams{ShortID: shortID, UserID: "bob", Now: f.now})
	require.NoError(t, err)
	require.NoError(t, f.factory.ReportsRepo.Create(ctx, report))

	handler := &DeleteShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	deleted, err := handler.Handle(ctx, DeleteShortCommand{ShortID: id, Now: f.now.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, id, deleted.ID)

	_, err = f.factory.ShortsRepo.ByID(ctx, shortID)
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)

	links, err := f.factory.TagsRepo.ListByShort(ctx, shortID)
	require.NoError(t, err)
	assert.Empty(t, links)

	reports, err := f.factory.ReportsRepo.ListByShort(ctx, shortID)
	require.NoError(t, err)
	assert.Empty(t, reports)

	// the tag itself survives, only the link is gone
	_, err = f.factory.TagsRepo.ByID(ctx, tag.ID)
	assert.NoError(t, err)
}

func TestDeleteShortNotFound(t *testing.T) {
	f := newFixture()

	handler := &DeleteShortHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := handler.Handle(context.Background(), DeleteShortCommand{ShortID: "missing", Now: f.now})
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)
}
