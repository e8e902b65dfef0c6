package tags

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortify/internal/app/dto"
	"shortify/internal/app/outbox"
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

func (f fixture) seedShort(t *testing.T, id string) {
	t.Helper()
	short, err := domainshorts.New(domainshorts.CreateParams{
		ID:       domainshorts.ShortID(id),
		AuthorID: "alice",
		Caption:  "caption for " + id,
		Now:      f.now,
	})
	require.NoError(t, err)
	short.ClearEvents()
	require.NoError(t, f.factory.ShortsRepo.Save(context.Background(), short))
}

func (f fixture) createHandler() *CreateTagHandler {
	return &CreateTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
}

func (f fixture) attach(t *testing.T, shortID, text string) dto.Tag {
	t.Helper()
	tag, err := f.createHandler().Handle(context.Background(), CreateTagCommand{
		ShortID: shortID,
		Text:    text,
		Now:     f.now,
	})
	require.NoError(t, err)
	return tag
}

func (f fixture) tagTexts(t *testing.T, shortID string) []string {
	t.Helper()
	list := &ListTagsByShortHandler{UoWFactory: f.factory}
	result, err := list.Handle(context.Background(), ListTagsByShortQuery{ShortID: shortID})
	require.NoError(t, err)
	return lo.Map(result.Items, func(item dto.Tag, _ int) string { return item.Text })
}

func TestCreateTagNormalizesAndDeduplicates(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")

	first := f.attach(t, "s1", "  Funny ")
	assert.Equal(t, "funny", first.Text)

	again := f.attach(t, "s1", "FUNNY")
	assert.Equal(t, first.ID, again.ID)

	shared := f.attach(t, "s2", "funny")
	assert.Equal(t, first.ID, shared.ID)

	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s1"))

	all, err := (&ListTagsHandler{UoWFactory: f.factory}).Handle(context.Background(), ListTagsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.Total)
}

func TestCreateTagRequiresShort(t *testing.T) {
	f := newFixture()

	_, err := f.createHandler().Handle(context.Background(), CreateTagCommand{
		ShortID: "ghost",
		Text:    "funny",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)
}

func TestCreateTagRejectsBlankText(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")

	_, err := f.createHandler().Handle(context.Background(), CreateTagCommand{
		ShortID: "s1",
		Text:    "   ",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domaintags.ErrEmptyText)
}

func TestRenameTagGlobally(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s1", "funy")
	f.attach(t, "s2", "funy")

	handler := &RenameTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	status, err := handler.Handle(context.Background(), RenameTagCommand{
		OldText: "funy",
		NewText: "funny",
		Now:     f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRenamed, status)

	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s1"))
	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s2"))
}

func TestRenameTagRetiresOldText(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.attach(t, "s1", "funy")

	rename := &RenameTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := rename.Handle(context.Background(), RenameTagCommand{
		OldText: "funy",
		NewText: "funny",
		Now:     f.now,
	})
	require.NoError(t, err)

	// the old text must be fully retired: renaming it again is NotFound
	_, err = rename.Handle(context.Background(), RenameTagCommand{
		OldText: "funy",
		NewText: "lol",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domaintags.ErrNotFound)

	// and deleting it must not destroy the renamed tag
	del := &DeleteTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err = del.Handle(context.Background(), DeleteTagCommand{Text: "funy", Now: f.now})
	assert.ErrorIs(t, err, domaintags.ErrNotFound)
	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s1"))
}

func TestRenameTagMergesIntoExistingTarget(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s1", "humor")
	target := f.attach(t, "s2", "funny")

	handler := &RenameTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := handler.Handle(context.Background(), RenameTagCommand{
		OldText: "humor",
		NewText: "funny",
		Now:     f.now,
	})
	require.NoError(t, err)

	// both shorts now share the surviving tag
	ctx := context.Background()
	shortIDs, err := f.factory.TagsRepo.ShortIDsByTag(ctx, domaintags.TagID(target.ID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []domainshorts.ShortID{"s1", "s2"}, shortIDs)

	_, err = f.factory.TagsRepo.ByText(ctx, "humor")
	assert.ErrorIs(t, err, domaintags.ErrNotFound)
}

func TestRenameTagUnknownText(t *testing.T) {
	f := newFixture()

	handler := &RenameTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := handler.Handle(context.Background(), RenameTagCommand{
		OldText: "ghost",
		NewText: "funny",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domaintags.ErrNotFound)
}

func TestRenameShortTagLeavesOtherShortsAlone(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s1", "funy")
	f.attach(t, "s2", "funy")

	handler := &RenameShortTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	status, err := handler.Handle(context.Background(), RenameShortTagCommand{
		ShortID: "s1",
		OldText: "funy",
		NewText: "funny",
		Now:     f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRenamed, status)

	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s1"))
	assert.Equal(t, []string{"funy"}, f.tagTexts(t, "s2"))
}

func TestRenameShortTagNotLinked(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s2", "funny")

	handler := &RenameShortTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	_, err := handler.Handle(context.Background(), RenameShortTagCommand{
		ShortID: "s1",
		OldText: "funny",
		NewText: "humor",
		Now:     f.now,
	})
	assert.ErrorIs(t, err, domaintags.ErrNotLinked)
}

func TestDeleteTagEverywhere(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s1", "funny")
	f.attach(t, "s2", "funny")
	f.attach(t, "s2", "cats")

	handler := &DeleteTagHandler{
		UoWFactory: f.factory,
		Outbox:     f.outbox,
		Encoder:    outbox.JSONEventEncoder{},
	}
	status, err := handler.Handle(context.Background(), DeleteTagCommand{Text: "funny", Now: f.now})
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, status)

	assert.Empty(t, f.tagTexts(t, "s1"))
	assert.Equal(t, []string{"cats"}, f.tagTexts(t, "s2"))
}

func TestClearShortTags(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.seedShort(t, "s2")
	f.attach(t, "s1", "funny")
	f.attach(t, "s1", "cats")
	f.attach(t, "s2", "funny")

	handler := &ClearShortTagsHandler{UoWFactory: f.factory}
	status, err := handler.Handle(context.Background(), ClearShortTagsCommand{ShortID: "s1", Now: f.now})
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, status)

	assert.Empty(t, f.tagTexts(t, "s1"))
	assert.Equal(t, []string{"funny"}, f.tagTexts(t, "s2"))
}

func TestClearShortTagsRequiresShort(t *testing.T) {
	f := newFixture()

	handler := &ClearShortTagsHandler{UoWFactory: f.factory}
	_, err := handler.Handle(context.Background(), ClearShortTagsCommand{ShortID: "ghost", Now: f.now})
	assert.ErrorIs(t, err, domainshorts.ErrNotFound)
}

func TestRemoveShortTag(t *testing.T) {
	f := newFixture()
	f.seedShort(t, "s1")
	f.attach(t, "s1", "funny")
	f.attach(t, "s1", "cats")

	handler := &RemoveShortTagHandler{UoWFactory: f.factory}
	status, err := handler.Handle(context.Background(), RemoveShortTagCommand{
		ShortID: "s1",
		Text:    "funny",
		Now:     f.now,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRemoved, status)

	assert.Equal(t, []string{"cats"}, f.tagTexts(t, "s1"))
}

func TestListTagsByShortWithoutExistenceCheck(t *testing.T) {
	f := newFixture()

	// listing tags of an unknown or deleted short is empty, not an error
	assert.Empty(t, f.tagTexts(t, "never-existed"))
}
