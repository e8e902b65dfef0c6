package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	domainreports "shortify/internal/domain/reports"
	domainshorts "shortify/internal/domain/shorts"
	domaintags "shortify/internal/domain/tags"
)

// ShortRepository is an in-memory implementation used for tests and the
// default single-node wiring.
type ShortRepository struct {
	mu    sync.RWMutex
	items map[domainshorts.ShortID]*domainshorts.Short
}

func NewShortRepository() *ShortRepository {
	return &ShortRepository{items: make(map[domainshorts.ShortID]*domainshorts.Short)}
}

// ByID returns a short or shorts.ErrNotFound.
func (r *ShortRepository) ByID(ctx context.Context, id domainshorts.ShortID) (*domainshorts.Short, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	short, ok := r.items[id]
	if !ok {
		return nil, domainshorts.ErrNotFound
	}
	return short, nil
}

func (r *ShortRepository) List(ctx context.Context) ([]*domainshorts.Short, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Values(r.items)
	sortShorts(out)
	return out, nil
}

func (r *ShortRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domainshorts.Short, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Filter(lo.Values(r.items), func(item *domainshorts.Short, _ int) bool {
		return item.AuthorID == authorID
	})
	sortShorts(out)
	return out, nil
}

func (r *ShortRepository) ListByIDs(ctx context.Context, ids []domainshorts.ShortID) ([]*domainshorts.Short, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainshorts.Short, 0, len(ids))
	for _, id := range ids {
		if short, ok := r.items[id]; ok {
			out = append(out, short)
		}
	}
	sortShorts(out)
	return out, nil
}

func (r *ShortRepository) Save(ctx context.Context, short *domainshorts.Short) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[short.ID] = short
	return nil
}

func (r *ShortRepository) Delete(ctx context.Context, id domainshorts.ShortID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainshorts.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// newest first, id as a stable tiebreak
func sortShorts(items []*domainshorts.Short) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// TagRepository keeps tag entities plus the short<->tag link set.
type TagRepository struct {
	mu     sync.RWMutex
	items  map[domaintags.TagID]*domaintags.Tag
	byText map[string]domaintags.TagID
	// links indexed both ways for cheap lookups in either direction
	byShort map[domainshorts.ShortID]map[domaintags.TagID]struct{}
	byTag   map[domaintags.TagID]map[domainshorts.ShortID]struct{}
}

func NewTagRepository() *TagRepository {
	return &TagRepository{
		items:   make(map[domaintags.TagID]*domaintags.Tag),
		byText:  make(map[string]domaintags.TagID),
		byShort: make(map[domainshorts.ShortID]map[domaintags.TagID]struct{}),
		byTag:   make(map[domaintags.TagID]map[domainshorts.ShortID]struct{}),
	}
}

func (r *TagRepository) ByID(ctx context.Context, id domaintags.TagID) (*domaintags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.items[id]
	if !ok {
		return nil, domaintags.ErrNotFound
	}
	return tag, nil
}

func (r *TagRepository) ByText(ctx context.Context, text string) (*domaintags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byText[domaintags.NormalizeText(text)]
	if !ok {
		return nil, domaintags.ErrNotFound
	}
	return r.items[id], nil
}

func (r *TagRepository) List(ctx context.Context) ([]*domaintags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Values(r.items)
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (r *TagRepository) ListByShort(ctx context.Context, shortID domainshorts.ShortID) ([]*domaintags.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaintags.Tag, 0, len(r.byShort[shortID]))
	for id := range r.byShort[shortID] {
		if tag, ok := r.items[id]; ok {
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out, nil
}

func (r *TagRepository) ShortIDsByTag(ctx context.Context, id domaintags.TagID) ([]domainshorts.ShortID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Keys(r.byTag[id])
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *TagRepository) Save(ctx context.Context, tag *domaintags.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The caller may hold the same pointer we store, so the old text cannot be
	// read from r.items after a rename. Sweep the text index by ID instead.
	for text, id := range r.byText {
		if id == tag.ID && text != tag.Text {
			delete(r.byText, text)
		}
	}
	r.items[tag.ID] = tag
	r.byText[tag.Text] = tag.ID
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id domaintags.TagID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.items[id]
	if !ok {
		return domaintags.ErrNotFound
	}
	delete(r.items, id)
	delete(r.byText, tag.Text)
	for shortID := range r.byTag[id] {
		delete(r.byShort[shortID], id)
	}
	delete(r.byTag, id)
	return nil
}

// Link is idempotent: linking an already linked pair is a no-op.
func (r *TagRepository) Link(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tagID]; !ok {
		return domaintags.ErrNotFound
	}
	if r.byShort[shortID] == nil {
		r.byShort[shortID] = make(map[domaintags.TagID]struct{})
	}
	if r.byTag[tagID] == nil {
		r.byTag[tagID] = make(map[domainshorts.ShortID]struct{})
	}
	r.byShort[shortID][tagID] = struct{}{}
	r.byTag[tagID][shortID] = struct{}{}
	return nil
}

func (r *TagRepository) Unlink(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byShort[shortID][tagID]; !ok {
		return domaintags.ErrNotLinked
	}
	delete(r.byShort[shortID], tagID)
	delete(r.byTag[tagID], shortID)
	return nil
}

func (r *TagRepository) UnlinkAll(ctx context.Context, shortID domainshorts.ShortID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := len(r.byShort[shortID])
	for tagID := range r.byShort[shortID] {
		delete(r.byTag[tagID], shortID)
	}
	delete(r.byShort, shortID)
	return removed, nil
}

func (r *TagRepository) Linked(ctx context.Context, shortID domainshorts.ShortID, tagID domaintags.TagID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byShort[shortID][tagID]
	return ok, nil
}

type reportKey struct {
	shortID domainshorts.ShortID
	userID  string
}

// ReportRepository stores reports keyed by their (short, user) pair.
type ReportRepository struct {
	mu    sync.RWMutex
	items map[reportKey]*domainreports.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{items: make(map[reportKey]*domainreports.Report)}
}

func (r *ReportRepository) ByKey(ctx context.Context, shortID domainshorts.ShortID, userID string) (*domainreports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.items[reportKey{shortID: shortID, userID: userID}]
	if !ok {
		return nil, domainreports.ErrNotFound
	}
	return report, nil
}

func (r *ReportRepository) List(ctx context.Context) ([]*domainreports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Values(r.items)
	sortReports(out)
	return out, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID string) ([]*domainreports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Filter(lo.Values(r.items), func(item *domainreports.Report, _ int) bool {
		return item.UserID == userID
	})
	sortReports(out)
	return out, nil
}

func (r *ReportRepository) ListByShort(ctx context.Context, shortID domainshorts.ShortID) ([]*domainreports.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := lo.Filter(lo.Values(r.items), func(item *domainreports.Report, _ int) bool {
		return item.ShortID == shortID
	})
	sortReports(out)
	return out, nil
}

// Create enforces uniqueness of the (short, user) pair under the write lock.
func (r *ReportRepository) Create(ctx context.Context, report *domainreports.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reportKey{shortID: report.ShortID, userID: report.UserID}
	if _, exists := r.items[key]; exists {
		return domainreports.ErrAlreadyReported
	}
	r.items[key] = report
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, shortID domainshorts.ShortID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reportKey{shortID: shortID, userID: userID}
	if _, ok := r.items[key]; !ok {
		return domainreports.ErrNotFound
	}
	delete(r.items, key)
	return nil
}

func (r *ReportRepository) DeleteByShort(ctx context.Context, shortID domainshorts.ShortID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key := range r.items {
		if key.shortID == shortID {
			delete(r.items, key)
			removed++
		}
	}
	return removed, nil
}

func sortReports(items []*domainreports.Report) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			if items[i].ShortID == items[j].ShortID {
				return items[i].UserID < items[j].UserID
			}
			return items[i].ShortID < items[j].ShortID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
