package catalog

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapbook-space/core/internal/models"
)

type fakeStore struct {
	pages map[string]*models.PageModel
}

func newFakeStore() *fakeStore {
	return &fakeStore{pages: make(map[string]*models.PageModel)}
}

func (s *fakeStore) List(ctx context.Context) ([]models.PageModel, error) {
	out := make([]models.PageModel, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, label string) (*models.PageModel, error) {
	p, ok := s.pages[label]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.pages)), nil
}

func (s *fakeStore) Insert(ctx context.Context, page *models.PageModel) error {
	if _, ok := s.pages[page.ID]; ok {
		return ErrExists
	}
	s.pages[page.ID] = page
	return nil
}

func (s *fakeStore) SetTitle(ctx context.Context, label, title string) (*models.PageModel, error) {
	p, ok := s.pages[label]
	if !ok {
		return nil, ErrNotFound
	}
	p.Title = title
	copied := *p
	return &copied, nil
}

func (s *fakeStore) Delete(ctx context.Context, label string) error {
	if _, ok := s.pages[label]; !ok {
		return ErrNotFound
	}
	delete(s.pages, label)
	return nil
}

type recordingHub struct {
	events []string
}

func (h *recordingHub) BroadcastPublic(event string, payload interface{}) {
	h.events = append(h.events, event)
}

func TestCreateAssignsSequentialLabels(t *testing.T) {
	store := newFakeStore()
	hub := &recordingHub{}
	svc := NewService(store, hub, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, "Our trip")
	require.NoError(t, err)
	assert.Equal(t, "Page 1", first.ID)
	assert.Equal(t, "Page 1", first.Page)

	second, err := svc.Create(ctx, "More photos")
	require.NoError(t, err)
	assert.Equal(t, "Page 2", second.ID)

	assert.Equal(t, []string{"PAGE_CREATED", "PAGE_CREATED"}, hub.events)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	_, err := svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestRenameKeepsLabel(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	page, err := svc.Create(ctx, "old")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, page.ID, "new title")
	require.NoError(t, err)
	assert.Equal(t, page.ID, renamed.ID)
	assert.Equal(t, "new title", renamed.Title)
}

func TestDeleteNeverRenumbers(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, nil)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, title)
		require.NoError(t, err)
	}
	require.NoError(t, svc.Delete(ctx, "Page 2"))

	pages, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Page 1", pages[0].ID)
	assert.Equal(t, "Page 3", pages[1].ID)
}

func TestDeleteMissingPage(t *testing.T) {
	svc := NewService(newFakeStore(), nil, nil)

	err := svc.Delete(context.Background(), "Page 9")
	assert.ErrorIs(t, err, ErrNotFound)
}
