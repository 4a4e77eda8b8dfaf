package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/layout"
)

type fakeStore struct {
	items      map[string]*models.ItemModel
	writeCalls int
}

func newFakeStore(items ...*models.ItemModel) *fakeStore {
	s := &fakeStore{items: make(map[string]*models.ItemModel)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *fakeStore) List(ctx context.Context) ([]models.ItemModel, error) {
	out := make([]models.ItemModel, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out, nil
}

func (s *fakeStore) ListByPage(ctx context.Context, page int) ([]models.ItemModel, error) {
	var out []models.ItemModel
	for _, it := range s.items {
		if it.PageNumber == page {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (*models.ItemModel, error) {
	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *it
	return &copied, nil
}

func (s *fakeStore) Insert(ctx context.Context, item *models.ItemModel) error {
	s.writeCalls++
	s.items[item.ID] = item
	return nil
}

func (s *fakeStore) Merge(ctx context.Context, id string, version int64, fields map[string]interface{}) (*models.ItemModel, error) {
	s.writeCalls++
	it, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if it.Version != version {
		return nil, ErrVersionConflict
	}
	for k, v := range fields {
		switch k {
		case "x":
			it.X = v.(float64)
		case "y":
			it.Y = v.(float64)
		case "width":
			it.Width = v.(float64)
		case "height":
			it.Height = v.(float64)
		case "fontSize":
			it.FontSize = v.(float64)
		}
	}
	it.Version++
	copied := *it
	return &copied, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.writeCalls++
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type fakeFlag struct{ enabled bool }

func (f fakeFlag) Enabled(ctx context.Context) (bool, error) { return f.enabled, nil }

type recordingHub struct {
	events []string
}

func (h *recordingHub) BroadcastPublic(event string, payload interface{}) {
	h.events = append(h.events, event)
}

func textItem(id string, page int, version int64) *models.ItemModel {
	return &models.ItemModel{
		ID:         id,
		PageNumber: page,
		Type:       models.ItemTypeText,
		Text:       "hello",
		Width:      models.ItemDefaultSize,
		Height:     models.ItemDefaultSize,
		FontSize:   models.ItemDefaultFontSize,
		Version:    version,
	}
}

func mediaItem(id string, page int, version int64) *models.ItemModel {
	return &models.ItemModel{
		ID:         id,
		PageNumber: page,
		Width:      models.ItemDefaultSize,
		Height:     models.ItemDefaultSize,
		Version:    version,
	}
}

func TestCreateTextDefaults(t *testing.T) {
	store := newFakeStore()
	hub := &recordingHub{}
	svc := NewService(store, fakeFlag{enabled: true}, hub, nil)

	item, err := svc.CreateText(context.Background(), 3, "dear diary")
	require.NoError(t, err)

	page, err := layout.PageNumberOf(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, models.ItemTypeText, item.Type)
	assert.Equal(t, models.ItemDefaultSize, item.Width)
	assert.Equal(t, models.ItemDefaultSize, item.Height)
	assert.Equal(t, models.ItemDefaultFontSize, item.FontSize)
	assert.Equal(t, "dear diary", item.MostRecentUploadURL)
	assert.Equal(t, int64(1), item.Version)
	assert.Equal(t, []string{"ITEM_CREATED"}, hub.events)
}

func TestCreateTextRejectsBadInput(t *testing.T) {
	svc := NewService(newFakeStore(), fakeFlag{enabled: true}, nil, nil)

	_, err := svc.CreateText(context.Background(), 0, "x")
	assert.Error(t, err)
	_, err = svc.CreateText(context.Background(), 1, "   ")
	assert.Error(t, err)
}

func TestDragStopMergesPosition(t *testing.T) {
	store := newFakeStore(mediaItem("2_abc", 2, 4))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	updated, err := svc.DragStop(context.Background(), "2_abc", 4, 120, 80, layout.Modes{Drag: true})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.X)
	assert.Equal(t, 80.0, updated.Y)
	assert.Equal(t, int64(5), updated.Version)
	// only position moved
	assert.Equal(t, models.ItemDefaultSize, updated.Width)
}

func TestDragStopRequiresDragMode(t *testing.T) {
	store := newFakeStore(mediaItem("2_abc", 2, 1))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	_, err := svc.DragStop(context.Background(), "2_abc", 1, 10, 10, layout.Modes{})
	assert.ErrorIs(t, err, ErrDragModeOff)
	assert.Zero(t, store.writeCalls)
}

func TestResizeStopDerivesTextFontSize(t *testing.T) {
	store := newFakeStore(textItem("1_t", 1, 1))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	updated, err := svc.ResizeStop(context.Background(), "1_t", 1, 400, 300, layout.Modes{Resize: true})
	require.NoError(t, err)
	assert.Equal(t, 400.0, updated.Width)
	assert.Equal(t, 300.0, updated.Height)
	assert.Equal(t, layout.DerivedFontSize(400), updated.FontSize)
}

func TestResizeStopLeavesMediaFontAlone(t *testing.T) {
	store := newFakeStore(mediaItem("1_m", 1, 1))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	updated, err := svc.ResizeStop(context.Background(), "1_m", 1, 400, 300, layout.Modes{Resize: true})
	require.NoError(t, err)
	assert.Zero(t, updated.FontSize)
}

func TestManipulationBlockedWhenEditModeOff(t *testing.T) {
	store := newFakeStore(textItem("1_t", 1, 1))
	svc := NewService(store, fakeFlag{enabled: false}, nil, nil)
	ctx := context.Background()

	_, err := svc.DragStop(ctx, "1_t", 1, 10, 10, layout.Modes{Drag: true})
	assert.ErrorIs(t, err, ErrEditModeOff)

	_, err = svc.ResizeStop(ctx, "1_t", 1, 50, 50, layout.Modes{Resize: true})
	assert.ErrorIs(t, err, ErrEditModeOff)

	_, err = svc.FontStep(ctx, "1_t", 1, layout.FontIncrease)
	assert.ErrorIs(t, err, ErrEditModeOff)

	// the off switch must short-circuit before any persistence call
	assert.Zero(t, store.writeCalls)
}

func TestFontStepRoundTrip(t *testing.T) {
	store := newFakeStore(textItem("1_t", 1, 1))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)
	ctx := context.Background()

	up, err := svc.FontStep(ctx, "1_t", 1, layout.FontIncrease)
	require.NoError(t, err)
	assert.Equal(t, models.ItemDefaultFontSize+1, up.FontSize)

	down, err := svc.FontStep(ctx, "1_t", up.Version, layout.FontDecrease)
	require.NoError(t, err)
	assert.Equal(t, models.ItemDefaultFontSize, down.FontSize)
}

func TestFontStepStaleVersion(t *testing.T) {
	store := newFakeStore(textItem("1_t", 1, 7))
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	_, err := svc.FontStep(context.Background(), "1_t", 3, layout.FontIncrease)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestMalformedIDRejectedEverywhere(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)
	ctx := context.Background()

	var malformed *layout.MalformedIDError
	_, err := svc.Get(ctx, "nounders core")
	assert.ErrorAs(t, err, &malformed)

	_, err = svc.DragStop(ctx, "abc_def", 1, 0, 0, layout.Modes{Drag: true})
	assert.ErrorAs(t, err, &malformed)

	err = svc.Delete(ctx, "0_zero")
	assert.ErrorAs(t, err, &malformed)
	assert.Zero(t, store.writeCalls)
}

func TestListGroupedSkipsMalformed(t *testing.T) {
	store := newFakeStore(
		mediaItem("1_a", 1, 1),
		mediaItem("2_b", 2, 1),
		mediaItem("broken", 0, 1),
	)
	svc := NewService(store, fakeFlag{enabled: true}, nil, nil)

	groups, err := svc.ListGrouped(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Len(t, groups[1], 1)
	assert.Len(t, groups[2], 1)
}
