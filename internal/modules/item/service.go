package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/gateway"
	"github.com/scrapbook-space/core/internal/modules/layout"
	"go.uber.org/zap"
)

// Manipulation gating errors. When edit mode is off no store call is made.
var (
	ErrEditModeOff   = errors.New("edit mode is off")
	ErrDragModeOff   = errors.New("drag mode is not active")
	ErrResizeModeOff = errors.New("resize mode is not active")
)

// EditModeFlag exposes the authoritative shared edit-mode switch.
type EditModeFlag interface {
	Enabled(ctx context.Context) (bool, error)
}

// Broadcaster fans item events out to live viewer subscriptions.
type Broadcaster interface {
	BroadcastPublic(event string, payload interface{})
}

// Service owns item documents and the manipulation write-backs.
type Service struct {
	store  Store
	flag   EditModeFlag
	hub    Broadcaster
	logger *zap.Logger
}

func NewService(store Store, flag EditModeFlag, hub Broadcaster, logger *zap.Logger) *Service {
	return &Service{store: store, flag: flag, hub: hub, logger: logger}
}

// ListGrouped returns all items partitioned by page number. Malformed ids
// are logged and excluded, never guessed into a page.
func (s *Service) ListGrouped(ctx context.Context) (map[int][]models.ItemModel, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	groups, malformed := layout.GroupByPage(items)
	if len(malformed) > 0 && s.logger != nil {
		s.logger.Warn("skipping items with malformed ids", zap.Strings("ids", malformed))
	}
	return groups, nil
}

func (s *Service) ListByPage(ctx context.Context, page int) ([]models.ItemModel, error) {
	return s.store.ListByPage(ctx, page)
}

func (s *Service) Get(ctx context.Context, id string) (*models.ItemModel, error) {
	if _, err := layout.PageNumberOf(id); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// CreateMedia places an uploaded media reference on a page.
func (s *Service) CreateMedia(ctx context.Context, page int, downloadURL string) (*models.ItemModel, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	now := time.Now().UTC()
	item := &models.ItemModel{
		ID:                  layout.MakeItemID(page, layout.NewToken(now.UnixMilli())),
		PageNumber:          page,
		MostRecentUploadURL: downloadURL,
		Width:               models.ItemDefaultSize,
		Height:              models.ItemDefaultSize,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.broadcast(gateway.EventItemCreated, item)
	return item, nil
}

// CreateText places a text box on a page. The literal text doubles as the
// content reference, matching the historical wire format.
func (s *Service) CreateText(ctx context.Context, page int, text string) (*models.ItemModel, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be empty")
	}
	now := time.Now().UTC()
	item := &models.ItemModel{
		ID:                  layout.MakeItemID(page, layout.NewToken(now.UnixMilli())),
		PageNumber:          page,
		Type:                models.ItemTypeText,
		Text:                text,
		MostRecentUploadURL: text,
		Width:               models.ItemDefaultSize,
		Height:              models.ItemDefaultSize,
		FontSize:            models.ItemDefaultFontSize,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.broadcast(gateway.EventItemCreated, item)
	return item, nil
}

// DragStop persists the final position of a drag gesture as a partial
// merge of {x, y}. Requires edit mode and the drag toggle.
func (s *Service) DragStop(ctx context.Context, id string, version int64, x, y float64, m layout.Modes) (*models.ItemModel, error) {
	m, err := s.gate(ctx, id, m)
	if err != nil {
		return nil, err
	}
	if !m.CanDrag() {
		return nil, ErrDragModeOff
	}
	return s.merge(ctx, id, version, map[string]interface{}{"x": x, "y": y})
}

// ResizeStop persists the final size of a resize gesture as a partial merge
// of {width, height}; text items also get a width-derived font size so the
// text stays legible at the new scale. Requires edit mode and the resize
// toggle.
func (s *Service) ResizeStop(ctx context.Context, id string, version int64, width, height float64, m layout.Modes) (*models.ItemModel, error) {
	m, err := s.gate(ctx, id, m)
	if err != nil {
		return nil, err
	}
	if !m.CanResize() {
		return nil, ErrResizeModeOff
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %gx%g", width, height)
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"width": width, "height": height}
	if current.IsText() {
		fields["fontSize"] = layout.DerivedFontSize(width)
	}
	return s.merge(ctx, id, version, fields)
}

// FontStep bumps a text item's font size one pixel up or down, clamped at
// the floor. Gated only by edit mode; the drag/resize toggles do not apply.
func (s *Service) FontStep(ctx context.Context, id string, version int64, dir layout.FontDirection) (*models.ItemModel, error) {
	if _, err := s.gate(ctx, id, layout.Modes{}); err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Version != version {
		return nil, ErrVersionConflict
	}
	next := layout.NextFontSize(current.FontSize, dir)
	return s.merge(ctx, id, version, map[string]interface{}{"fontSize": next})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := layout.PageNumberOf(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.broadcast(gateway.EventItemDeleted, map[string]string{"id": id})
	return nil
}

// gate validates the id and resolves the authoritative edit-mode flag into
// the session modes. It runs before any store write so a disabled edit
// mode short-circuits without a persistence call.
func (s *Service) gate(ctx context.Context, id string, m layout.Modes) (layout.Modes, error) {
	if _, err := layout.PageNumberOf(id); err != nil {
		return m, err
	}
	enabled, err := s.flag.Enabled(ctx)
	if err != nil {
		return m, fmt.Errorf("read edit mode: %w", err)
	}
	if !enabled {
		return m, ErrEditModeOff
	}
	m.Edit = true
	return m.Normalize(), nil
}

func (s *Service) merge(ctx context.Context, id string, version int64, fields map[string]interface{}) (*models.ItemModel, error) {
	updated, err := s.store.Merge(ctx, id, version, fields)
	if err != nil {
		return nil, err
	}
	s.broadcast(gateway.EventItemUpdated, updated)
	return updated, nil
}

func (s *Service) broadcast(event string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastPublic(event, payload)
	}
}
