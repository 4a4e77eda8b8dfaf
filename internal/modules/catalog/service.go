package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/gateway"
	"go.uber.org/zap"
)

func nowUTC() time.Time { return time.Now().UTC() }

// ErrInvalidTitle reports an empty or whitespace-only page title.
var ErrInvalidTitle = errors.New("page title must not be empty")

// Broadcaster fans page events out to live viewer subscriptions.
type Broadcaster interface {
	BroadcastPublic(event string, payload interface{})
}

// Service owns the page catalog.
type Service struct {
	store  Store
	hub    Broadcaster
	logger *zap.Logger
}

func NewService(store Store, hub Broadcaster, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]models.PageModel, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, label string) (*models.PageModel, error) {
	return s.store.Get(ctx, label)
}

// Create appends a new page. The label is derived from the current catalog
// size, so page numbers only grow; deleting a page leaves a gap rather
// than renumbering what viewers may already reference.
func (s *Service) Create(ctx context.Context, title string) (*models.PageModel, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	label := fmt.Sprintf("Page %d", count+1)

	now := nowUTC()
	page := &models.PageModel{
		ID:        label,
		Page:      label,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, page); err != nil {
		return nil, err
	}
	s.broadcast(gateway.EventPageCreated, page)
	return page, nil
}

// Rename sets a page title; the label never changes.
func (s *Service) Rename(ctx context.Context, label, title string) (*models.PageModel, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}
	page, err := s.store.SetTitle(ctx, label, title)
	if err != nil {
		return nil, err
	}
	s.broadcast(gateway.EventPageUpdated, page)
	return page, nil
}

// Delete removes a page from the catalog. Items placed on the page are
// intentionally left in place; their composite ids still carry the page
// number and an admin can re-create the page later.
func (s *Service) Delete(ctx context.Context, label string) error {
	if err := s.store.Delete(ctx, label); err != nil {
		return err
	}
	s.broadcast(gateway.EventPageDeleted, map[string]string{"id": label})
	return nil
}

func (s *Service) broadcast(event string, payload interface{}) {
	if s.hub != nil {
		s.hub.BroadcastPublic(event, payload)
	}
}
