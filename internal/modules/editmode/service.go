package editmode

import (
	"context"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/gateway"
	"go.uber.org/zap"
)

// Broadcaster fans the switch state out to live viewer subscriptions.
type Broadcaster interface {
	BroadcastPublic(event string, payload interface{})
}

// Service reads and flips the shared edit-mode switch. It satisfies the
// EditModeFlag seam the item and catalog handlers consume.
type Service struct {
	store  Store
	hub    Broadcaster
	logger *zap.Logger
}

func NewService(store Store, hub Broadcaster, logger *zap.Logger) *Service {
	return &Service{store: store, hub: hub, logger: logger}
}

func (s *Service) Get(ctx context.Context) (*models.EditModeModel, error) {
	return s.store.Get(ctx)
}

// Enabled reads the current switch state.
func (s *Service) Enabled(ctx context.Context) (bool, error) {
	doc, err := s.store.Get(ctx)
	if err != nil {
		return false, err
	}
	return doc.Enabled, nil
}

// Set flips the switch and pushes the new state to every live viewer, so
// open sessions gain or lose their manipulation affordances immediately.
func (s *Service) Set(ctx context.Context, enabled bool) (*models.EditModeModel, error) {
	doc, err := s.store.Set(ctx, enabled)
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Info("edit mode changed", zap.Bool("enabled", enabled))
	}
	if s.hub != nil {
		s.hub.BroadcastPublic(gateway.EventEditModeChanged, doc)
	}
	return doc, nil
}
