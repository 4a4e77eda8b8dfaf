package editmode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapbook-space/core/internal/models"
)

type fakeStore struct {
	doc *models.EditModeModel
}

func (s *fakeStore) Get(ctx context.Context) (*models.EditModeModel, error) {
	if s.doc == nil {
		return &models.EditModeModel{ID: models.EditModeDocID}, nil
	}
	copied := *s.doc
	return &copied, nil
}

func (s *fakeStore) Set(ctx context.Context, enabled bool) (*models.EditModeModel, error) {
	s.doc = &models.EditModeModel{ID: models.EditModeDocID, Enabled: enabled, UpdatedAt: time.Now().UTC()}
	copied := *s.doc
	return &copied, nil
}

type recordingHub struct {
	events []string
}

func (h *recordingHub) BroadcastPublic(event string, payload interface{}) {
	h.events = append(h.events, event)
}

func TestFreshDatabaseReadsDisabled(t *testing.T) {
	svc := NewService(&fakeStore{}, nil, nil)

	enabled, err := svc.Enabled(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSetBroadcastsEveryFlip(t *testing.T) {
	hub := &recordingHub{}
	svc := NewService(&fakeStore{}, hub, nil)
	ctx := context.Background()

	doc, err := svc.Set(ctx, true)
	require.NoError(t, err)
	assert.True(t, doc.Enabled)

	enabled, err := svc.Enabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = svc.Set(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"EDIT_MODE_CHANGED", "EDIT_MODE_CHANGED"}, hub.events)
}
