package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/scrapbook-space/core/internal/modules/layout"
	"github.com/scrapbook-space/core/internal/pkg/blob"
)

type fakeBlobs struct {
	uploaded map[string]string
	deleted  []string
	fail     error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{uploaded: make(map[string]string)}
}

func (f *fakeBlobs) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress blob.ProgressFunc) (string, error) {
	if f.fail != nil {
		return "", &blob.TransferError{Key: key, Err: f.fail}
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploaded[key] = string(body)
	if progress != nil {
		progress(int64(len(body)), size)
	}
	return "https://cdn.test/" + key, nil
}

func (f *fakeBlobs) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.uploaded, key)
	return nil
}

type fakePlacer struct {
	media   []string
	text    []string
	failure error
}

func (f *fakePlacer) CreateMedia(ctx context.Context, page int, downloadURL string) (*models.ItemModel, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	f.media = append(f.media, downloadURL)
	return &models.ItemModel{ID: layout.MakeItemID(page, "x"), PageNumber: page, MostRecentUploadURL: downloadURL}, nil
}

func (f *fakePlacer) CreateText(ctx context.Context, page int, text string) (*models.ItemModel, error) {
	f.text = append(f.text, text)
	return &models.ItemModel{ID: layout.MakeItemID(page, "x"), PageNumber: page, Type: models.ItemTypeText, Text: text}, nil
}

func TestPlaceMediaTransfersThenPlaces(t *testing.T) {
	blobs := newFakeBlobs()
	placer := &fakePlacer{}
	svc := NewService(blobs, placer, nil)

	item, err := svc.PlaceMedia(context.Background(), 4, "trip video.mp4",
		strings.NewReader("bytes"), 5, "video/mp4")
	require.NoError(t, err)

	assert.Contains(t, blobs.uploaded, "videos/page4_trip_video.mp4")
	assert.Equal(t, "https://cdn.test/videos/page4_trip_video.mp4", item.MostRecentUploadURL)
	assert.Equal(t, 4, item.PageNumber)
}

func TestPlaceMediaValidatesBeforeAnyWrite(t *testing.T) {
	blobs := newFakeBlobs()
	svc := NewService(blobs, &fakePlacer{}, nil)
	ctx := context.Background()

	_, err := svc.PlaceMedia(ctx, 0, "a.mp4", strings.NewReader("x"), 1, "")
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = svc.PlaceMedia(ctx, 1, "a.mp4", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Empty(t, blobs.uploaded)
}

func TestPlaceMediaSurfacesTransferFailure(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.fail = errors.New("connection reset")
	placer := &fakePlacer{}
	svc := NewService(blobs, placer, nil)

	_, err := svc.PlaceMedia(context.Background(), 1, "a.mp4", strings.NewReader("x"), 1, "")

	var transfer *blob.TransferError
	require.ErrorAs(t, err, &transfer)
	assert.Equal(t, "videos/page1_a.mp4", transfer.Key)
	assert.Empty(t, placer.media)
}

func TestPlaceMediaReapsOrphanedBlob(t *testing.T) {
	blobs := newFakeBlobs()
	placer := &fakePlacer{failure: errors.New("insert failed")}
	svc := NewService(blobs, placer, nil)

	_, err := svc.PlaceMedia(context.Background(), 2, "b.mp4", strings.NewReader("x"), 1, "")
	require.Error(t, err)
	assert.Equal(t, []string{"videos/page2_b.mp4"}, blobs.deleted)
}

func TestPlaceText(t *testing.T) {
	blobs := newFakeBlobs()
	placer := &fakePlacer{}
	svc := NewService(blobs, placer, nil)

	item, err := svc.PlaceText(context.Background(), 3, "hello scrapbook")
	require.NoError(t, err)
	assert.Equal(t, models.ItemTypeText, item.Type)
	assert.Empty(t, blobs.uploaded)

	_, err = svc.PlaceText(context.Background(), 0, "x")
	assert.ErrorIs(t, err, ErrInvalidPage)
}
