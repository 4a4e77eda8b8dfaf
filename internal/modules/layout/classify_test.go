package layout

import (
	"testing"

	"github.com/scrapbook-space/core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyVideoByExtension(t *testing.T) {
	for _, url := range []string{
		"https://cdn.example.com/videos/page1_clip.mp4",
		"https://cdn.example.com/videos/page1_CLIP.MOV?token=abc",
		"https://cdn.example.com/a.webm",
	} {
		item := models.ItemModel{MostRecentUploadURL: url}
		assert.Equal(t, KindVideo, Classify(&item), url)
	}
}

func TestClassifyImageFallback(t *testing.T) {
	for _, url := range []string{
		"https://cdn.example.com/videos/page1_photo.jpg",
		"https://cdn.example.com/scan.png",
		"https://cdn.example.com/no-extension",
	} {
		item := models.ItemModel{MostRecentUploadURL: url}
		assert.Equal(t, KindImage, Classify(&item), url)
	}
}

func TestClassifyTextIsStructural(t *testing.T) {
	// a text item whose literal content mentions a video extension is
	// still text: classification never falls through to URL matching
	item := models.ItemModel{
		Type:                models.ItemTypeText,
		Text:                "watch holiday.mp4 later",
		MostRecentUploadURL: "watch holiday.mp4 later",
	}
	assert.Equal(t, KindText, Classify(&item))
}
