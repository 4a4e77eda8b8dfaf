package blob

import (
	"testing"

	appcfg "github.com/scrapbook-space/core/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "videos/page3_beach.mp4", ObjectKey(3, "beach.mp4"))
	assert.Equal(t, "videos/page1_summer_trip.jpg", ObjectKey(1, "summer trip.jpg"))
	// key prefix applies to images too; the naming is historical
	assert.Equal(t, "videos/page12_photo.png", ObjectKey(12, "photo.png"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "a_b.mov", SanitizeFilename("a/b.mov"))
	assert.Equal(t, "upload", SanitizeFilename("   "))
	assert.Equal(t, "clip.mp4", SanitizeFilename(`c:\videos\clip.mp4`))
}

func TestDownloadURL(t *testing.T) {
	s := New(appcfg.S3RuntimeConfig{Region: "eu-west-1", Bucket: "book"})
	assert.Equal(t, "https://book.s3.eu-west-1.amazonaws.com/videos/page1_a.jpg", s.DownloadURL("videos/page1_a.jpg"))

	s = New(appcfg.S3RuntimeConfig{Bucket: "book", Endpoint: "https://minio.local:9000/", PathStyle: true})
	assert.Equal(t, "https://minio.local:9000/book/videos/page1_a.jpg", s.DownloadURL("videos/page1_a.jpg"))

	s = New(appcfg.S3RuntimeConfig{Bucket: "book", PublicBaseURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com/videos/page1_a.jpg", s.DownloadURL("videos/page1_a.jpg"))
}
