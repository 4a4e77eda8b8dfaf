package layout

import (
	"strings"

	"github.com/scrapbook-space/core/internal/models"
)

// ContentKind is the render classification of an item.
type ContentKind string

const (
	KindImage ContentKind = "image"
	KindVideo ContentKind = "video"
	KindText  ContentKind = "text"
)

// videoExtensions is the exhaustive static allow-list used to tell videos
// from images by URL. Matching is done on the lowercased URL, substring
// match on "." + extension.
var videoExtensions = []string{
	"mp4", "mov", "avi", "mkv", "wmv", "avchd", "webm", "h264", "mpeg4",
	"flv", "m4v", "3gp", "ts", "m2ts", "mts", "divx", "ogv", "dv", "dat",
	"asf", "mpg", "mpeg", "mxf", "vob", "rm", "rmvb", "drc", "gifv", "mng",
	"qt", "yuv", "nsv", "f4v", "f4p", "f4a", "f4b",
}

// Classify decides how an item renders. Text is structural (the explicit
// type discriminator); media splits into video and image by extension.
func Classify(item *models.ItemModel) ContentKind {
	if item.IsText() {
		return KindText
	}
	if IsVideoURL(item.MostRecentUploadURL) {
		return KindVideo
	}
	return KindImage
}

// IsVideoURL reports whether the reference URL points at a video.
func IsVideoURL(url string) bool {
	lowered := strings.ToLower(url)
	for _, ext := range videoExtensions {
		if strings.Contains(lowered, "."+ext) {
			return true
		}
	}
	return false
}
