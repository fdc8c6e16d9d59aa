// Package youtube derives preview images from YouTube video links.
package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/eslsoft/islamic-sources/internal/core"
)

const thumbnailTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Extractor implements core.ThumbnailExtractor for YouTube URLs.
type Extractor struct{}

// NewExtractor returns a YouTube thumbnail extractor.
func NewExtractor() Extractor {
	return Extractor{}
}

var _ core.ThumbnailExtractor = Extractor{}

// Thumbnail returns the hqdefault image of the linked video.
func (Extractor) Thumbnail(videoURL string) (string, bool) {
	id, ok := VideoID(videoURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf(thumbnailTemplate, id), true
}

// VideoID extracts the video id from youtu.be, watch, embed and shorts links.
func VideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/embed"))
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/shorts"))
		case strings.HasPrefix(u.Path, "/live/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/live"))
		}
	}
	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
