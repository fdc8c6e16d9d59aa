package youtube

import "testing"

func TestExtractor_Thumbnail(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ?si=abc", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true},
		{"shorts", "https://youtube.com/shorts/dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", true},
		{"vimeo", "https://vimeo.com/123456", "", false},
		{"bad id", "https://youtu.be/short", "", false},
		{"not a url", "intro video", "", false},
		{"empty", "", "", false},
	}

	extractor := NewExtractor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractor.Thumbnail(tc.url)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Thumbnail(%q) = %q, %v; want %q, %v", tc.url, got, ok, tc.want, tc.ok)
			}
		})
	}
}
