package youtube

import (
	"errors"
	"testing"
)

func TestValidateURLAcceptsVideoURLs(t *testing.T) {
	cases := []struct {
		url    string
		wantID string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		id, err := ValidateURL(tc.url)
		if err != nil {
			t.Errorf("ValidateURL(%s) failed: %v", tc.url, err)
			continue
		}
		if id != tc.wantID {
			t.Errorf("ValidateURL(%s) = %s, want %s", tc.url, id, tc.wantID)
		}
	}
}

func TestValidateURLRejectsNonVideoURLs(t *testing.T) {
	cases := []string{
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"not a url at all with spaces",
		"",
	}

	for _, url := range cases {
		_, err := ValidateURL(url)
		if err == nil {
			t.Errorf("ValidateURL(%q) should fail", url)
			continue
		}
		var ierr *InvalidURLError
		if !errors.As(err, &ierr) {
			t.Errorf("ValidateURL(%q) error type = %T, want InvalidURLError", url, err)
		}
	}
}

func TestExtensionForMime(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"audio/mp4; codecs=\"mp4a.40.2\"", ".m4a"},
		{"audio/webm; codecs=\"opus\"", ".webm"},
		{"audio/unknown", ".audio"},
	}
	for _, tc := range cases {
		if got := ExtensionForMime(tc.mime); got != tc.want {
			t.Errorf("ExtensionForMime(%s) = %s, want %s", tc.mime, got, tc.want)
		}
	}
}
