package validation

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://example.com/path?query=1", false},
		{"https://example.com/path#fragment", false},
		{"http://example.com:8080", false},
		{"http://", true},
		{"", true},
		{"ftp://example.com", true},
		{"not a url", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestValidateYouTubeURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=abc123", false},
		{"https://youtu.be/abc123", false},
		{"https://m.youtube.com/watch?v=abc123", false},
		{"https://example.com/watch?v=abc123", true},
		{"https://vimeo.com/12345", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateYouTubeURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateYouTubeURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
