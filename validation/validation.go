package validation

import (
	"net/url"
	"strings"

	"github.com/nijaru/yt-shorts/errors"
)

// ValidateURL checks that a source URL is well-formed http(s).
func ValidateURL(urlStr string) error {
	const op = "validation.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}
	if parsedURL.Host == "" {
		return errors.InvalidInput(op, nil, "URL must include a host")
	}

	return nil
}

// ValidateYouTubeURL additionally requires a YouTube host.
func ValidateYouTubeURL(urlStr string) error {
	const op = "validation.ValidateYouTubeURL"

	if err := ValidateURL(urlStr); err != nil {
		return err
	}

	parsedURL, _ := url.Parse(strings.TrimSpace(urlStr))
	host := parsedURL.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return errors.InvalidInput(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}
