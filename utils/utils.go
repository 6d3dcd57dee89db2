package utils

import (
	"regexp"
	"strings"
)

var (
	specialChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	underscores  = regexp.MustCompile(`_+`)
)

// SanitizeTitle turns a video title into a safe file-name stem: spaces become
// underscores, special characters are dropped, runs of underscores collapse.
func SanitizeTitle(title string) string {
	s := strings.ReplaceAll(title, " ", "_")
	s = specialChars.ReplaceAllString(s, "")
	s = underscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "untitled"
	}
	return s
}

// FormatText inserts a newline after each sentence of a transcript.
func FormatText(text string) string {
	text = strings.TrimSpace(text)
	var builder strings.Builder
	for _, char := range text {
		builder.WriteRune(char)
		if char == '.' || char == '!' || char == '?' {
			builder.WriteRune('\n')
		}
	}
	return builder.String()
}
