package grok

import (
	"regexp"
	"strings"
)

// The model is told never to emit links; whatever it hallucinates is stripped
// here because the composer appends the canonical URL itself.
var sanitizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\[link\]\s*`),
	regexp.MustCompile(`(?i)\s*More details:?\s*$`),
	regexp.MustCompile(`(?i)\s*Click here:?\s*$`),
	regexp.MustCompile(`(?i)\s*See more:?\s*$`),
	regexp.MustCompile(`(?i)\s*Link:?\s*$`),
	regexp.MustCompile(`(?i)https?://[^\s)]+`),
	regexp.MustCompile(`(?i)\bt\.co/\S+`),
}

func sanitize(message string) string {
	for _, pattern := range sanitizePatterns {
		message = pattern.ReplaceAllString(message, "")
	}

	return strings.TrimSpace(message)
}
