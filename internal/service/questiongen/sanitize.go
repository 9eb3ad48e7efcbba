package questiongen

import (
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?i)```(?:json)?")

// SanitizePayload вырезает из текста модели JSON-объект: убирает markdown-ограждения
// и берёт всё от первой '{' до последней '}' включительно.
func SanitizePayload(text string) (string, error) {
	cleaned := strings.TrimSpace(codeFenceRe.ReplaceAllString(strings.TrimSpace(text), ""))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return "", &NoJSONObjectError{Text: truncate(text, maxSnippetLen)}
	}
	return cleaned[start : end+1], nil
}
