package manifest

import (
	"github.com/matzehuels/upgrader/pkg/errors"
)

// ReplaceVersion returns text with the token at [start, end) replaced by
// version. When the existing token is wrapped in a matching pair of single or
// double quotes, only the interior is replaced.
func ReplaceVersion(text string, start, end int, version string) (string, error) {
	if start < 0 || end < start || end > len(text) {
		return "", errors.New(errors.ErrCodeInvalidInput, "range [%d, %d) outside text of length %d", start, end, len(text))
	}
	if version == "" {
		return "", errors.New(errors.ErrCodeInvalidVersion, "replacement version cannot be empty")
	}

	replacement := version
	if q, ok := quoteOf(text[start:end]); ok {
		replacement = q + version + q
	}
	return text[:start] + replacement + text[end:], nil
}

func quoteOf(token string) (string, bool) {
	if len(token) < 2 {
		return "", false
	}
	first, last := token[0], token[len(token)-1]
	if first != last || (first != '"' && first != '\'') {
		return "", false
	}
	return string(first), true
}
