package cell

import (
	"regexp"
	"strings"
)

var newlineRun = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)

// NormalizeHeader cleans a raw column or field name: embedded newline
// runs collapse to a single space and leading/trailing whitespace is
// stripped. Idempotent.
func NormalizeHeader(name string) string {
	return strings.TrimSpace(newlineRun.ReplaceAllString(name, " "))
}

// NormalizeHeaders cleans every name in a header row
func NormalizeHeaders(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeHeader(n)
	}
	return out
}

// MissingHeaders returns the required names absent from headers, in required order
func MissingHeaders(headers, required []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, r := range required {
		if !present[r] {
			missing = append(missing, r)
		}
	}
	return missing
}
