package subject

import (
	"path"
	"strings"
)

// ExtractName derives a display name from an uploaded filename: the extension
// is dropped, the stem is split on underscore, hyphen or space and the last
// segment wins ("photo_of_john.jpg" -> "john").
//
// Trailing separators ("photo_.jpg") fall back to the last non-empty segment,
// then to the whole stem, then to the filename itself, so the result is never
// empty for a non-empty input.
func ExtractName(filename string) string {
	filename = strings.TrimSpace(filename)
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	stem := base
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		stem = base[:idx]
	}

	segments := strings.FieldsFunc(stem, isSeparator)
	if len(segments) > 0 {
		return segments[len(segments)-1]
	}
	if stem != "" {
		return stem
	}
	if base != "" {
		return base
	}
	return filename
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
