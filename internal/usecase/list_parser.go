package usecase

import (
	"regexp"
	"strings"
)

// listMarker matches a leading "<number>." with tolerant whitespace.
var listMarker = regexp.MustCompile(`^\s*\d+\s*\.\s*`)

// ParseNumberedList splits a free-text completion into one entry per
// line, stripping a leading numbered-list marker where present and
// otherwise using the trimmed line. Callers discard blank entries; the
// completion service often emits trailing empty lines.
func ParseNumberedList(text string) []string {
	lines := strings.Split(text, "\n")
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		if loc := listMarker.FindStringIndex(line); loc != nil {
			entries = append(entries, strings.TrimSpace(line[loc[1]:]))
			continue
		}
		entries = append(entries, strings.TrimSpace(line))
	}
	return entries
}
