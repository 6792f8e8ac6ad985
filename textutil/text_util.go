package textutil

import (
	"regexp"
	"strings"
)

var (
	reMultiSpace          = regexp.MustCompile(`[^\S\n]+`)
	reMoreThan2Linebreaks = regexp.MustCompile(`\n{3,}`)
)

// SmartTrim collapses runs of spaces within each line and keeps at most
// one blank line between paragraphs.
func SmartTrim(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(reMultiSpace.ReplaceAllString(line, " "))
	}

	s = strings.Join(lines, "\n")
	s = reMoreThan2Linebreaks.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// SingleLine is [SmartTrim] for text that must fit in one line.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
