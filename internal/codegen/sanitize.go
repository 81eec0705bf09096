package codegen

import (
	"regexp"
	"strings"
)

// fenceLine matches a line made only of a ``` or ~~~ marker, optionally followed by a language tag.
var fenceLine = regexp.MustCompile("^\\s*(`{3,}|~{3,})\\s*[\\w.+#-]*\\s*$")

// SanitizeCode strips leading and trailing code-fence lines from a model response.
// Input without boundary fences is returned unchanged.
func SanitizeCode(raw string) string {
	lines := strings.Split(raw, "\n")

	first := firstContentLine(lines)
	if first < 0 {
		return raw
	}
	last := lastContentLine(lines)

	start, end := 0, len(lines)
	stripped := false
	if isFence(lines[first]) {
		start = first + 1
		stripped = true
	}
	if last >= start && isFence(lines[last]) {
		end = last
		stripped = true
	}
	if !stripped {
		return raw
	}
	if start >= end {
		return ""
	}
	return strings.Trim(strings.Join(lines[start:end], "\n"), "\r\n")
}

func isFence(line string) bool {
	return fenceLine.MatchString(strings.TrimRight(line, "\r"))
}

func firstContentLine(lines []string) int {
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			return i
		}
	}
	return -1
}

func lastContentLine(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}
