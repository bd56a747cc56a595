package caption

import (
	"strings"
)

const (
	descPrefix = "desc:"
	tagsPrefix = "tags:"
)

// Parsed holds the two fields the caption model is asked to return.
// Either may be empty when the model drifts from the format.
type Parsed struct {
	Description string
	TagLine     string
}

// ParseCompletion scans model output for the first DESC: and the first TAGS: line,
// case-insensitively. Other lines are ignored. It never fails.
func ParseCompletion(raw string) Parsed {
	var (
		out                Parsed
		haveDesc, haveTags bool
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case !haveDesc && strings.HasPrefix(lower, descPrefix):
			out.Description, haveDesc = afterColon(line), true
		case !haveTags && strings.HasPrefix(lower, tagsPrefix):
			out.TagLine, haveTags = afterColon(line), true
		}
	}
	return out
}

func afterColon(line string) string {
	_, rest, _ := strings.Cut(line, ":")
	return strings.TrimSpace(rest)
}

// Compose builds the caption body: title, description, blank line, tags
func Compose(title, description string, tags []string) string {
	return strings.TrimSpace(title + "\n" + description + "\n\n" + strings.Join(tags, " "))
}
