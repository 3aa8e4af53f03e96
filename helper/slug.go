package helper

import "strings"

// Slugify derives a URL-safe identifier from a display name: the input is
// lower-cased and every character outside [a-z0-9] becomes '-'. The same
// function runs at tag creation and at lookup so derived slugs always match.
func Slugify(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SplitCSV splits a comma-separated value list and trims whitespace around
// each piece. Blank pieces are dropped; a blank input yields nil.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
