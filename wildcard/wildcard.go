package wildcard

import "strings"

const (
	// Separator splits a name into segments.
	Separator = "."
	// Single matches exactly one segment.
	Single = "*"
	// Multi matches zero or more segments.
	Multi = "**"
)

// Segments splits s into its dot-separated segments.
// An empty string has no segments.
func Segments(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

// HasWildcard reports whether any segment of s is a wildcard.
func HasWildcard(s string) bool {
	for _, seg := range Segments(s) {
		if seg == Single || seg == Multi {
			return true
		}
	}
	return false
}

// Valid reports whether s is usable as an event name or pattern.
// Empty names and names with empty segments (like "a..b" or ".a") are rejected.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range Segments(s) {
		if seg == "" {
			return false
		}
	}
	return true
}

// Match reports whether name matches pattern.
func Match(pattern, name string) bool {
	if pattern == name {
		return true
	}
	if !strings.Contains(pattern, Single) {
		return false
	}
	return matchSegments(Segments(name), Segments(pattern))
}

// Overlaps reports whether either string matches the other as a pattern.
// This is how handler patterns are compared with lookup needles that may contain wildcards themselves.
func Overlaps(a, b string) bool {
	return Match(a, b) || Match(b, a)
}

func matchSegments(name, pattern []string) bool {
	ni, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == Multi {
			// Collapse runs of ** since they match the same thing as one.
			for pi+1 < len(pattern) && pattern[pi+1] == Multi {
				pi++
			}
			for ni <= len(name) {
				if matchSegments(name[ni:], pattern[pi+1:]) {
					return true
				}
				ni++
			}
			return false
		}
		if ni >= len(name) {
			return false
		}
		if pattern[pi] != Single && pattern[pi] != name[ni] {
			return false
		}
		ni++
		pi++
	}
	return ni == len(name)
}
