package analysis

import (
	"fmt"
	"regexp"
)

// entryPointClassifier decides whether a filename matches the entry-point
// whitelist. It is a pure filename predicate, independent of the graph.
type entryPointClassifier struct {
	patterns []*regexp.Regexp
}

// newEntryPointClassifier compiles the whitelist patterns
// case-insensitively, preserving order.
func newEntryPointClassifier(patterns []string) (*entryPointClassifier, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compiling entry-point pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &entryPointClassifier{patterns: compiled}, nil
}

// IsEntryPoint reports whether a basename matches any whitelist pattern.
func (c *entryPointClassifier) IsEntryPoint(base string) bool {
	for _, re := range c.patterns {
		if re.MatchString(base) {
			return true
		}
	}
	return false
}
