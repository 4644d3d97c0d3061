package validator

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Enumerate expands a glob pattern into a lexicographically ordered list of
// paths. No match yields an empty list; only a malformed pattern is an error.
func Enumerate(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}
