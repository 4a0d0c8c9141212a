package patch

import (
	"fmt"
	"strings"
)

// CheckAllowed fails on the first operation whose path is outside allowed.
// An empty allowed set permits everything. Allowed entries may use "-" or "*"
// as a segment to match any array index or map key.
func CheckAllowed(ops []Operation, allowed map[string]bool) error {
	for i, op := range ops {
		if !PathAllowed(op.Path, allowed) {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}

func PathAllowed(path string, allowed map[string]bool) bool {
	if len(allowed) == 0 || allowed[path] {
		return true
	}
	segments := strings.Split(path, "/")
	return matchWildcard(segments, 1, allowed, false)
}

func matchWildcard(segments []string, index int, allowed map[string]bool, wildcard bool) bool {
	if index >= len(segments) {
		return wildcard && allowed[strings.Join(segments, "/")]
	}

	original := segments[index]
	defer func() { segments[index] = original }()

	for _, w := range []string{"-", "*"} {
		segments[index] = w
		if matchWildcard(segments, index+1, allowed, true) {
			return true
		}
	}
	segments[index] = original
	return matchWildcard(segments, index+1, allowed, wildcard)
}

// AllowedSet builds a lookup set from a list of pointers.
func AllowedSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
