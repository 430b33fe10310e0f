package extract

import (
	"strings"

	"github.com/hireflow/hireflow/types"
)

// ValidateOps rejects operations targeting pointers outside the stage's
// allowed set. Allowed sets may contain "-" and "*" wildcards for array
// element paths, e.g. "/skills/-" or "/items/*".
func ValidateOps(ops []Operation, allowed map[string]bool) error {
	if len(ops) == 0 || len(allowed) == 0 {
		return nil
	}
	var rejected []types.ValidationError
	for _, op := range ops {
		if !pathAllowed(op.Path, allowed) {
			rejected = append(rejected, types.ValidationError{
				JSONPointer: op.Path,
				Message:     "field is not part of this record",
			})
		}
	}
	if len(rejected) > 0 {
		return &ValidationFailure{Fields: rejected}
	}
	return nil
}

func pathAllowed(path string, allowed map[string]bool) bool {
	if allowed[path] {
		return true
	}
	segments := strings.Split(path, "/")
	return matchWildcard(segments, 1, allowed, false)
}

// matchWildcard tries replacing each path segment with "-" and "*" in turn
// and checks the resulting patterns against the allowed set.
func matchWildcard(segments []string, index int, allowed map[string]bool, substituted bool) bool {
	if index >= len(segments) {
		return substituted && allowed[strings.Join(segments, "/")]
	}

	original := segments[index]
	for _, wildcard := range []string{"-", "*"} {
		segments[index] = wildcard
		if matchWildcard(segments, index+1, allowed, true) {
			segments[index] = original
			return true
		}
	}
	segments[index] = original
	return matchWildcard(segments, index+1, allowed, substituted)
}
