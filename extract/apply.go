package extract

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/hireflow/hireflow/types"
)

// ApplyOps applies normalized patch operations to the current record. A
// result that cannot be decoded back into T is a validation failure, never a
// silent coercion.
func ApplyOps[T any](current T, ops []Operation) (T, error) {
	var zero T

	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return zero, fmt.Errorf("marshal current record: %w", err)
	}
	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return zero, fmt.Errorf("marshal patch operations: %w", err)
	}

	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return zero, &ValidationFailure{Fields: []types.ValidationError{{
			JSONPointer: "/",
			Message:     fmt.Sprintf("malformed patch: %v", err),
		}}}
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return zero, &ValidationFailure{Fields: []types.ValidationError{{
			JSONPointer: "/",
			Message:     fmt.Sprintf("patch does not apply: %v", err),
		}}}
	}

	var result T
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return zero, &ValidationFailure{Fields: []types.ValidationError{{
			JSONPointer: "/",
			Message:     "extracted values do not match the record's field types",
		}}}
	}
	return result, nil
}

// NormalizeOps repairs and filters model-proposed operations against the
// current record so that re-submitting the same message cannot regress state:
//   - replace on a missing path becomes add, remove on a missing path is dropped
//   - writes of empty values over non-empty fields are dropped
//   - array appends of values already present are dropped
func NormalizeOps(currentJSON []byte, ops []Operation) []Operation {
	var doc any
	if err := sonic.Unmarshal(currentJSON, &doc); err != nil {
		return ops
	}

	fixed := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch op.Op {
		case OpReplace, OpAdd:
			existing, exists := valueAt(doc, strings.TrimSuffix(op.Path, "/-"))
			if isAppendPath(op.Path) {
				if list, ok := existing.([]any); ok && containsValue(list, op.Value) {
					continue
				}
				fixed = append(fixed, op)
				continue
			}
			if isEmptyValue(op.Value) && exists && !isEmptyValue(existing) {
				continue
			}
			if op.Op == OpReplace && !pathExists(doc, op.Path) {
				op.Op = OpAdd
			}
			fixed = append(fixed, op)
		case OpRemove:
			if pathExists(doc, op.Path) {
				fixed = append(fixed, op)
			}
		default:
			fixed = append(fixed, op)
		}
	}
	return fixed
}

// ChangedPointers reports the top-level field pointers touched by ops, each
// at most once, in operation order.
func ChangedPointers(ops []Operation) []string {
	seen := make(map[string]struct{}, len(ops))
	var out []string
	for _, op := range ops {
		pointer := topLevelPointer(op.Path)
		if pointer == "" {
			continue
		}
		if _, ok := seen[pointer]; ok {
			continue
		}
		seen[pointer] = struct{}{}
		out = append(out, pointer)
	}
	return out
}

func topLevelPointer(path string) string {
	if !strings.HasPrefix(path, "/") {
		return ""
	}
	rest := path[1:]
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return ""
	}
	return "/" + rest
}

func isAppendPath(path string) bool {
	return strings.HasSuffix(path, "/-")
}

func containsValue(list []any, value any) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, value) {
			return true
		}
	}
	return false
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

func pathExists(doc any, path string) bool {
	_, ok := valueAt(doc, path)
	return ok
}

func valueAt(doc any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}

	tokens := strings.Split(path[1:], "/")
	cur := doc
	for _, token := range tokens {
		token = strings.ReplaceAll(token, "~1", "/")
		token = strings.ReplaceAll(token, "~0", "~")
		switch node := cur.(type) {
		case map[string]any:
			value, ok := node[token]
			if !ok {
				return nil, false
			}
			cur = value
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			cur = node[index]
		default:
			return nil, false
		}
	}
	return cur, true
}
