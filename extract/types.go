// Package extract turns free-form user text into validated updates of a
// stage record. The model proposes RFC6902 patch operations which are
// normalized, checked against the stage's allowed pointers, applied and
// re-validated before the candidate record is accepted.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/types"
)

type Operation struct {
	Op    string `json:"op" jsonschema:"required,enum=add,enum=replace,enum=remove,description=Patch operation type"`
	Path  string `json:"path" jsonschema:"required,description=JSON Pointer of the field to change"`
	Value any    `json:"value,omitempty" jsonschema:"description=New value for add and replace operations"`
}

type UpdateArgs struct {
	Ops []Operation `json:"ops" jsonschema:"description=RFC6902 JSON Patch operations, empty when the input adds nothing"`
}

const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Extractor merges one user message into the accumulated record. It returns
// the candidate record and the JSON pointers that actually changed. A
// *ValidationFailure error means the model's output did not survive schema
// validation; any other error is an external capability failure.
type Extractor[T any] interface {
	Extract(ctx context.Context, req *types.PromptRequest[T]) (T, []string, error)
}

// ValidationFailure reports extractor output rejected by schema validation.
// It is recoverable: the stage agent surfaces the offending fields to the
// user instead of failing the turn.
type ValidationFailure struct {
	Fields []types.ValidationError
}

func (e *ValidationFailure) Error() string {
	var parts []string
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.JSONPointer, f.Message))
	}
	return "extracted data failed validation: " + strings.Join(parts, "; ")
}
