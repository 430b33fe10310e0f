// Package stage implements the three workflow stage agents. Each agent owns
// one record schema and one completeness predicate, merges user input through
// the extractor, and reports a turn status back to the supervisor.
package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/extract"
	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/types"
)

// TurnResult is what an agent reports for one processed turn. Its effect on
// the session is committed by the supervisor, never by the agent.
type TurnResult struct {
	Status types.Status
	Reply  string
}

type Agent interface {
	Stage() types.Stage
	// Process merges one user message into the agent's record on sess and
	// decides the stage status. sess is a working copy; the supervisor owns
	// the commit. A *PreconditionError return means the supervisor routed
	// here without the required upstream approval and is fatal.
	Process(ctx context.Context, sess *session.Session, userInput string) (*TurnResult, error)
}

// PreconditionError reports a routing defect: an agent was dispatched before
// its upstream stage was approved. It is never surfaced conversationally.
type PreconditionError struct {
	Stage   types.Stage
	Missing types.Stage
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("stage %s dispatched without an approved %s record", e.Stage, e.Missing)
}

func validationFailureReply(vf *extract.ValidationFailure) string {
	var parts []string
	for _, field := range vf.Fields {
		parts = append(parts, fmt.Sprintf("- %s: %s", field.JSONPointer, field.Message))
	}
	return "I couldn't use part of that — the following didn't check out:\n" +
		strings.Join(parts, "\n") +
		"\nCould you rephrase or correct it?"
}

func validationErrorsReply(errs []types.ValidationError) string {
	var parts []string
	for _, err := range errs {
		parts = append(parts, fmt.Sprintf("- %s: %s", err.JSONPointer, err.Message))
	}
	return "There's still something to fix before we can move on:\n" + strings.Join(parts, "\n")
}

func listFieldNames(fields []types.FieldInfo) string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.DisplayName)
	}
	return strings.Join(names, ", ")
}
