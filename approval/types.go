// Package approval classifies a human reply to an "is this good?" question
// as approval, a revision request, or unclear. The boundary is fuzzy by
// nature, so classification is best-effort with an explicit unclear fallback
// that asks the user to restate.
package approval

import "context"

type Decision string

const (
	Approve Decision = "approve"
	Revise  Decision = "revise"
	Unclear Decision = "unclear"
)

// Request carries the exchange to classify. Question is the assistant
// message the user is answering; a bare "no" means opposite things depending
// on how the question was phrased.
type Request struct {
	// Subject names what is being approved, e.g. "the job description draft".
	Subject  string
	Question string
	Answer   string
}

type Classifier interface {
	Classify(ctx context.Context, req *Request) (Decision, error)
}
