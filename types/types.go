package types

// Stage identifies one step of the hiring workflow. The supervisor only ever
// moves a session forward through the fixed order intent -> description ->
// questions -> end.
type Stage string

const (
	StageIntent      Stage = "intent"
	StageDescription Stage = "description"
	StageQuestions   Stage = "questions"
	StageEnd         Stage = "end"
)

// Next returns the stage that follows s. The second return value is false
// when s is terminal or unknown.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageIntent:
		return StageDescription, true
	case StageDescription:
		return StageQuestions, true
	case StageQuestions:
		return StageEnd, true
	default:
		return StageEnd, false
	}
}

// Terminal reports whether s is the end of the workflow.
func (s Stage) Terminal() bool {
	return s == StageEnd
}

// Status is the outcome a stage agent reports for a single turn.
type Status string

const (
	StatusIncomplete       Status = "incomplete"
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusApproved         Status = "approved"
)

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

type ValidationError struct {
	JSONPointer string `json:"json_pointer"`
	Message     string `json:"message"`
}
