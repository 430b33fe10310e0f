package stage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hireflow/hireflow/extract"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/types"
)

// IntentAgent collects the six mandatory hiring facts. The stage completes
// as soon as all of them are present and valid; content completeness doubles
// as approval here, there is no separate confirmation gate.
type IntentAgent struct {
	spec      record.IntentSpec
	schema    string
	extractor extract.Extractor[record.Intent]
}

var _ Agent = (*IntentAgent)(nil)

func NewIntentAgent(extractor extract.Extractor[record.Intent]) (*IntentAgent, error) {
	spec := record.IntentSpec{}
	schema, err := spec.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &IntentAgent{spec: spec, schema: schema, extractor: extractor}, nil
}

func (a *IntentAgent) Stage() types.Stage {
	return types.StageIntent
}

func (a *IntentAgent) Process(ctx context.Context, sess *session.Session, userInput string) (*TurnResult, error) {
	current := record.Intent{}
	if sess.Intent != nil {
		current = *sess.Intent
	}

	req := &types.PromptRequest[record.Intent]{
		Record:           current,
		RecordSchema:     a.schema,
		Stage:            types.StageIntent,
		MissingFields:    a.spec.MissingFields(current),
		ValidationErrors: a.spec.Validate(current),
		LastReply:        sess.LastAssistantText(),
		UserInput:        userInput,
	}
	candidate, _, err := a.extractor.Extract(ctx, req)
	if err != nil {
		var vf *extract.ValidationFailure
		if errors.As(err, &vf) {
			return &TurnResult{Status: types.StatusIncomplete, Reply: validationFailureReply(vf)}, nil
		}
		return nil, err
	}
	sess.Intent = &candidate

	summary := "Collected so far:\n" + a.spec.Summary(candidate)
	missing := a.spec.MissingFields(candidate)
	invalid := a.spec.Validate(candidate)

	if len(missing) == 0 && len(invalid) == 0 {
		return &TurnResult{
			Status: types.StatusApproved,
			Reply: fmt.Sprintf("Great, I have all the required details.\n\n%s\n\nI'll draft the job description next.",
				summary),
		}, nil
	}
	if len(invalid) > 0 {
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply:  validationErrorsReply(invalid) + "\n\n" + summary,
		}, nil
	}
	return &TurnResult{
		Status: types.StatusIncomplete,
		Reply: fmt.Sprintf("Could you share the %s for this role? (still needed: %s)\n\n%s",
			missing[0].DisplayName, listFieldNames(missing), summary),
	}, nil
}
