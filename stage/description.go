package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hireflow/hireflow/approval"
	"github.com/hireflow/hireflow/draft"
	"github.com/hireflow/hireflow/extract"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/types"
)

const descriptionConfirmQuestion = "Does this look good, or would you like changes? Say \"approve\" to finalize it, or describe what to change."

// DescriptionAgent drafts the job description from the approved intent, then
// runs the approve/revise loop until the hiring manager signs off.
type DescriptionAgent struct {
	spec       record.DescriptionSpec
	intentSpec record.IntentSpec
	schema     string
	drafter    draft.Drafter[record.Description]
	extractor  extract.Extractor[record.Description]
	classifier approval.Classifier
}

var _ Agent = (*DescriptionAgent)(nil)

func NewDescriptionAgent(
	drafter draft.Drafter[record.Description],
	extractor extract.Extractor[record.Description],
	classifier approval.Classifier,
) (*DescriptionAgent, error) {
	spec := record.DescriptionSpec{}
	schema, err := spec.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &DescriptionAgent{
		spec:       spec,
		schema:     schema,
		drafter:    drafter,
		extractor:  extractor,
		classifier: classifier,
	}, nil
}

func (a *DescriptionAgent) Stage() types.Stage {
	return types.StageDescription
}

func (a *DescriptionAgent) Process(ctx context.Context, sess *session.Session, userInput string) (*TurnResult, error) {
	if sess.Intent == nil || !sess.Approved(types.StageIntent) {
		return nil, &PreconditionError{Stage: types.StageDescription, Missing: types.StageIntent}
	}
	grounding := a.intentSpec.Summary(*sess.Intent)

	if sess.Description == nil {
		// First draft. The triggering message is a stage-transition artifact,
		// not feedback, so it is deliberately not passed to the drafter.
		return a.firstDraft(ctx, sess, grounding)
	}

	decision, err := a.classifier.Classify(ctx, &approval.Request{
		Subject:  "the job description draft",
		Question: sess.LastAssistantText(),
		Answer:   userInput,
	})
	if err != nil {
		return nil, fmt.Errorf("classify approval reply: %w", err)
	}

	switch decision {
	case approval.Approve:
		return a.approve(sess)
	case approval.Revise:
		return a.revise(ctx, sess, grounding, userInput)
	default:
		return &TurnResult{
			Status: types.StatusAwaitingApproval,
			Reply:  "Just to confirm — should I finalize this draft, or change something? " + descriptionConfirmQuestion,
		}, nil
	}
}

func (a *DescriptionAgent) firstDraft(ctx context.Context, sess *session.Session, grounding string) (*TurnResult, error) {
	drafted, err := a.drafter.Draft(ctx, &draft.Request{Grounding: grounding})
	if err != nil {
		return nil, fmt.Errorf("draft job description: %w", err)
	}
	drafted.Approved = false
	sess.Description = &drafted

	rendered := "Job description draft:\n\n" + a.spec.Summary(drafted)
	if missing := a.spec.MissingFields(drafted); len(missing) > 0 {
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply: fmt.Sprintf("%s\n\nThe draft is still missing: %s. Tell me what to put there, or describe the role a bit more.",
				rendered, listFieldNames(missing)),
		}, nil
	}
	return &TurnResult{
		Status: types.StatusAwaitingApproval,
		Reply:  rendered + "\n\n" + descriptionConfirmQuestion,
	}, nil
}

func (a *DescriptionAgent) approve(sess *session.Session) (*TurnResult, error) {
	missing := a.spec.MissingFields(*sess.Description)
	invalid := a.spec.Validate(*sess.Description)
	if len(missing) > 0 || len(invalid) > 0 {
		reply := "I can't finalize the description yet."
		if len(missing) > 0 {
			reply += " Still missing: " + listFieldNames(missing) + "."
		}
		if len(invalid) > 0 {
			reply += "\n" + validationErrorsReply(invalid)
		}
		return &TurnResult{Status: types.StatusIncomplete, Reply: reply}, nil
	}
	updated := *sess.Description
	updated.Approved = true
	sess.Description = &updated
	return &TurnResult{
		Status: types.StatusApproved,
		Reply:  "The job description is approved. Moving on to screening questions.",
	}, nil
}

func (a *DescriptionAgent) revise(ctx context.Context, sess *session.Session, grounding, userInput string) (*TurnResult, error) {
	current := *sess.Description
	req := &types.PromptRequest[record.Description]{
		Record:           current,
		RecordSchema:     a.schema,
		Stage:            types.StageDescription,
		MissingFields:    a.spec.MissingFields(current),
		ValidationErrors: a.spec.Validate(current),
		Grounding:        grounding,
		LastReply:        sess.LastAssistantText(),
		UserInput:        userInput,
	}
	candidate, changed, err := a.extractor.Extract(ctx, req)
	if err != nil {
		var vf *extract.ValidationFailure
		if errors.As(err, &vf) {
			return &TurnResult{Status: types.StatusIncomplete, Reply: validationFailureReply(vf)}, nil
		}
		return nil, err
	}

	if len(changed) == 0 {
		return &TurnResult{
			Status: types.StatusAwaitingApproval,
			Reply:  "Understood — what exactly should change? Name the part and the new content, e.g. \"add Python to the qualifications\".",
		}, nil
	}

	candidate.Approved = false
	sess.Description = &candidate
	rendered := "Updated job description draft:\n\n" + a.spec.Summary(candidate)

	if invalid := a.spec.Validate(candidate); len(invalid) > 0 {
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply:  rendered + "\n\n" + validationErrorsReply(invalid),
		}, nil
	}
	return &TurnResult{
		Status: types.StatusAwaitingApproval,
		Reply: fmt.Sprintf("I've updated %s.\n\n%s\n\nAny further changes? %s",
			strings.Join(changed, ", "), rendered, descriptionConfirmQuestion),
	}, nil
}
