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

const questionsConfirmQuestion = "Do these work, or would you like changes? Say \"approve\" to finalize them, or describe what to change."

// QuestionsAgent generates the ten screening questions from the approved job
// description and runs the approve/revise loop. A list of any other length
// never finalizes.
type QuestionsAgent struct {
	spec            record.QuestionsSpec
	descriptionSpec record.DescriptionSpec
	schema          string
	drafter         draft.Drafter[record.Questions]
	extractor       extract.Extractor[record.Questions]
	classifier      approval.Classifier
}

var _ Agent = (*QuestionsAgent)(nil)

func NewQuestionsAgent(
	drafter draft.Drafter[record.Questions],
	extractor extract.Extractor[record.Questions],
	classifier approval.Classifier,
) (*QuestionsAgent, error) {
	spec := record.QuestionsSpec{}
	schema, err := spec.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &QuestionsAgent{
		spec:       spec,
		schema:     schema,
		drafter:    drafter,
		extractor:  extractor,
		classifier: classifier,
	}, nil
}

func (a *QuestionsAgent) Stage() types.Stage {
	return types.StageQuestions
}

func (a *QuestionsAgent) Process(ctx context.Context, sess *session.Session, userInput string) (*TurnResult, error) {
	if sess.Description == nil || !sess.Approved(types.StageDescription) {
		return nil, &PreconditionError{Stage: types.StageQuestions, Missing: types.StageDescription}
	}
	grounding := a.descriptionSpec.Summary(*sess.Description)

	if sess.Questions == nil {
		// First generation; the triggering message approved the description
		// and carries no feedback about questions.
		return a.firstDraft(ctx, sess, grounding)
	}

	decision, err := a.classifier.Classify(ctx, &approval.Request{
		Subject:  "the proposed screening questions",
		Question: sess.LastAssistantText(),
		Answer:   userInput,
	})
	if err != nil {
		return nil, fmt.Errorf("classify approval reply: %w", err)
	}

	switch decision {
	case approval.Approve:
		return a.approve(sess, grounding)
	case approval.Revise:
		return a.revise(ctx, sess, grounding, userInput)
	default:
		return &TurnResult{
			Status: types.StatusAwaitingApproval,
			Reply:  "Just to confirm — should I finalize these questions, or change something? " + questionsConfirmQuestion,
		}, nil
	}
}

func (a *QuestionsAgent) firstDraft(ctx context.Context, sess *session.Session, grounding string) (*TurnResult, error) {
	drafted, err := a.drafter.Draft(ctx, &draft.Request{Grounding: grounding})
	if err != nil {
		return nil, fmt.Errorf("draft screening questions: %w", err)
	}
	drafted.Approved = false

	if invalid := a.spec.Validate(drafted); len(invalid) > 0 {
		// An off-count draft is never stored; the next message regenerates.
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply: fmt.Sprintf("I came up with %d questions instead of the required %d. Send any message and I'll generate a fresh set.",
				len(drafted.Items), record.QuestionCount),
		}, nil
	}

	sess.Questions = &drafted
	return &TurnResult{
		Status: types.StatusAwaitingApproval,
		Reply: fmt.Sprintf("Here are %d proposed technical screening questions:\n\n%s\n\n%s",
			record.QuestionCount, a.spec.Summary(drafted), questionsConfirmQuestion),
	}, nil
}

func (a *QuestionsAgent) approve(sess *session.Session, grounding string) (*TurnResult, error) {
	if invalid := a.spec.Validate(*sess.Questions); len(invalid) > 0 {
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply:  "I can't finalize the questions yet.\n" + validationErrorsReply(invalid),
		}, nil
	}
	updated := *sess.Questions
	updated.Approved = true
	sess.Questions = &updated

	var sb strings.Builder
	sb.WriteString("The screening questions are approved.\n\n")
	sb.WriteString("Finalized job description:\n\n")
	sb.WriteString(grounding)
	sb.WriteString("\n\nFinalized questions:\n\n")
	sb.WriteString(a.spec.Summary(updated))
	sb.WriteString("\n\nThis concludes our session.")
	return &TurnResult{Status: types.StatusApproved, Reply: sb.String()}, nil
}

func (a *QuestionsAgent) revise(ctx context.Context, sess *session.Session, grounding, userInput string) (*TurnResult, error) {
	current := *sess.Questions
	req := &types.PromptRequest[record.Questions]{
		Record:           current,
		RecordSchema:     a.schema,
		Stage:            types.StageQuestions,
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
			Reply:  "Understood — which question should change, and to what? E.g. \"replace question 5 with one about Kubernetes\".",
		}, nil
	}

	candidate.Approved = false
	sess.Questions = &candidate

	if invalid := a.spec.Validate(candidate); len(invalid) > 0 {
		return &TurnResult{
			Status: types.StatusIncomplete,
			Reply: fmt.Sprintf("Current questions:\n\n%s\n\n%s",
				a.spec.Summary(candidate), validationErrorsReply(invalid)),
		}, nil
	}
	return &TurnResult{
		Status: types.StatusAwaitingApproval,
		Reply: fmt.Sprintf("I've updated the questions.\n\n%s\n\nAny further changes? %s",
			a.spec.Summary(candidate), questionsConfirmQuestion),
	}, nil
}
