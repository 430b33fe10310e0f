package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hireflow/hireflow/approval"
	"github.com/hireflow/hireflow/draft"
	"github.com/hireflow/hireflow/extract"
	"github.com/hireflow/hireflow/record"
	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/types"
)

type fakeExtractor[T any] struct {
	fn func(req *types.PromptRequest[T]) (T, []string, error)
}

func (f fakeExtractor[T]) Extract(ctx context.Context, req *types.PromptRequest[T]) (T, []string, error) {
	return f.fn(req)
}

type fakeDrafter[T any] struct {
	fn func(req *draft.Request) (T, error)
}

func (f fakeDrafter[T]) Draft(ctx context.Context, req *draft.Request) (T, error) {
	return f.fn(req)
}

type fakeClassifier struct {
	decision approval.Decision
	err      error
}

func (f fakeClassifier) Classify(ctx context.Context, req *approval.Request) (approval.Decision, error) {
	return f.decision, f.err
}

func fullIntent() record.Intent {
	return record.Intent{
		Company:        "Acme",
		RoleTitle:      "Backend Engineer",
		Skills:         []string{"Python", "AWS"},
		Experience:     "3 years",
		Location:       "remote",
		EmploymentType: "full-time",
	}
}

func completeDescription() record.Description {
	return record.Description{
		Title:            "Backend Engineer",
		Summary:          "Build the services behind Acme's platform.",
		Responsibilities: []string{"Design APIs", "Operate services"},
		Qualifications:   []string{"Python", "AWS"},
	}
}

func tenQuestions() record.Questions {
	items := make([]string, record.QuestionCount)
	for i := range items {
		items[i] = fmt.Sprintf("Question %d?", i+1)
	}
	return record.Questions{Items: items}
}

func sessionAfterIntent() *session.Session {
	sess := session.New("")
	intent := fullIntent()
	sess.Intent = &intent
	sess.Approvals[types.StageIntent] = true
	sess.Stage = types.StageDescription
	return sess
}

func sessionAfterDescription() *session.Session {
	sess := sessionAfterIntent()
	desc := completeDescription()
	desc.Approved = true
	sess.Description = &desc
	sess.Approvals[types.StageDescription] = true
	sess.Stage = types.StageQuestions
	return sess
}

func TestIntentAgentCompleteInOneTurn(t *testing.T) {
	agent, err := NewIntentAgent(fakeExtractor[record.Intent]{
		fn: func(req *types.PromptRequest[record.Intent]) (record.Intent, []string, error) {
			return fullIntent(), []string{"/company", "/role_title", "/skills", "/experience", "/location", "/employment_type"}, nil
		},
	})
	if err != nil {
		t.Fatalf("new intent agent: %v", err)
	}

	sess := session.New("")
	result, err := agent.Process(context.Background(), sess,
		"Hiring a Backend Engineer at Acme, need Python and AWS, 3 years, remote, full-time")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusApproved {
		t.Errorf("expected approved, got %s", result.Status)
	}
	if sess.Intent == nil || sess.Intent.Company != "Acme" {
		t.Errorf("intent record not stored: %+v", sess.Intent)
	}
}

func TestIntentAgentPartialInputStaysIncomplete(t *testing.T) {
	agent, err := NewIntentAgent(fakeExtractor[record.Intent]{
		fn: func(req *types.PromptRequest[record.Intent]) (record.Intent, []string, error) {
			return record.Intent{Company: "Acme", RoleTitle: "Backend Engineer"}, []string{"/company", "/role_title"}, nil
		},
	})
	if err != nil {
		t.Fatalf("new intent agent: %v", err)
	}

	sess := session.New("")
	result, err := agent.Process(context.Background(), sess, "Acme, Backend Engineer")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusIncomplete {
		t.Errorf("expected incomplete, got %s", result.Status)
	}
	missing := record.IntentSpec{}.MissingFields(*sess.Intent)
	if len(missing) != 4 {
		t.Errorf("expected 4 missing fields, got %+v", missing)
	}
}

func TestIntentAgentValidationFailureIsConversational(t *testing.T) {
	agent, err := NewIntentAgent(fakeExtractor[record.Intent]{
		fn: func(req *types.PromptRequest[record.Intent]) (record.Intent, []string, error) {
			var zero record.Intent
			return zero, nil, &extract.ValidationFailure{Fields: []types.ValidationError{
				{JSONPointer: "/skills", Message: "expected a list of strings"},
			}}
		},
	})
	if err != nil {
		t.Fatalf("new intent agent: %v", err)
	}

	sess := session.New("")
	result, err := agent.Process(context.Background(), sess, "skills: 42")
	if err != nil {
		t.Fatalf("validation failure must not be an error: %v", err)
	}
	if result.Status != types.StatusIncomplete {
		t.Errorf("expected incomplete, got %s", result.Status)
	}
	if sess.Intent != nil {
		t.Errorf("rejected extraction must not mutate the record: %+v", sess.Intent)
	}
}

func TestIntentAgentPropagatesExternalFailure(t *testing.T) {
	wantErr := errors.New("provider timeout")
	agent, err := NewIntentAgent(fakeExtractor[record.Intent]{
		fn: func(req *types.PromptRequest[record.Intent]) (record.Intent, []string, error) {
			var zero record.Intent
			return zero, nil, wantErr
		},
	})
	if err != nil {
		t.Fatalf("new intent agent: %v", err)
	}

	_, err = agent.Process(context.Background(), session.New(""), "hello")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected provider error propagated, got %v", err)
	}
}

func newDescriptionAgent(t *testing.T, drafter draft.Drafter[record.Description], extractor extract.Extractor[record.Description], classifier approval.Classifier) *DescriptionAgent {
	t.Helper()
	agent, err := NewDescriptionAgent(drafter, extractor, classifier)
	if err != nil {
		t.Fatalf("new description agent: %v", err)
	}
	return agent
}

func TestDescriptionAgentRequiresApprovedIntent(t *testing.T) {
	agent := newDescriptionAgent(t, nil, nil, nil)
	_, err := agent.Process(context.Background(), session.New(""), "hello")
	var precondition *PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if precondition.Missing != types.StageIntent {
		t.Errorf("expected missing intent, got %s", precondition.Missing)
	}
}

func TestDescriptionAgentFirstDraftNeverArrivesApproved(t *testing.T) {
	agent := newDescriptionAgent(t,
		fakeDrafter[record.Description]{fn: func(req *draft.Request) (record.Description, error) {
			d := completeDescription()
			d.Approved = true // a model must not be able to self-approve
			return d, nil
		}},
		nil,
		fakeClassifier{decision: approval.Unclear},
	)

	sess := sessionAfterIntent()
	result, err := agent.Process(context.Background(), sess, "ok continue")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusAwaitingApproval {
		t.Errorf("expected awaiting approval, got %s", result.Status)
	}
	if sess.Description == nil || sess.Description.Approved {
		t.Errorf("draft must be stored unapproved: %+v", sess.Description)
	}
}

func TestDescriptionAgentApproves(t *testing.T) {
	agent := newDescriptionAgent(t, nil, nil, fakeClassifier{decision: approval.Approve})

	sess := sessionAfterIntent()
	desc := completeDescription()
	sess.Description = &desc
	result, err := agent.Process(context.Background(), sess, "looks good")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusApproved {
		t.Errorf("expected approved, got %s", result.Status)
	}
	if !sess.Description.Approved {
		t.Error("approval must set the approved flag")
	}
}

func TestDescriptionAgentReviseSurfacesChangedFields(t *testing.T) {
	agent := newDescriptionAgent(t,
		nil,
		fakeExtractor[record.Description]{fn: func(req *types.PromptRequest[record.Description]) (record.Description, []string, error) {
			updated := req.Record
			updated.Title = "Senior Backend Engineer"
			return updated, []string{"/title"}, nil
		}},
		fakeClassifier{decision: approval.Revise},
	)

	sess := sessionAfterIntent()
	desc := completeDescription()
	sess.Description = &desc
	result, err := agent.Process(context.Background(), sess, "change the title to Senior Engineer")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusAwaitingApproval {
		t.Errorf("expected awaiting approval, got %s", result.Status)
	}
	if sess.Description.Title != "Senior Backend Engineer" {
		t.Errorf("revision not applied: %+v", sess.Description)
	}
	if sess.Description.Approved {
		t.Error("revision must clear approval")
	}
	if want := "/title"; !containsString(result.Reply, want) {
		t.Errorf("reply must surface changed field %s: %q", want, result.Reply)
	}
}

func TestDescriptionAgentReviseWithoutSpecificsAsksForThem(t *testing.T) {
	agent := newDescriptionAgent(t,
		nil,
		fakeExtractor[record.Description]{fn: func(req *types.PromptRequest[record.Description]) (record.Description, []string, error) {
			return req.Record, nil, nil
		}},
		fakeClassifier{decision: approval.Revise},
	)

	sess := sessionAfterIntent()
	desc := completeDescription()
	sess.Description = &desc
	result, err := agent.Process(context.Background(), sess, "yes I want changes")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusAwaitingApproval {
		t.Errorf("expected awaiting approval, got %s", result.Status)
	}
}

func TestDescriptionAgentUnclearAsksToClarify(t *testing.T) {
	agent := newDescriptionAgent(t, nil, nil, fakeClassifier{decision: approval.Unclear})

	sess := sessionAfterIntent()
	desc := completeDescription()
	sess.Description = &desc
	result, err := agent.Process(context.Background(), sess, "hmm")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusAwaitingApproval {
		t.Errorf("expected awaiting approval, got %s", result.Status)
	}
	if sess.Description.Approved {
		t.Error("unclear reply must not approve")
	}
}

func newQuestionsAgent(t *testing.T, drafter draft.Drafter[record.Questions], extractor extract.Extractor[record.Questions], classifier approval.Classifier) *QuestionsAgent {
	t.Helper()
	agent, err := NewQuestionsAgent(drafter, extractor, classifier)
	if err != nil {
		t.Fatalf("new questions agent: %v", err)
	}
	return agent
}

func TestQuestionsAgentRequiresApprovedDescription(t *testing.T) {
	agent := newQuestionsAgent(t, nil, nil, nil)
	_, err := agent.Process(context.Background(), sessionAfterIntent(), "go ahead")
	var precondition *PreconditionError
	if !errors.As(err, &precondition) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}
	if precondition.Missing != types.StageDescription {
		t.Errorf("expected missing description, got %s", precondition.Missing)
	}
}

func TestQuestionsAgentRejectsOffCountDraft(t *testing.T) {
	agent := newQuestionsAgent(t,
		fakeDrafter[record.Questions]{fn: func(req *draft.Request) (record.Questions, error) {
			q := tenQuestions()
			q.Items = q.Items[:9]
			return q, nil
		}},
		nil,
		fakeClassifier{decision: approval.Unclear},
	)

	sess := sessionAfterDescription()
	result, err := agent.Process(context.Background(), sess, "ok continue")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusIncomplete {
		t.Errorf("expected incomplete for 9 questions, got %s", result.Status)
	}
	if sess.Questions != nil {
		t.Errorf("off-count draft must not be stored: %+v", sess.Questions)
	}
}

func TestQuestionsAgentApproveRecapsAndConcludes(t *testing.T) {
	agent := newQuestionsAgent(t, nil, nil, fakeClassifier{decision: approval.Approve})

	sess := sessionAfterDescription()
	q := tenQuestions()
	sess.Questions = &q
	result, err := agent.Process(context.Background(), sess, "approve")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusApproved {
		t.Errorf("expected approved, got %s", result.Status)
	}
	if !sess.Questions.Approved {
		t.Error("approval must set the approved flag")
	}
	for _, want := range []string{"Finalized job description", "Finalized questions", "concludes"} {
		if !containsString(result.Reply, want) {
			t.Errorf("final reply missing %q: %q", want, result.Reply)
		}
	}
}

func TestQuestionsAgentReviseToWrongCountStaysInvalid(t *testing.T) {
	agent := newQuestionsAgent(t,
		nil,
		fakeExtractor[record.Questions]{fn: func(req *types.PromptRequest[record.Questions]) (record.Questions, []string, error) {
			updated := req.Record
			updated.Items = updated.Items[:9]
			return updated, []string{"/items"}, nil
		}},
		fakeClassifier{decision: approval.Revise},
	)

	sess := sessionAfterDescription()
	q := tenQuestions()
	sess.Questions = &q
	result, err := agent.Process(context.Background(), sess, "remove the one about SQL")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result.Status != types.StatusIncomplete {
		t.Errorf("expected incomplete after dropping to 9, got %s", result.Status)
	}
}

func TestQuestionsAgentNeverFinalizesEmptiedList(t *testing.T) {
	sess := sessionAfterDescription()
	q := tenQuestions()
	sess.Questions = &q

	// A revision that strips every question must leave the record invalid.
	reviser := newQuestionsAgent(t,
		nil,
		fakeExtractor[record.Questions]{fn: func(req *types.PromptRequest[record.Questions]) (record.Questions, []string, error) {
			updated := req.Record
			updated.Items = nil
			return updated, []string{"/items"}, nil
		}},
		fakeClassifier{decision: approval.Revise},
	)
	result, err := reviser.Process(context.Background(), sess, "drop all of them")
	if err != nil {
		t.Fatalf("revise: %v", err)
	}
	if result.Status != types.StatusIncomplete {
		t.Errorf("expected incomplete after emptying the list, got %s", result.Status)
	}

	// Even if an empty list were sitting in the session, approval must refuse.
	approver := newQuestionsAgent(t, nil, nil, fakeClassifier{decision: approval.Approve})
	sess.Questions = &record.Questions{}
	result, err = approver.Process(context.Background(), sess, "approve")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if result.Status == types.StatusApproved {
		t.Fatal("an empty question list must never reach approved")
	}
	if sess.Questions.Approved {
		t.Error("approved flag set on an empty question list")
	}
}

func containsString(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
