package types

import (
	"strings"
	"testing"
)

func TestStageNext(t *testing.T) {
	tests := []struct {
		stage Stage
		next  Stage
		ok    bool
	}{
		{StageIntent, StageDescription, true},
		{StageDescription, StageQuestions, true},
		{StageQuestions, StageEnd, true},
		{StageEnd, StageEnd, false},
		{Stage("bogus"), StageEnd, false},
	}
	for _, tt := range tests {
		next, ok := tt.stage.Next()
		if next != tt.next || ok != tt.ok {
			t.Errorf("%s.Next() = (%s, %v), want (%s, %v)", tt.stage, next, ok, tt.next, tt.ok)
		}
	}
	if StageEnd.Terminal() != true || StageIntent.Terminal() != false {
		t.Error("Terminal misclassifies stages")
	}
}

func TestFormatPromptRequestSections(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}
	req := &PromptRequest[sample]{
		Record:       sample{Name: "Acme"},
		RecordSchema: `{"type":"object"}`,
		Stage:        StageIntent,
		Grounding:    "approved intent summary",
		LastReply:    "What role are you hiring for?",
		UserInput:    "A backend engineer.",
		MissingFields: []FieldInfo{
			{JSONPointer: "/role_title", DisplayName: "Role Title", Description: "the position", Required: true},
		},
		ValidationErrors: []ValidationError{
			{JSONPointer: "/skills/1", Message: "must not be blank"},
		},
	}

	out, err := FormatPromptRequest(req)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{
		`"name":"Acme"`,
		"# Record schema JSON:",
		"# Workflow stage:\nintent",
		"approved intent summary",
		"## Assistant:\nWhat role are you hiring for?",
		"## User:\nA backend engineer.",
		"# Missing required fields:",
		"/role_title",
		"# Validation errors:",
		"must not be blank",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted request missing %q:\n%s", want, out)
		}
	}
}

func TestFormatPromptRequestOmitsEmptySections(t *testing.T) {
	type sample struct{}
	out, err := FormatPromptRequest(&PromptRequest[sample]{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, absent := range []string{"# Record schema", "# Workflow stage", "# Latest dialogue", "# Missing required", "# Validation errors"} {
		if strings.Contains(out, absent) {
			t.Errorf("empty request should omit %q:\n%s", absent, out)
		}
	}
	if !strings.Contains(out, "# Current record JSON:") {
		t.Error("record section should always be present")
	}
}
