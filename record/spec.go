package record

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"

	"github.com/hireflow/hireflow/types"
)

// Spec describes one stage's record to the rest of the engine: its JSON
// schema for prompting, which fields are still missing, which values are
// invalid, the JSON pointers extraction may write to, and a human-readable
// summary.
type Spec[T any] interface {
	JSONSchema() (string, error)
	MissingFields(current T) []types.FieldInfo
	Validate(current T) []types.ValidationError
	AllowedPointers() []string
	Summary(current T) string
}

func reflectSchema(v any, title, description string) (string, error) {
	schema := jsonschema.Reflect(v)
	schema.Title = title
	schema.Description = description
	out, err := sonic.MarshalString(schema)
	if err != nil {
		return "", fmt.Errorf("marshal JSON schema for %s: %w", title, err)
	}
	return out, nil
}

type IntentSpec struct{}

var _ Spec[Intent] = IntentSpec{}

func (IntentSpec) JSONSchema() (string, error) {
	return reflectSchema(&Intent{}, "Hiring Intent",
		"The hiring manager's requirements for an open role: company, role title, required skills, experience level, location and employment type.")
}

func (IntentSpec) MissingFields(current Intent) []types.FieldInfo {
	var missing []types.FieldInfo
	if current.Company == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/company", DisplayName: "company", Required: true})
	}
	if current.RoleTitle == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/role_title", DisplayName: "role title", Required: true})
	}
	if len(current.Skills) == 0 {
		missing = append(missing, types.FieldInfo{JSONPointer: "/skills", DisplayName: "required skills", Required: true})
	}
	if current.Experience == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/experience", DisplayName: "experience level", Required: true})
	}
	if current.Location == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/location", DisplayName: "location", Required: true})
	}
	if current.EmploymentType == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/employment_type", DisplayName: "employment type", Required: true})
	}
	return missing
}

func (IntentSpec) Validate(current Intent) []types.ValidationError {
	var errs []types.ValidationError
	for i, skill := range current.Skills {
		if strings.TrimSpace(skill) == "" {
			errs = append(errs, types.ValidationError{
				JSONPointer: fmt.Sprintf("/skills/%d", i),
				Message:     "skill entries must not be blank",
			})
		}
	}
	return errs
}

func (IntentSpec) AllowedPointers() []string {
	return []string{"/company", "/role_title", "/skills", "/skills/-", "/skills/*", "/experience", "/location", "/employment_type"}
}

func (IntentSpec) Summary(current Intent) string {
	skills := strings.Join(current.Skills, ", ")
	return fmt.Sprintf("Company: %s\nRole: %s\nSkills: %s\nExperience: %s\nLocation: %s\nEmployment type: %s",
		orUnset(current.Company), orUnset(current.RoleTitle), orUnset(skills),
		orUnset(current.Experience), orUnset(current.Location), orUnset(current.EmploymentType))
}

type DescriptionSpec struct{}

var _ Spec[Description] = DescriptionSpec{}

func (DescriptionSpec) JSONSchema() (string, error) {
	return reflectSchema(&Description{}, "Job Description",
		"A professional job description draft with title, summary, responsibilities and qualifications.")
}

func (DescriptionSpec) MissingFields(current Description) []types.FieldInfo {
	var missing []types.FieldInfo
	if current.Title == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/title", DisplayName: "job title", Required: true})
	}
	if current.Summary == "" {
		missing = append(missing, types.FieldInfo{JSONPointer: "/summary", DisplayName: "summary", Required: true})
	}
	if len(current.Responsibilities) == 0 {
		missing = append(missing, types.FieldInfo{JSONPointer: "/responsibilities", DisplayName: "responsibilities", Required: true})
	}
	if len(current.Qualifications) == 0 {
		missing = append(missing, types.FieldInfo{JSONPointer: "/qualifications", DisplayName: "qualifications", Required: true})
	}
	return missing
}

func (DescriptionSpec) Validate(current Description) []types.ValidationError {
	var errs []types.ValidationError
	for i, item := range current.Responsibilities {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, types.ValidationError{
				JSONPointer: fmt.Sprintf("/responsibilities/%d", i),
				Message:     "responsibility entries must not be blank",
			})
		}
	}
	for i, item := range current.Qualifications {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, types.ValidationError{
				JSONPointer: fmt.Sprintf("/qualifications/%d", i),
				Message:     "qualification entries must not be blank",
			})
		}
	}
	return errs
}

// AllowedPointers deliberately excludes /approved: approval is an explicit
// human act recorded by the stage agent, never written by extraction.
func (DescriptionSpec) AllowedPointers() []string {
	return []string{
		"/title", "/summary",
		"/responsibilities", "/responsibilities/-", "/responsibilities/*",
		"/qualifications", "/qualifications/-", "/qualifications/*",
	}
}

func (DescriptionSpec) Summary(current Description) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n%s\n", orUnset(current.Title), current.Summary)
	if len(current.Responsibilities) > 0 {
		sb.WriteString("\nKey responsibilities:\n")
		for _, item := range current.Responsibilities {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	if len(current.Qualifications) > 0 {
		sb.WriteString("\nRequired skills & qualifications:\n")
		for _, item := range current.Qualifications {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

type QuestionsSpec struct{}

var _ Spec[Questions] = QuestionsSpec{}

func (QuestionsSpec) JSONSchema() (string, error) {
	return reflectSchema(&Questions{}, "Screening Questions",
		"Exactly ten technical pre-screening questions derived from the approved job description.")
}

func (QuestionsSpec) MissingFields(current Questions) []types.FieldInfo {
	if len(current.Items) == 0 {
		return []types.FieldInfo{{
			JSONPointer: "/items",
			DisplayName: "screening questions",
			Description: fmt.Sprintf("exactly %d technical questions are required", QuestionCount),
			Required:    true,
		}}
	}
	return nil
}

func (QuestionsSpec) Validate(current Questions) []types.ValidationError {
	var errs []types.ValidationError
	if len(current.Items) != QuestionCount {
		errs = append(errs, types.ValidationError{
			JSONPointer: "/items",
			Message:     fmt.Sprintf("exactly %d questions are required, got %d", QuestionCount, len(current.Items)),
		})
	}
	for i, q := range current.Items {
		if strings.TrimSpace(q) == "" {
			errs = append(errs, types.ValidationError{
				JSONPointer: fmt.Sprintf("/items/%d", i),
				Message:     "questions must not be blank",
			})
		}
	}
	return errs
}

func (QuestionsSpec) AllowedPointers() []string {
	return []string{"/items", "/items/-", "/items/*"}
}

func (QuestionsSpec) Summary(current Questions) string {
	var sb strings.Builder
	for i, q := range current.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func orUnset(s string) string {
	if s == "" {
		return "(not provided)"
	}
	return s
}
