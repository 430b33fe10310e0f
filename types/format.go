package types

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// PromptRequest carries everything a model-backed component needs to reason
// about one turn of a stage: the accumulated record, its schema, the latest
// exchange and the current gaps.
type PromptRequest[T any] struct {
	Record           T
	RecordSchema     string
	Stage            Stage
	MissingFields    []FieldInfo
	ValidationErrors []ValidationError
	// Grounding is the approved upstream record rendered as text, e.g. the
	// intent summary for the description stage.
	Grounding string
	// LastReply is the assistant's previous message, kept so classifiers can
	// read the user's answer in context.
	LastReply string
	UserInput string
}

// FormatPromptRequest renders a PromptRequest as the markdown user message
// shared by all tool-based components.
func FormatPromptRequest[T any](req *PromptRequest[T]) (string, error) {
	recordJSON, err := sonic.MarshalString(req.Record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	sections := []string{
		fmt.Sprintf("# Current record JSON:\n```json\n%s\n```", recordJSON),
	}
	if req.RecordSchema != "" {
		sections = append(sections, fmt.Sprintf("# Record schema JSON:\n```json\n%s\n```", req.RecordSchema))
	}
	if req.Stage != "" {
		sections = append(sections, fmt.Sprintf("# Workflow stage:\n%s", req.Stage))
	}
	if req.Grounding != "" {
		sections = append(sections, fmt.Sprintf("# Approved upstream context:\n%s", req.Grounding))
	}
	if req.LastReply != "" || req.UserInput != "" {
		sections = append(sections, "# Latest dialogue:")
		if req.LastReply != "" {
			sections = append(sections, fmt.Sprintf("## Assistant:\n%s", req.LastReply))
		}
		if req.UserInput != "" {
			sections = append(sections, fmt.Sprintf("## User:\n%s", req.UserInput))
		}
	}
	if s := formatMissingFieldsSection(req.MissingFields); s != "" {
		sections = append(sections, s)
	}
	if s := formatValidationErrorsSection(req.ValidationErrors); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n"), nil
}

func formatMissingFieldsSection(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Pointer", "Description")
	for _, field := range fields {
		_ = table.Append(field.DisplayName, field.JSONPointer, field.Description)
	}
	_ = table.Render()
	return buf.String()
}

func formatValidationErrorsSection(errors []ValidationError) string {
	if len(errors) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Validation errors:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Pointer", "Error")
	for _, err := range errors {
		_ = table.Append(err.JSONPointer, err.Message)
	}
	_ = table.Render()
	return buf.String()
}
