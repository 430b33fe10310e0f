// Package draft generates stage content grounded in the previous stage's
// approved record: a job description from the collected hiring intent, and
// screening questions from the approved description.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/hireflow/hireflow/structured"
)

// Request describes one drafting call. Grounding is the approved upstream
// record rendered as text and is the only input for a first draft; Current
// and Feedback drive revisions.
type Request struct {
	Grounding string
	// Current is the existing draft as JSON, empty for a first draft.
	Current  string
	Feedback string
}

type Drafter[T any] interface {
	Draft(ctx context.Context, req *Request) (T, error)
}

type ToolBasedDrafter[T any] struct {
	chain *structured.ToolChain[*Request, T]
}

func NewToolBasedDrafter[T any](
	chatModel model.ToolCallingChatModel,
	toolName, toolDesc, systemPrompt string,
) (*ToolBasedDrafter[T], error) {
	chain, err := structured.NewToolChain[*Request, T](
		chatModel,
		buildDraftPrompt(systemPrompt),
		toolName,
		toolDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("create drafter chain for %s: %w", toolName, err)
	}
	return &ToolBasedDrafter[T]{chain: chain}, nil
}

func (d *ToolBasedDrafter[T]) Draft(ctx context.Context, req *Request) (T, error) {
	result, err := d.chain.Invoke(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return *result, nil
}

func buildDraftPrompt(systemPrompt string) structured.PromptFunc[*Request] {
	return func(ctx context.Context, req *Request) ([]*schema.Message, error) {
		sections := []string{
			fmt.Sprintf("# Approved upstream context:\n%s", req.Grounding),
		}
		if req.Current != "" {
			sections = append(sections, fmt.Sprintf("# Current draft JSON:\n```json\n%s\n```", req.Current))
		}
		if req.Feedback != "" {
			sections = append(sections, fmt.Sprintf("# User feedback to incorporate:\n%s", req.Feedback))
		}
		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(strings.Join(sections, "\n\n")),
		}, nil
	}
}
