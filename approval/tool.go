package approval

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/hireflow/hireflow/structured"
)

const (
	classifyToolName        = "classify_approval"
	classifyToolDescription = "Classify the user's reply as approval of the draft, a revision request, or unclear."
)

type classifyArgs struct {
	Decision Decision `json:"decision" jsonschema:"required,enum=approve,enum=revise,enum=unclear,description=The user's decision about the draft"`
}

type ToolBasedClassifier struct {
	chain *structured.ToolChain[*Request, classifyArgs]
}

var _ Classifier = (*ToolBasedClassifier)(nil)

func NewToolBasedClassifier(chatModel model.ToolCallingChatModel) (*ToolBasedClassifier, error) {
	chain, err := structured.NewToolChain[*Request, classifyArgs](
		chatModel,
		buildClassifyPrompt,
		classifyToolName,
		classifyToolDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("create approval classifier chain: %w", err)
	}
	return &ToolBasedClassifier{chain: chain}, nil
}

func (c *ToolBasedClassifier) Classify(ctx context.Context, req *Request) (Decision, error) {
	result, err := c.chain.Invoke(ctx, req)
	if err != nil {
		return Unclear, err
	}
	switch result.Decision {
	case Approve, Revise, Unclear:
		return result.Decision, nil
	default:
		return Unclear, fmt.Errorf("unexpected decision %q from %s", result.Decision, classifyToolName)
	}
}

func buildClassifyPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are part of a recruitment workflow assistant. The user was just shown %s and asked whether it looks good. Classify their reply and call %s.

IMPORTANT: Always read the user's answer together with the assistant's question. A bare "yes" or "no" changes meaning with the question's phrasing. Never judge isolated words.

- approve: the user is satisfied and wants to move on (e.g. "looks good", "approved", "no changes needed", "proceed").
- revise: the user wants something changed, whether they name the change ("add Python to the skills") or merely signal they have edits ("yes, I want changes").
- unclear: the reply does not clearly express either, is off-topic, or is ambiguous about which they mean.`, req.Subject, classifyToolName)

	sections := []string{
		fmt.Sprintf("# Assistant question:\n%s", req.Question),
		fmt.Sprintf("# User answer:\n%s", req.Answer),
	}
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
