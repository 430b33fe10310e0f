// Package structured forces a chat model to answer through a single tool
// call and decodes the call arguments into a typed value.
package structured

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// PromptFunc builds the message list for one invocation.
type PromptFunc[TIn any] func(ctx context.Context, input TIn) ([]*schema.Message, error)

type ToolChain[TIn, TOut any] struct {
	prompt    PromptFunc[TIn]
	chatModel model.ToolCallingChatModel
	toolInfo  *schema.ToolInfo
}

func NewToolChain[TIn, TOut any](
	chatModel model.ToolCallingChatModel,
	prompt PromptFunc[TIn],
	toolName, toolDesc string,
) (*ToolChain[TIn, TOut], error) {
	toolInfo, err := utils.GoStruct2ToolInfo[TOut](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info for %s: %w", toolName, err)
	}
	return &ToolChain[TIn, TOut]{
		prompt:    prompt,
		chatModel: chatModel,
		toolInfo:  toolInfo,
	}, nil
}

func (c *ToolChain[TIn, TOut]) Invoke(ctx context.Context, input TIn) (*TOut, error) {
	messages, err := c.prompt(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	response, err := c.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{c.toolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, c.toolInfo.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model: %w", err)
	}
	if len(response.ToolCalls) == 0 {
		return nil, fmt.Errorf("no tool call in model response: %s", response.Content)
	}

	var result TOut
	if err := sonic.UnmarshalString(response.ToolCalls[0].Function.Arguments, &result); err != nil {
		return nil, fmt.Errorf("parse tool call arguments: %w", err)
	}
	return &result, nil
}

func (c *ToolChain[TIn, TOut]) ToolInfo() *schema.ToolInfo {
	return c.toolInfo
}
