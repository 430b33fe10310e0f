package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/hireflow/hireflow/structured"
	"github.com/hireflow/hireflow/types"
)

const (
	updateRecordToolName        = "update_record"
	updateRecordToolDescription = "Generate RFC6902 JSON Patch operations that merge information from the user's message into the record. Only include operations for information the user explicitly provided."
)

type ToolBasedExtractor[T any] struct {
	chain   *structured.ToolChain[*types.PromptRequest[T], UpdateArgs]
	allowed map[string]bool
}

var _ Extractor[any] = (*ToolBasedExtractor[any])(nil)

func NewToolBasedExtractor[T any](chatModel model.ToolCallingChatModel, allowedPointers []string) (*ToolBasedExtractor[T], error) {
	chain, err := structured.NewToolChain[*types.PromptRequest[T], UpdateArgs](
		chatModel,
		buildExtractPrompt[T],
		updateRecordToolName,
		updateRecordToolDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("create extractor chain: %w", err)
	}
	allowed := make(map[string]bool, len(allowedPointers))
	for _, pointer := range allowedPointers {
		allowed[pointer] = true
	}
	return &ToolBasedExtractor[T]{chain: chain, allowed: allowed}, nil
}

func (e *ToolBasedExtractor[T]) Extract(ctx context.Context, req *types.PromptRequest[T]) (T, []string, error) {
	var zero T

	args, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return zero, nil, fmt.Errorf("generate record update: %w", err)
	}
	currentJSON, err := sonic.Marshal(req.Record)
	if err != nil {
		return zero, nil, fmt.Errorf("marshal current record: %w", err)
	}

	ops := NormalizeOps(currentJSON, args.Ops)
	slog.Debug("normalized extraction ops", "stage", req.Stage, "proposed", len(args.Ops), "kept", len(ops))
	if err := ValidateOps(ops, e.allowed); err != nil {
		return zero, nil, err
	}

	candidate, err := ApplyOps(req.Record, ops)
	if err != nil {
		return zero, nil, err
	}
	return candidate, ChangedPointers(ops), nil
}

func buildExtractPrompt[T any](ctx context.Context, req *types.PromptRequest[T]) ([]*schema.Message, error) {
	message, err := types.FormatPromptRequest(req)
	if err != nil {
		return nil, fmt.Errorf("format prompt request: %w", err)
	}

	systemPrompt := fmt.Sprintf(`You are the extraction step of a recruitment workflow assistant. Analyze the user's latest message and call %s with RFC6902 JSON Patch operations that merge the new information into the record.

Rules:
- Only extract information the user explicitly provided. Never invent values.
- Use replace to update existing fields and add for new fields or list entries.
- Never overwrite an already-filled field with an empty value. Do not overwrite existing data unless the user asks for a change.
- If the user refuses to provide a field (e.g. "none", "skip"), set it to "Not Provided".
- If the message adds nothing to the record, return an empty operation list.`, updateRecordToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	}, nil
}
