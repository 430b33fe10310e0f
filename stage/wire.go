package stage

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"

	"github.com/hireflow/hireflow/approval"
	"github.com/hireflow/hireflow/draft"
	"github.com/hireflow/hireflow/extract"
	"github.com/hireflow/hireflow/record"
)

// NewToolAgents wires all three stage agents against a single tool-calling
// chat model: tool-based extractors scoped to each stage's allowed pointers,
// grounded drafters for the generated stages, and a model-based approval
// classifier with a keyword fallback.
func NewToolAgents(chatModel model.ToolCallingChatModel) (*IntentAgent, *DescriptionAgent, *QuestionsAgent, error) {
	toolClassifier, err := approval.NewToolBasedClassifier(chatModel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create approval classifier: %w", err)
	}
	classifier := approval.NewFallbackClassifier(toolClassifier, approval.NewKeywordClassifier())

	intentExtractor, err := extract.NewToolBasedExtractor[record.Intent](chatModel, record.IntentSpec{}.AllowedPointers())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create intent extractor: %w", err)
	}
	intentAgent, err := NewIntentAgent(intentExtractor)
	if err != nil {
		return nil, nil, nil, err
	}

	descriptionDrafter, err := draft.NewDescriptionDrafter(chatModel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create description drafter: %w", err)
	}
	descriptionExtractor, err := extract.NewToolBasedExtractor[record.Description](chatModel, record.DescriptionSpec{}.AllowedPointers())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create description extractor: %w", err)
	}
	descriptionAgent, err := NewDescriptionAgent(descriptionDrafter, descriptionExtractor, classifier)
	if err != nil {
		return nil, nil, nil, err
	}

	questionsDrafter, err := draft.NewQuestionsDrafter(chatModel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create questions drafter: %w", err)
	}
	questionsExtractor, err := extract.NewToolBasedExtractor[record.Questions](chatModel, record.QuestionsSpec{}.AllowedPointers())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create questions extractor: %w", err)
	}
	questionsAgent, err := NewQuestionsAgent(questionsDrafter, questionsExtractor, classifier)
	if err != nil {
		return nil, nil, nil, err
	}

	return intentAgent, descriptionAgent, questionsAgent, nil
}
