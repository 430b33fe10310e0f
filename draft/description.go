package draft

import (
	"github.com/cloudwego/eino/components/model"

	"github.com/hireflow/hireflow/record"
)

const (
	descriptionToolName        = "draft_job_description"
	descriptionToolDescription = "Produce a complete job description draft with title, summary, responsibilities and qualifications."

	descriptionSystemPrompt = `You are an expert at crafting compelling job descriptions. Call ` + descriptionToolName + ` with a full draft.

Quality standards:
- Do not just restate the collected facts. Infer standard responsibilities and skills implied by the role to paint a complete picture.
- Keep the tone engaging, professional and candidate-friendly.
- Write the summary as a brief, engaging paragraph that mentions the company when its name is known.
- Responsibilities and qualifications are concise bullet-point strings.
- When a current draft and user feedback are provided, revise the draft to incorporate the feedback and keep everything else intact.
- Never set the approved flag; approval is the hiring manager's decision.`
)

// NewDescriptionDrafter builds a drafter that writes a job description from
// the approved hiring intent, and revises it from user feedback.
func NewDescriptionDrafter(chatModel model.ToolCallingChatModel) (*ToolBasedDrafter[record.Description], error) {
	return NewToolBasedDrafter[record.Description](
		chatModel,
		descriptionToolName,
		descriptionToolDescription,
		descriptionSystemPrompt,
	)
}
