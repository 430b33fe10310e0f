package draft

import (
	"fmt"

	"github.com/cloudwego/eino/components/model"

	"github.com/hireflow/hireflow/record"
)

const (
	questionsToolName        = "draft_screening_questions"
	questionsToolDescription = "Produce exactly ten technical pre-screening questions derived from the job description."
)

var questionsSystemPrompt = fmt.Sprintf(`You are an expert at creating precise technical screening questions. Call %s with the question list.

Quality standards:
- Generate exactly %d questions. No HR, behavioral or soft-skill questions.
- Each question must be derived from the skills, technologies or responsibilities in the job description.
- Keep questions unambiguous and professional.
- When a current question list and user feedback are provided, revise the list to incorporate the feedback and keep the rest intact; the revised list must still have exactly %d questions.
- Never set the approved flag; approval is the hiring manager's decision.`, questionsToolName, record.QuestionCount, record.QuestionCount)

// NewQuestionsDrafter builds a drafter that writes screening questions from
// the approved job description, and revises them from user feedback.
func NewQuestionsDrafter(chatModel model.ToolCallingChatModel) (*ToolBasedDrafter[record.Questions], error) {
	return NewToolBasedDrafter[record.Questions](
		chatModel,
		questionsToolName,
		questionsToolDescription,
		questionsSystemPrompt,
	)
}
