package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/tbxark/interviewform/structured"
)

const (
	questionToolName        = "write_interview_questions"
	questionToolDescription = "Return the interview questions written for the requested role, level and skills."
)

type questionSet struct {
	Questions []string `json:"questions" jsonschema:"required,description=Interview questions in the order they should be asked"`
}

// LLMGenerator writes the questions with a chat model instead of calling the
// generation backend.
type LLMGenerator struct {
	chain *structured.Chain[Payload, questionSet]
}

func NewLLMGenerator(chatModel model.ToolCallingChatModel) (*LLMGenerator, error) {
	chain, err := structured.NewChain[Payload, questionSet](
		chatModel,
		buildQuestionPrompt,
		questionToolName,
		questionToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &LLMGenerator{chain: chain}, nil
}

func (g *LLMGenerator) Generate(ctx context.Context, p Payload) (*Result, error) {
	out, err := g.chain.Invoke(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	questions := make([]string, 0, len(out.Questions))
	for _, q := range out.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, &ResponseError{Message: "the model returned no questions"}
	}
	if p.Amount > 0 && len(questions) > p.Amount {
		questions = questions[:p.Amount]
	}
	return &Result{
		RequestID: uuid.NewString(),
		Message:   fmt.Sprintf("generated %d questions", len(questions)),
		Questions: questions,
	}, nil
}

func buildQuestionPrompt(ctx context.Context, p Payload) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are an experienced interviewer preparing a mock interview.
Write exactly the requested number of questions. Match the difficulty to the experience level.
For technical interviews focus on the listed skills; for behavioral interviews ask about past situations; mixed interviews combine both.
Call the '%s' tool with the result.`, questionToolName)

	sections := []string{
		fmt.Sprintf("# Interview type:\n%s", p.Type),
		fmt.Sprintf("# Role:\n%s", p.Role),
		fmt.Sprintf("# Experience level:\n%s", p.Level),
		fmt.Sprintf("# Number of questions:\n%d", p.Amount),
	}
	if skills := p.SkillList(); len(skills) > 0 {
		sections = append(sections, "# Skills:\n- "+strings.Join(skills, "\n- "))
	}

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
