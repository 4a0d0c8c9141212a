package command

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/interviewform/structured"
)

const (
	parseCommandToolName        = "parse_command_intent"
	parseCommandToolDescription = "Analyze user input and determine command intent: submit, quit, show, fill, none."
)

type parseCommandInput struct {
	Intent Kind `json:"intent" jsonschema:"required,enum=submit,enum=quit,enum=show,enum=fill,enum=none,description=The user's command intent"`
}

// ToolCommandParser classifies free text with a chat model.
type ToolCommandParser struct {
	chain *structured.Chain[string, parseCommandInput]
}

func NewToolCommandParser(chatModel model.ToolCallingChatModel) (*ToolCommandParser, error) {
	chain, err := structured.NewChain[string, parseCommandInput](
		chatModel,
		buildParseCommandPrompt,
		parseCommandToolName,
		parseCommandToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolCommandParser{chain: chain}, nil
}

func (p *ToolCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	result, err := p.chain.Invoke(ctx, input)
	if err != nil {
		return Command{Kind: None}, err
	}
	switch result.Intent {
	case Submit, Quit, Show:
		return Command{Kind: result.Intent}, nil
	case Fill:
		return Command{Kind: Fill, Arg: input}, nil
	case None:
		return Command{Kind: None}, nil
	case "":
		return Command{Kind: None}, fmt.Errorf("empty intent returned by %s", parseCommandToolName)
	default:
		return Command{Kind: None}, fmt.Errorf("unexpected intent %q returned by %s", result.Intent, parseCommandToolName)
	}
}

func buildParseCommandPrompt(ctx context.Context, input string) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are an assistant for an interview setup form. The form collects the interview type, the target role, the experience level, a list of skills and the number of questions.

Determine what the user wants to do with their latest message. Choose exactly one intent:
- submit: the user explicitly asks to generate the interview or submit the form (e.g. "let's go, generate it", "submit"). General agreement like "ok" is not submit.
- quit: the user explicitly wants to abandon the form.
- show: the user asks to see what has been filled in so far.
- fill: the message provides or changes form values, such as a role, a level, skills to add or remove, or how many questions they want.
- none: small talk or anything unrelated to the form.

Call the '%s' tool with the result.`, parseCommandToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(input),
	}, nil
}
