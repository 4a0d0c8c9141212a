package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/interviewform/types"
)

// fieldAliases maps extra words accepted after "set" onto form field names.
var fieldAliases = map[string]string{
	"interview":  types.FieldInterviewType.Name,
	"title":      types.FieldRole.Name,
	"experience": types.FieldExperienceLevel.Name,
	"count":      types.FieldQuestionCount.Name,
	"questions":  types.FieldQuestionCount.Name,
}

// settableField resolves the word after "set" to a scalar form field.
func settableField(word string) (string, bool) {
	word = strings.ToLower(word)
	if name, ok := fieldAliases[word]; ok {
		word = name
	}
	f, ok := types.FieldByName(word)
	if !ok || f == types.FieldSkills || f == types.FieldUserID {
		return "", false
	}
	return f.Name, true
}

type LocalCommandParser struct {
	SubmitKeywords []string
	QuitKeywords   []string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		SubmitKeywords: []string{"submit", "generate", "confirm", "start"},
		QuitKeywords:   []string{"quit", "exit", "cancel", "stop"},
	}
}

// ParseCommand recognises the fixed command words. Anything else is returned
// as None so another parser can look at it.
func (p *LocalCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	line := strings.TrimSpace(input)
	if line == "" {
		return Command{Kind: None}, nil
	}
	head, rest, _ := strings.Cut(line, " ")
	head = strings.ToLower(head)
	rest = strings.TrimSpace(rest)

	if rest == "" {
		for _, keyword := range p.SubmitKeywords {
			if head == keyword {
				return Command{Kind: Submit}, nil
			}
		}
		for _, keyword := range p.QuitKeywords {
			if head == keyword {
				return Command{Kind: Quit}, nil
			}
		}
	}

	switch head {
	case "set":
		name, value, _ := strings.Cut(rest, " ")
		field, ok := settableField(name)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			return Command{Kind: None}, fmt.Errorf("%w: set <type|role|level|amount> <value>", ErrUsage)
		}
		return Command{Kind: Set, Field: field, Arg: value}, nil
	case "add", "remove", "rm":
		if rest == "" {
			return Command{Kind: None}, fmt.Errorf("%w: %s <skill>", ErrUsage, head)
		}
		if head == "add" {
			return Command{Kind: Add, Arg: rest}, nil
		}
		return Command{Kind: Remove, Arg: rest}, nil
	case "pending", "type-skill":
		return Command{Kind: Pending, Arg: rest}, nil
	case "enter":
		return Command{Kind: Enter}, nil
	case "show", "status", "summary":
		return Command{Kind: Show}, nil
	case "refresh", "login":
		return Command{Kind: Refresh}, nil
	case "help", "?":
		return Command{Kind: Help}, nil
	}
	return Command{Kind: None}, nil
}

// FailbackCommandParser asks each parser in turn and keeps the first answer
// that is not None.
type FailbackCommandParser struct {
	parsers []Parser
}

func NewFailbackCommandParser(parsers ...Parser) *FailbackCommandParser {
	return &FailbackCommandParser{parsers: parsers}
}

func (p *FailbackCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, input)
		if errors.Is(err, ErrUsage) {
			return cmd, err
		}
		if err != nil {
			lastErr = err
			continue
		}
		if cmd.Kind != None {
			return cmd, nil
		}
	}
	return Command{Kind: None}, lastErr
}
