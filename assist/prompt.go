package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/interviewform/types"
	"github.com/tbxark/interviewform/validate"
)

type request struct {
	State        types.FormState
	AllowedPaths []string
	UserInput    string
}

func formatAllowedPaths(paths []string) string {
	var sb strings.Builder
	for _, path := range paths {
		sb.WriteString("- ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatFieldGuidance() string {
	var sb strings.Builder
	sb.WriteString("Field guidance:\n")
	for _, field := range types.Fields {
		if field == types.FieldUserID {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s [%s]", field.DisplayName, field.JSONPointer))
		if field.Description != "" {
			sb.WriteString(": " + field.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatNextStep(state types.FormState) string {
	res := validate.Validate(state)
	if res.OK || res.Rule == validate.RuleUserID {
		return ""
	}
	return fmt.Sprintf("# Still needed:\n%s [%s]", res.Message, res.Field.JSONPointer)
}

func buildFillPrompt(ctx context.Context, req *request) ([]*schema.Message, error) {
	state := req.State
	state.UserID = ""
	stateJSON, err := sonic.MarshalString(state)
	if err != nil {
		return nil, fmt.Errorf("marshal form state: %w", err)
	}
	systemPrompt := fmt.Sprintf(`You are an assistant that fills in an interview setup form. Analyze the user input and call %s with RFC6902 JSON Patch operations.
Rules: only use information the user stated explicitly; use replace for scalar fields; append each new skill with add on /skills/-; remove a skill with remove on /skills/<index>; only use allowed paths; if nothing can be extracted, return empty operations.`, fillToolName)

	sections := []string{
		fmt.Sprintf("# Form state JSON:\n%s", stateJSON),
		fmt.Sprintf("# Allowed paths:\n%s", formatAllowedPaths(req.AllowedPaths)),
		formatFieldGuidance(),
	}
	if s := formatNextStep(req.State); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User input:\n%s", req.UserInput))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(strings.Join(sections, "\n\n")),
	}, nil
}
