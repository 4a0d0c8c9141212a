package types

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

const unsetValue = "-"

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return unsetValue
	}
	return s
}

// FormatSummary renders the form values as a markdown table.
func FormatSummary(state FormState) string {
	amount := unsetValue
	if state.QuestionCount != 0 {
		amount = strconv.Itoa(state.QuestionCount)
	}
	rows := [][2]string{
		{FieldInterviewType.DisplayName, orUnset(string(state.InterviewType))},
		{FieldRole.DisplayName, orUnset(state.Role)},
		{FieldExperienceLevel.DisplayName, orUnset(string(state.ExperienceLevel))},
		{FieldSkills.DisplayName, orUnset(strings.Join(state.Skills, ", "))},
		{FieldQuestionCount.DisplayName, amount},
		{FieldUserID.DisplayName, orUnset(state.UserID)},
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value")
	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}
	_ = table.Render()
	return buf.String()
}
