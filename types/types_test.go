package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresSkills(t *testing.T) {
	assert.True(t, InterviewTechnical.RequiresSkills())
	assert.True(t, InterviewMixed.RequiresSkills())
	assert.False(t, InterviewBehavioral.RequiresSkills())
	assert.False(t, InterviewType("").RequiresSkills())
}

func TestIsAllowedQuestionCount(t *testing.T) {
	for _, n := range AllowedQuestionCounts {
		assert.True(t, IsAllowedQuestionCount(n))
	}
	for _, n := range []int{0, 1, 7, 25, -5} {
		assert.False(t, IsAllowedQuestionCount(n))
	}
}

func TestFieldByName(t *testing.T) {
	f, ok := FieldByName("amount")
	assert.True(t, ok)
	assert.Equal(t, "/amount", f.JSONPointer)
	_, ok = FieldByName("colour")
	assert.False(t, ok)
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(FormState{
		InterviewType: InterviewTechnical,
		Role:          "Backend Engineer",
		Skills:        []string{"Go", "SQL"},
		QuestionCount: 5,
	})
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Go, SQL")
	assert.Contains(t, out, "technical")
	assert.True(t, strings.Contains(out, "|"))
	assert.Contains(t, out, unsetValue)
}
