package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tbxark/interviewform/types"
)

func validState() types.FormState {
	return types.FormState{
		InterviewType:   types.InterviewTechnical,
		Role:            "Backend Engineer",
		ExperienceLevel: types.LevelSenior,
		Skills:          []string{"Go", "SQL"},
		QuestionCount:   5,
		UserID:          "u1",
	}
}

func TestValidate_OK(t *testing.T) {
	res := Validate(validState())
	assert.True(t, res.OK)
	assert.Equal(t, RuleNone, res.Rule)
	assert.Empty(t, res.Message)
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.FormState)
		rule    Rule
		message string
	}{
		{"type unset", func(s *types.FormState) { s.InterviewType = "" }, RuleInterviewType, MsgInterviewType},
		{"type unknown", func(s *types.FormState) { s.InterviewType = "trivia" }, RuleInterviewType, MsgInterviewType},
		{"role blank", func(s *types.FormState) { s.Role = "   " }, RuleRole, MsgRole},
		{"level unset", func(s *types.FormState) { s.ExperienceLevel = "" }, RuleExperienceLevel, MsgExperienceLevel},
		{"level unknown", func(s *types.FormState) { s.ExperienceLevel = "wizard" }, RuleExperienceLevel, MsgExperienceLevel},
		{"technical without skills", func(s *types.FormState) { s.Skills = []string{} }, RuleSkills, MsgSkills},
		{"mixed without skills", func(s *types.FormState) {
			s.InterviewType = types.InterviewMixed
			s.Skills = nil
		}, RuleSkills, MsgSkills},
		{"count outside set", func(s *types.FormState) { s.QuestionCount = 7 }, RuleQuestionCount, MsgQuestionCount},
		{"count zero", func(s *types.FormState) { s.QuestionCount = 0 }, RuleQuestionCount, MsgQuestionCount},
		{"no user", func(s *types.FormState) { s.UserID = "" }, RuleUserID, MsgUserID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.mutate(&s)
			res := Validate(s)
			assert.False(t, res.OK)
			assert.Equal(t, tt.rule, res.Rule)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestValidate_TechnicalWithoutSkillsAlwaysRejected(t *testing.T) {
	s := validState()
	s.Skills = []string{}
	for _, n := range types.AllowedQuestionCounts {
		s.QuestionCount = n
		assert.Equal(t, RuleSkills, Validate(s).Rule)
	}
}

func TestValidate_BehavioralNeedsNoSkills(t *testing.T) {
	s := validState()
	s.InterviewType = types.InterviewBehavioral
	s.Skills = []string{}
	assert.True(t, Validate(s).OK)

	s.UserID = ""
	res := Validate(s)
	assert.NotEqual(t, RuleSkills, res.Rule)
	assert.Equal(t, RuleUserID, res.Rule)
}

func TestValidate_FirstFailingRuleWins(t *testing.T) {
	res := Validate(types.FormState{})
	assert.Equal(t, RuleInterviewType, res.Rule)

	s := types.FormState{InterviewType: types.InterviewTechnical, QuestionCount: 7}
	s.Role = "Dev"
	s.ExperienceLevel = types.LevelMid
	res = Validate(s)
	assert.Equal(t, RuleSkills, res.Rule, "skills rule precedes the question count rule")
}

func TestValidate_AllAllowedCounts(t *testing.T) {
	s := validState()
	for _, n := range types.AllowedQuestionCounts {
		s.QuestionCount = n
		assert.True(t, Validate(s).OK, "count %d", n)
	}
}
