// Package validate decides whether a form snapshot may be submitted.
package validate

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tbxark/interviewform/types"
)

type Rule int

const (
	RuleNone Rule = iota
	RuleInterviewType
	RuleRole
	RuleExperienceLevel
	RuleSkills
	RuleQuestionCount
	RuleUserID
)

const (
	MsgInterviewType   = "select interview type"
	MsgRole            = "enter role"
	MsgExperienceLevel = "select experience level"
	MsgSkills          = "add at least one specialty/skill"
	MsgQuestionCount   = "select a valid number of questions"
	MsgUserID          = "user information missing; cannot submit"
)

type Result struct {
	OK      bool
	Rule    Rule
	Message string
	Field   types.FieldInfo
}

type rule struct {
	id      Rule
	field   types.FieldInfo
	message string
	check   func(types.FormState) bool
}

var (
	v = validator.New()

	typeTag   = "required,oneof=" + joinAny(types.InterviewTypes)
	levelTag  = "required,oneof=" + joinAny(types.ExperienceLevels)
	amountTag = "required,oneof=" + joinInts(types.AllowedQuestionCounts)

	// Order matters: the first failing rule is the one reported.
	rules = []rule{
		{RuleInterviewType, types.FieldInterviewType, MsgInterviewType, func(s types.FormState) bool {
			return v.Var(string(s.InterviewType), typeTag) == nil
		}},
		{RuleRole, types.FieldRole, MsgRole, func(s types.FormState) bool {
			return v.Var(strings.TrimSpace(s.Role), "required") == nil
		}},
		{RuleExperienceLevel, types.FieldExperienceLevel, MsgExperienceLevel, func(s types.FormState) bool {
			return v.Var(string(s.ExperienceLevel), levelTag) == nil
		}},
		{RuleSkills, types.FieldSkills, MsgSkills, func(s types.FormState) bool {
			if !s.InterviewType.RequiresSkills() {
				return true
			}
			return v.Var(s.Skills, "required,min=1,dive,required") == nil
		}},
		{RuleQuestionCount, types.FieldQuestionCount, MsgQuestionCount, func(s types.FormState) bool {
			return v.Var(s.QuestionCount, amountTag) == nil
		}},
		{RuleUserID, types.FieldUserID, MsgUserID, func(s types.FormState) bool {
			return v.Var(s.UserID, "required") == nil
		}},
	}
)

// Validate checks the whole snapshot and reports the first violated rule.
func Validate(state types.FormState) Result {
	for _, r := range rules {
		if !r.check(state) {
			return Result{Rule: r.id, Message: r.message, Field: r.field}
		}
	}
	return Result{OK: true}
}

func joinAny[S ~string](values []S) string {
	parts := make([]string, len(values))
	for i, s := range values {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, n := range values {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
