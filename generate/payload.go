// Package generate talks to the interview generation backend.
package generate

import (
	"strings"

	"github.com/tbxark/interviewform/types"
)

const SkillSeparator = ", "

// Payload is the wire form of a validated snapshot.
type Payload struct {
	Type   string `json:"type" jsonschema:"enum=technical,enum=behavioral,enum=mixed,description=Interview type"`
	Role   string `json:"role" jsonschema:"minLength=1,description=Job title the interview targets"`
	Level  string `json:"level" jsonschema:"enum=entry,enum=mid,enum=senior,enum=staff,enum=manager,description=Experience level"`
	Skills string `json:"skills" jsonschema:"description=Comma separated skill tags"`
	Amount int    `json:"amount" jsonschema:"enum=3,enum=5,enum=10,enum=15,enum=20,description=Number of questions"`
	UserID string `json:"userid" jsonschema:"minLength=1,description=Identifier of the requesting user"`
}

func NewPayload(state types.FormState) Payload {
	return Payload{
		Type:   string(state.InterviewType),
		Role:   state.Role,
		Level:  string(state.ExperienceLevel),
		Skills: strings.Join(state.Skills, SkillSeparator),
		Amount: state.QuestionCount,
		UserID: state.UserID,
	}
}

// SkillList splits the wire skills string back into tags.
func (p Payload) SkillList() []string {
	if strings.TrimSpace(p.Skills) == "" {
		return nil
	}
	parts := strings.Split(p.Skills, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
