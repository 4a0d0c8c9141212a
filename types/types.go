package types

import "slices"

type InterviewType string

const (
	InterviewTechnical  InterviewType = "technical"
	InterviewBehavioral InterviewType = "behavioral"
	InterviewMixed      InterviewType = "mixed"
)

var InterviewTypes = []InterviewType{InterviewTechnical, InterviewBehavioral, InterviewMixed}

// RequiresSkills reports whether an interview of this type needs at least one skill tag.
func (t InterviewType) RequiresSkills() bool {
	return t == InterviewTechnical || t == InterviewMixed
}

type ExperienceLevel string

const (
	LevelEntry   ExperienceLevel = "entry"
	LevelMid     ExperienceLevel = "mid"
	LevelSenior  ExperienceLevel = "senior"
	LevelStaff   ExperienceLevel = "staff"
	LevelManager ExperienceLevel = "manager"
)

var ExperienceLevels = []ExperienceLevel{LevelEntry, LevelMid, LevelSenior, LevelStaff, LevelManager}

var AllowedQuestionCounts = []int{3, 5, 10, 15, 20}

const DefaultQuestionCount = 5

func IsAllowedQuestionCount(n int) bool {
	return slices.Contains(AllowedQuestionCounts, n)
}

type Status string

const (
	StatusIdle      Status = "idle"
	StatusInFlight  Status = "in-flight"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FormState is the full set of values collected by the interview form.
// Field names in JSON double as the wire names and the JSON pointers used to patch it.
type FormState struct {
	InterviewType   InterviewType   `json:"type"`
	Role            string          `json:"role"`
	ExperienceLevel ExperienceLevel `json:"level"`
	Skills          []string        `json:"skills"`
	QuestionCount   int             `json:"amount"`
	UserID          string          `json:"userid"`
}

type FieldInfo struct {
	Name        string `json:"name"`
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

var (
	FieldInterviewType = FieldInfo{
		Name:        "type",
		JSONPointer: "/type",
		DisplayName: "Interview type",
		Description: "technical, behavioral or mixed",
		Required:    true,
	}
	FieldRole = FieldInfo{
		Name:        "role",
		JSONPointer: "/role",
		DisplayName: "Role",
		Description: "job title the interview targets",
		Required:    true,
	}
	FieldExperienceLevel = FieldInfo{
		Name:        "level",
		JSONPointer: "/level",
		DisplayName: "Experience level",
		Description: "entry, mid, senior, staff or manager",
		Required:    true,
	}
	FieldSkills = FieldInfo{
		Name:        "skills",
		JSONPointer: "/skills",
		DisplayName: "Skills",
		Description: "required for technical and mixed interviews",
	}
	FieldQuestionCount = FieldInfo{
		Name:        "amount",
		JSONPointer: "/amount",
		DisplayName: "Number of questions",
		Description: "one of 3, 5, 10, 15, 20",
		Required:    true,
	}
	FieldUserID = FieldInfo{
		Name:        "userid",
		JSONPointer: "/userid",
		DisplayName: "User",
		Required:    true,
	}
)

var Fields = []FieldInfo{
	FieldInterviewType,
	FieldRole,
	FieldExperienceLevel,
	FieldSkills,
	FieldQuestionCount,
	FieldUserID,
}

func FieldByName(name string) (FieldInfo, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}
