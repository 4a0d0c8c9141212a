package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/interviewform/types"
)

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	assert.Equal(t, types.DefaultQuestionCount, snap.QuestionCount)
	assert.Empty(t, snap.Skills)
	assert.NotNil(t, snap.Skills)
	assert.Empty(t, snap.UserID)
}

func TestSetField(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.SetField("type", "technical"))
	require.NoError(t, s.SetField("role", "Backend Engineer"))
	require.NoError(t, s.SetField("level", "senior"))
	require.NoError(t, s.SetField("amount", " 10 "))

	snap := s.Snapshot()
	assert.Equal(t, types.InterviewTechnical, snap.InterviewType)
	assert.Equal(t, "Backend Engineer", snap.Role)
	assert.Equal(t, types.LevelSenior, snap.ExperienceLevel)
	assert.Equal(t, 10, snap.QuestionCount)
}

func TestSetField_NoValidationAtMutation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetField("type", "interpretive-dance"))
	require.NoError(t, s.SetField("amount", "7"))

	snap := s.Snapshot()
	assert.Equal(t, types.InterviewType("interpretive-dance"), snap.InterviewType)
	assert.Equal(t, 7, snap.QuestionCount)
}

func TestSetField_Errors(t *testing.T) {
	s := NewStore()

	err := s.SetField("amount", "five")
	require.ErrorIs(t, err, ErrInvalidNumber)
	assert.Equal(t, types.DefaultQuestionCount, s.Snapshot().QuestionCount)

	assert.ErrorIs(t, s.SetField("userid", "u1"), ErrUnknownField)
	assert.ErrorIs(t, s.SetField("skills", "Go"), ErrUnknownField)
	assert.ErrorIs(t, s.SetField("color", "blue"), ErrUnknownField)
}

func TestAddSkill(t *testing.T) {
	s := NewStore()
	s.SetPending("  Go ")

	res, err := s.AddPending()
	require.NoError(t, err)
	assert.Equal(t, AddOK, res)
	assert.Empty(t, s.Pending(), "pending buffer is cleared after a successful add")

	res, err = s.AddSkill("Go")
	require.NoError(t, err)
	assert.Equal(t, AddDuplicate, res)

	res, err = s.AddSkill("   ")
	require.NoError(t, err)
	assert.Equal(t, AddEmpty, res)

	res, err = s.AddSkill("go")
	require.NoError(t, err)
	assert.Equal(t, AddOK, res, "de-duplication is case-sensitive")

	assert.Equal(t, []string{"Go", "go"}, s.Snapshot().Skills)
}

func TestAddSkill_RejectedKeepsPending(t *testing.T) {
	s := NewStore()
	_, err := s.AddSkill("SQL")
	require.NoError(t, err)

	s.SetPending("SQL")
	res, err := s.AddPending()
	require.NoError(t, err)
	assert.Equal(t, AddDuplicate, res)
	assert.Equal(t, "SQL", s.Pending())
}

func TestAddSkill_NeverStoresBlanksOrDuplicates(t *testing.T) {
	s := NewStore()
	inputs := []string{"Go", "", " Go", "SQL", "\t", "SQL ", "Kafka", "Go", "  "}
	for _, in := range inputs {
		_, err := s.AddSkill(in)
		require.NoError(t, err)
	}

	skills := s.Snapshot().Skills
	assert.Equal(t, []string{"Go", "SQL", "Kafka"}, skills)
	seen := map[string]bool{}
	for _, sk := range skills {
		assert.NotEmpty(t, sk)
		assert.False(t, seen[sk], "duplicate %q", sk)
		seen[sk] = true
	}
}

func TestRemoveSkill(t *testing.T) {
	s := NewStore()
	for _, sk := range []string{"Go", "SQL", "Kafka", "Redis"} {
		_, err := s.AddSkill(sk)
		require.NoError(t, err)
	}

	removed, err := s.RemoveSkill("SQL")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"Go", "Kafka", "Redis"}, s.Snapshot().Skills)

	removed, err = s.RemoveSkill("Rust")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{"Go", "Kafka", "Redis"}, s.Snapshot().Skills)

	removed, err = s.RemoveSkill("Redis")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"Go", "Kafka"}, s.Snapshot().Skills)
}

func TestResolveUserID_OneWay(t *testing.T) {
	s := NewStore()

	ok, err := s.ResolveUserID("")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ResolveUserID("u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ResolveUserID("u2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "u1", s.Snapshot().UserID)
}

func TestPrefill(t *testing.T) {
	s := NewStore()
	err := s.Prefill(types.FormState{
		InterviewType: types.InterviewMixed,
		Role:          "SRE",
		Skills:        []string{"Go", " ", "Go", "Linux"},
		UserID:        "ignored",
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, types.InterviewMixed, snap.InterviewType)
	assert.Equal(t, "SRE", snap.Role)
	assert.Equal(t, []string{"Go", "Linux"}, snap.Skills)
	assert.Equal(t, types.DefaultQuestionCount, snap.QuestionCount)
	assert.Empty(t, snap.UserID)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore()
	_, err := s.AddSkill("Go")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Skills[0] = "mutated"
	assert.Equal(t, []string{"Go"}, s.Snapshot().Skills)
}
