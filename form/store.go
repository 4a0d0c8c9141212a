package form

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tbxark/interviewform/patch"
	"github.com/tbxark/interviewform/types"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidNumber = errors.New("invalid number")
)

type AddResult int

const (
	AddOK AddResult = iota
	AddEmpty
	AddDuplicate
)

func (r AddResult) String() string {
	switch r {
	case AddOK:
		return "ok"
	case AddEmpty:
		return "empty"
	case AddDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// settable maps SetField names onto the pointers they write.
var settable = map[string]string{
	types.FieldInterviewType.Name:   types.FieldInterviewType.JSONPointer,
	types.FieldRole.Name:            types.FieldRole.JSONPointer,
	types.FieldExperienceLevel.Name: types.FieldExperienceLevel.JSONPointer,
	types.FieldQuestionCount.Name:   types.FieldQuestionCount.JSONPointer,
}

// Store holds the form values and the pending skill buffer. Every mutation is
// expressed as a JSON patch restricted to the pointers of types.FormState.
// A Store is not safe for concurrent use.
type Store struct {
	state   types.FormState
	pending string
	allowed map[string]bool
}

func NewStore() *Store {
	return &Store{
		state: types.FormState{
			Skills:        []string{},
			QuestionCount: types.DefaultQuestionCount,
		},
		allowed: patch.AllowedSet(patch.Pointers[types.FormState]()),
	}
}

func (s *Store) apply(ops ...patch.Operation) error {
	if err := patch.CheckAllowed(ops, s.allowed); err != nil {
		return err
	}
	next, err := patch.Apply(s.state, ops)
	if err != nil {
		return err
	}
	if next.Skills == nil {
		next.Skills = []string{}
	}
	s.state = next
	return nil
}

// SetField overwrites one scalar field. Values are not validated here except that
// the question count must parse as an integer.
func (s *Store) SetField(name, value string) error {
	pointer, ok := settable[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	var v any = value
	if name == types.FieldQuestionCount.Name {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidNumber, value)
		}
		v = n
	}
	return s.apply(patch.Replace(pointer, v))
}

// AddSkill appends the trimmed text unless it is empty or already present.
// A successful add clears the pending buffer.
func (s *Store) AddSkill(text string) (AddResult, error) {
	skill := strings.TrimSpace(text)
	if skill == "" {
		return AddEmpty, nil
	}
	if slices.Contains(s.state.Skills, skill) {
		return AddDuplicate, nil
	}
	if err := s.apply(patch.Add(types.FieldSkills.JSONPointer+"/-", skill)); err != nil {
		return AddOK, fmt.Errorf("add skill: %w", err)
	}
	s.pending = ""
	return AddOK, nil
}

// RemoveSkill drops text from the skill list, reporting whether it was present.
func (s *Store) RemoveSkill(text string) (bool, error) {
	i := slices.Index(s.state.Skills, text)
	if i < 0 {
		return false, nil
	}
	if err := s.apply(patch.Remove(types.FieldSkills.JSONPointer + "/" + strconv.Itoa(i))); err != nil {
		return false, fmt.Errorf("remove skill: %w", err)
	}
	return true, nil
}

func (s *Store) SetPending(text string) {
	s.pending = text
}

func (s *Store) Pending() string {
	return s.pending
}

// AddPending is the "add" trigger of the tag input.
func (s *Store) AddPending() (AddResult, error) {
	return s.AddSkill(s.pending)
}

// ResolveUserID records the user identifier. It only takes effect while no
// identifier is set.
func (s *Store) ResolveUserID(id string) (bool, error) {
	if s.state.UserID != "" || strings.TrimSpace(id) == "" {
		return false, nil
	}
	if err := s.apply(patch.Replace(types.FieldUserID.JSONPointer, id)); err != nil {
		return false, fmt.Errorf("set user id: %w", err)
	}
	return true, nil
}

// Prefill copies the non-zero fields of initial into the store. Skills go through
// AddSkill so the list stays free of blanks and duplicates; the user id is ignored.
func (s *Store) Prefill(initial types.FormState) error {
	scalar := initial
	scalar.Skills = nil
	scalar.UserID = ""

	ops, err := patch.Diff(s.state, scalar)
	if err != nil {
		return fmt.Errorf("prefill: %w", err)
	}
	if err := s.apply(ops...); err != nil {
		return fmt.Errorf("prefill: %w", err)
	}
	for _, skill := range initial.Skills {
		if _, err := s.AddSkill(skill); err != nil {
			return fmt.Errorf("prefill: %w", err)
		}
	}
	return nil
}

// Snapshot returns a copy of the current values that shares no memory with the store.
func (s *Store) Snapshot() types.FormState {
	snap := s.state
	snap.Skills = slices.Clone(s.state.Skills)
	if snap.Skills == nil {
		snap.Skills = []string{}
	}
	return snap
}
