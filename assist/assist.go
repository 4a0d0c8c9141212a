// Package assist fills the form from free text with a chat model.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/interviewform/form"
	"github.com/tbxark/interviewform/patch"
	"github.com/tbxark/interviewform/structured"
	"github.com/tbxark/interviewform/types"
)

const (
	fillToolName        = "update_form"
	fillToolDescription = "Generate RFC6902 JSON Patch operations to update the interview form based on user input. Only include operations for information explicitly provided by the user."
)

// Target is the form the assistant writes to. *controller.Controller satisfies it.
type Target interface {
	Snapshot() types.FormState
	SetField(name, value string) error
	AddSkill(text string) (form.AddResult, error)
	RemoveSkill(text string) (bool, error)
}

// Result lists the operations that changed the form and why the others were skipped.
type Result struct {
	Applied []patch.Operation
	Skipped []string
}

type Assistant struct {
	chain        *structured.Chain[*request, patch.UpdateArgs]
	allowedPaths []string
	allowed      map[string]bool
	logger       *slog.Logger
}

func New(chatModel model.ToolCallingChatModel, logger *slog.Logger) (*Assistant, error) {
	chain, err := structured.NewChain[*request, patch.UpdateArgs](
		chatModel,
		buildFillPrompt,
		fillToolName,
		fillToolDescription,
	)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	paths := []string{
		types.FieldInterviewType.JSONPointer,
		types.FieldRole.JSONPointer,
		types.FieldExperienceLevel.JSONPointer,
		types.FieldQuestionCount.JSONPointer,
		types.FieldSkills.JSONPointer + "/-",
	}
	return &Assistant{
		chain:        chain,
		allowedPaths: paths,
		allowed:      patch.AllowedSet(paths),
		logger:       logger,
	}, nil
}

// Fill asks the model for patch operations and applies them through target's
// field operations, so skills stay free of blanks and duplicates.
func (a *Assistant) Fill(ctx context.Context, target Target, text string) (*Result, error) {
	snapshot := target.Snapshot()
	args, err := a.chain.Invoke(ctx, &request{
		State:        snapshot,
		AllowedPaths: a.allowedPaths,
		UserInput:    text,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	a.logger.Debug("Generated form patch", "ops", args.Ops)

	res := &Result{}
	for _, op := range args.Ops {
		if !patch.PathAllowed(op.Path, a.allowed) {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s %s: path not allowed", op.Op, op.Path))
			continue
		}
		if err := a.apply(target, snapshot, op); err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s %s: %s", op.Op, op.Path, err))
			continue
		}
		res.Applied = append(res.Applied, op)
	}
	a.logger.Debug("Applied form patch", "applied", len(res.Applied), "skipped", len(res.Skipped))
	return res, nil
}

func (a *Assistant) apply(target Target, snapshot types.FormState, op patch.Operation) error {
	skillsPrefix := types.FieldSkills.JSONPointer + "/"
	if rest, ok := strings.CutPrefix(op.Path, skillsPrefix); ok {
		return applySkill(target, snapshot, op, rest)
	}

	field, ok := fieldByPointer(op.Path)
	if !ok {
		return errors.New("unknown field")
	}
	switch op.Op {
	case patch.OperationAdd, patch.OperationReplace:
		value, err := scalar(op.Value)
		if err != nil {
			return err
		}
		return target.SetField(field.Name, value)
	default:
		return errors.New("unsupported operation")
	}
}

func applySkill(target Target, snapshot types.FormState, op patch.Operation, token string) error {
	switch op.Op {
	case patch.OperationAdd:
		skill, ok := op.Value.(string)
		if !ok {
			return errors.New("skill must be a string")
		}
		_, err := target.AddSkill(skill)
		return err
	case patch.OperationRemove:
		i, err := strconv.Atoi(token)
		if err != nil || i < 0 || i >= len(snapshot.Skills) {
			return fmt.Errorf("no skill at index %q", token)
		}
		_, err = target.RemoveSkill(snapshot.Skills[i])
		return err
	default:
		return errors.New("unsupported operation")
	}
}

func fieldByPointer(pointer string) (types.FieldInfo, bool) {
	for _, f := range types.Fields {
		if f.JSONPointer == pointer {
			return f, true
		}
	}
	return types.FieldInfo{}, false
}

func scalar(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}
