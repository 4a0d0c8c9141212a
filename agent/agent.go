// Package agent exposes an interview form session as an eino adk agent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/interviewform/assist"
	"github.com/tbxark/interviewform/command"
	"github.com/tbxark/interviewform/controller"
	"github.com/tbxark/interviewform/session"
	"github.com/tbxark/interviewform/types"
)

var _ adk.Agent = (*Agent)(nil)

// Reply is the answer to one user line. Done is set once the session is gone.
type Reply struct {
	Message string
	Done    bool
}

type Agent struct {
	name        string
	description string
	registry    *session.Registry
	parser      command.Parser
	assistant   *assist.Assistant
	logger      *slog.Logger
}

type Option func(*Agent)

func WithParser(parser command.Parser) Option {
	return func(a *Agent) {
		if parser != nil {
			a.parser = parser
		}
	}
}

// WithAssistant routes free text that is not a command to the form assistant.
func WithAssistant(assistant *assist.Assistant) Option {
	return func(a *Agent) {
		a.assistant = assistant
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAgent(name, description string, registry *session.Registry, opts ...Option) *Agent {
	a := &Agent{
		name:        name,
		description: description,
		registry:    registry,
		parser:      command.NewLocalCommandParser(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		reply, err := a.Handle(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("handle input failed: %w", err),
			})
			return
		}
		event := &adk.AgentEvent{
			AgentName: a.name,
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: reply.Message,
					},
					Role: schema.Assistant,
				},
			},
		}
		if reply.Done {
			event.Action = &adk.AgentAction{Exit: true}
		}
		gen.Send(event)
	}()
	return iter
}

// Handle runs one user line against the session in ctx and describes the result.
func (a *Agent) Handle(ctx context.Context, line string) (*Reply, error) {
	ctrl, err := a.registry.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	cmd, err := a.parser.ParseCommand(ctx, line)
	if errors.Is(err, command.ErrUsage) {
		return &Reply{Message: err.Error()}, nil
	}
	if err != nil {
		a.logger.Warn("Parsing command failed", "error", err)
		cmd = command.Command{Kind: command.None}
	}
	if cmd.Kind == command.None && a.assistant != nil && strings.TrimSpace(line) != "" {
		cmd = command.Command{Kind: command.Fill, Arg: line}
	}
	a.logger.Debug("Parsed command", "command", cmd)

	var lines []string
	hint := true
	switch cmd.Kind {
	case command.Set:
		if line, failed := storeFailure("update "+cmd.Field, ctrl.SetField(cmd.Field, cmd.Arg)); failed {
			lines = append(lines, line)
		} else if cmd.Field == types.FieldQuestionCount.Name {
			if n := ctrl.Snapshot().QuestionCount; !types.IsAllowedQuestionCount(n) {
				lines = append(lines, fmt.Sprintf("%d questions is not offered; choose %s.", n, types.FieldQuestionCount.Description))
			}
		}
	case command.Add:
		if _, aErr := ctrl.AddSkill(cmd.Arg); aErr != nil {
			line, _ := storeFailure("add skill", aErr)
			lines = append(lines, line)
		}
	case command.Remove:
		removed, rErr := ctrl.RemoveSkill(cmd.Arg)
		if rErr != nil {
			return nil, rErr
		}
		if !removed {
			lines = append(lines, fmt.Sprintf("%q is not in the skill list", cmd.Arg))
		}
	case command.Pending:
		ctrl.SetPending(cmd.Arg)
		hint = false
	case command.Enter:
		if _, aErr := ctrl.AddPending(); aErr != nil {
			line, _ := storeFailure("add skill", aErr)
			lines = append(lines, line)
		}
	case command.Submit:
		lines = append(lines, describeOutcome(ctrl.Submit(ctx))...)
		hint = false
	case command.Show:
		lines = append(lines, types.FormatSummary(ctrl.Snapshot()))
		if p := ctrl.Pending(); p != "" {
			lines = append(lines, fmt.Sprintf("Pending skill: %s", p))
		}
	case command.Refresh:
		if !ctrl.Refresh(ctx) {
			lines = append(lines, "still no user information")
		}
	case command.Help:
		lines = append(lines, helpText)
		hint = false
	case command.Quit:
		if err := a.registry.Remove(ctx); err != nil {
			return nil, err
		}
		return &Reply{Message: "Form discarded.", Done: true}, nil
	case command.Fill:
		res, fErr := a.assistant.Fill(ctx, ctrl, cmd.Arg)
		if fErr != nil {
			a.logger.Warn("Form assistant failed", "error", fErr)
			lines = append(lines, "Sorry, I could not read that. Try a command such as \"set role Backend Engineer\".")
		} else if len(res.Applied) == 0 {
			lines = append(lines, "Nothing in that message changes the form.")
		}
	default:
		lines = append(lines, "Unrecognised command. Type \"help\" for the list of commands.")
		hint = false
	}

	for _, n := range ctrl.Unread() {
		lines = append(lines, renderNotice(n))
	}
	if hint {
		lines = append(lines, nextStep(ctrl))
	}
	return &Reply{Message: strings.Join(lines, "\n")}, nil
}

var _ assist.Target = (*controller.Controller)(nil)
