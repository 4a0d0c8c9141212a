package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/interviewform/agent"
	"github.com/tbxark/interviewform/controller"
	"github.com/tbxark/interviewform/session"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate",
		"--type", "technical", "--role", "Backend Engineer", "--level", "senior",
		"--skills", "Go, SQL", "--amount", "5", "--userid", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
	assert.Contains(t, out, `"skills": "Go, SQL"`)

	out, err = execute(t, "validate",
		"--type", "technical", "--role", "Backend Engineer", "--level", "senior",
		"--skills", "", "--amount", "5", "--userid", "u1")
	require.Error(t, err)
	assert.Contains(t, out, "add at least one specialty/skill")

	_, err = execute(t, "validate",
		"--type", "behavioral", "--role", "PM", "--level", "mid",
		"--skills", "", "--amount", "7", "--userid", "u1")
	assert.EqualError(t, err, "select a valid number of questions")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"userid"`)
}

type staticSource string

func (s staticSource) FetchUserID(ctx context.Context) (string, error) {
	return string(s), nil
}

func TestREPL(t *testing.T) {
	registry := session.NewRegistry(func(ctx context.Context) (*controller.Controller, error) {
		return controller.New(staticSource("u1"), nil)
	})
	ctx := session.WithKey(context.Background(), "repl")
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: agent.NewAgent("InterviewForm", "", registry)})
	history := agent.NewMemoryHistoryStore(agent.KeepLastNTrimmer{N: 10})

	var out bytes.Buffer
	in := strings.NewReader("set role SRE\n\nshow\nquit\nset role ignored\n")
	require.NoError(t, repl(ctx, in, &out, runner, history))

	text := out.String()
	assert.Contains(t, text, "Next: select interview type")
	assert.Contains(t, text, "SRE")
	assert.Contains(t, text, "Form discarded.")
	assert.NotContains(t, text, "ignored")

	hist, err := history.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, hist)
}
