package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/spf13/cobra"

	"github.com/tbxark/interviewform/agent"
	"github.com/tbxark/interviewform/assist"
	"github.com/tbxark/interviewform/command"
	"github.com/tbxark/interviewform/config"
	"github.com/tbxark/interviewform/controller"
	"github.com/tbxark/interviewform/notice"
	"github.com/tbxark/interviewform/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill in the form interactively",
	Long:  "Starts an interactive session. Type commands such as \"set role Backend Engineer\" or \"add Go\", then \"submit\". With an LLM configured, free text is understood as well.",
	RunE:  runInteractive,
}

var (
	runOffline bool
	runToken   string
	runForm    formFlags
)

func init() {
	runCmd.Flags().BoolVar(&runOffline, "offline", false, "Generate the questions with the configured LLM instead of the generation endpoint")
	runCmd.Flags().StringVar(&runToken, "token", "", "Bearer token used for the identity lookup")
	runCmd.Flags().StringVar(&runForm.interviewType, "type", "", "Initial interview type")
	runCmd.Flags().StringVar(&runForm.role, "role", "", "Initial role")
	runCmd.Flags().StringVar(&runForm.level, "level", "", "Initial experience level")
	runCmd.Flags().StringVar(&runForm.skills, "skills", "", "Initial comma separated skills")
	runCmd.Flags().IntVar(&runForm.amount, "amount", 0, "Initial number of questions")

	rootCmd.AddCommand(runCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log)
	ctx := session.WithKey(cmd.Context(), session.NewKey())

	client := &http.Client{Timeout: cfg.Generate.Timeout}
	chatModel, err := newChatModel(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	src := newIdentitySource(cfg.Identity, runToken, client)
	gen, err := newGenerator(cfg.Generate, chatModel, runOffline, client, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	registry := session.NewRegistry(func(ctx context.Context) (*controller.Controller, error) {
		return controller.New(src, gen,
			controller.WithLogger(logger),
			controller.WithHistory(notice.NewRecorder(notice.KeepLastN{N: cfg.Notice.History})),
			controller.WithNotifier(notice.LogNotifier{Logger: logger.With("component", "notice")}),
			controller.WithInitialState(runForm.state()),
		)
	}, session.WithRegistryLogger(logger))

	opts := []agent.Option{agent.WithLogger(logger)}
	if chatModel != nil {
		toolParser, pErr := command.NewToolCommandParser(chatModel)
		if pErr != nil {
			return pErr
		}
		assistant, aErr := assist.New(chatModel, logger)
		if aErr != nil {
			return aErr
		}
		opts = append(opts,
			agent.WithParser(command.NewFailbackCommandParser(command.NewLocalCommandParser(), toolParser)),
			agent.WithAssistant(assistant),
		)
	}
	formAgent := agent.NewAgent(
		"InterviewForm",
		"An agent that collects the parameters of a mock interview and submits them for generation",
		registry,
		opts...,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: formAgent})
	history := agent.NewMemoryHistoryStore(agent.KeepLastNTrimmer{N: 50})

	ctrl, err := registry.Acquire(ctx)
	if err != nil {
		return err
	}
	_ = ctrl.Wait(ctx)
	for _, n := range ctrl.Unread() {
		fmt.Fprintf(out, "[%s] %s\n", n.Kind, n.Message)
	}
	fmt.Fprintln(out, "Let's set up your interview. Type \"help\" for the list of commands.")

	return repl(ctx, cmd.InOrStdin(), out, runner, history)
}

func repl(ctx context.Context, in io.Reader, out io.Writer, runner *adk.Runner, history *agent.HistoryStore) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "> ")
		input, rErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if rErr != nil {
				fmt.Fprintln(out)
				return nil
			}
			continue
		}
		msgs, err := history.Append(ctx, schema.UserMessage(input))
		if err != nil {
			return err
		}
		iter := runner.Run(ctx, msgs)
		done := false
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			if event.Output == nil || event.Output.MessageOutput == nil {
				continue
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			if _, apErr := history.Append(ctx, msg); apErr != nil {
				return apErr
			}
			fmt.Fprintln(out, msg.Content)
			if event.Action != nil && event.Action.Exit {
				done = true
			}
		}
		if done || rErr == io.EOF {
			return history.Clear(ctx)
		}
		if rErr != nil {
			return rErr
		}
	}
}
