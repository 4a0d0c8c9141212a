// Package structured gets typed answers out of a chat model by forcing a single tool call.
package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

var ErrNoToolCall = errors.New("model response has no matching tool call")

type PromptBuilder[In any] func(ctx context.Context, input In) ([]*schema.Message, error)

// Chain renders a prompt for In, asks the model to call a tool whose parameters
// are the JSON schema of Out, and decodes the arguments of that call.
type Chain[In, Out any] struct {
	prompt    PromptBuilder[In]
	chatModel model.ToolCallingChatModel
	tool      *schema.ToolInfo
}

func NewChain[In, Out any](
	chatModel model.ToolCallingChatModel,
	prompt PromptBuilder[In],
	toolName string,
	toolDesc string,
) (*Chain[In, Out], error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	info, err := utils.GoStruct2ToolInfo[Out](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[In, Out]{
		prompt:    prompt,
		chatModel: chatModel,
		tool:      info,
	}, nil
}

func (c *Chain[In, Out]) Invoke(ctx context.Context, input In) (*Out, error) {
	messages, err := c.prompt(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	resp, err := c.chatModel.Generate(ctx, messages,
		model.WithTools([]*schema.ToolInfo{c.tool}),
		model.WithToolChoice(schema.ToolChoiceForced, c.tool.Name),
	)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}

	args, err := c.arguments(resp)
	if err != nil {
		return nil, err
	}
	var out Out
	if err := sonic.UnmarshalString(args, &out); err != nil {
		return nil, fmt.Errorf("parse %s arguments failed: %w", c.tool.Name, err)
	}
	return &out, nil
}

// arguments prefers the call to our tool, then any call, then a JSON object in
// the plain content for models that ignore the forced tool choice.
func (c *Chain[In, Out]) arguments(resp *schema.Message) (string, error) {
	if resp == nil {
		return "", ErrNoToolCall
	}
	for _, call := range resp.ToolCalls {
		if call.Function.Name == c.tool.Name {
			return call.Function.Arguments, nil
		}
	}
	if len(resp.ToolCalls) > 0 {
		return resp.ToolCalls[0].Function.Arguments, nil
	}
	content := strings.TrimSpace(resp.Content)
	if strings.HasPrefix(content, "{") {
		return content, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoToolCall, resp.Content)
}

func (c *Chain[In, Out]) ToolInfo() *schema.ToolInfo {
	return c.tool
}
