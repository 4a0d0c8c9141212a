// Package fakemodel is a scripted chat model for tests.
package fakemodel

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var _ model.ToolCallingChatModel = (*Model)(nil)

// Model answers every Generate call with a tool call carrying Arguments, or
// with Err when set. It records the prompts it receives.
type Model struct {
	ToolName  string
	Arguments string
	Content   string
	Err       error

	mu      sync.Mutex
	prompts [][]*schema.Message
}

func ToolCall(name, arguments string) *Model {
	return &Model{ToolName: name, Arguments: arguments}
}

func (m *Model) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, input)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	msg := &schema.Message{Role: schema.Assistant, Content: m.Content}
	if m.Arguments != "" {
		msg.ToolCalls = []schema.ToolCall{{
			ID:       "call_1",
			Function: schema.FunctionCall{Name: m.ToolName, Arguments: m.Arguments},
		}}
	}
	return msg, nil
}

func (m *Model) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *Model) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if len(tools) == 0 {
		return nil, errors.New("no tools")
	}
	return m, nil
}

func (m *Model) Prompts() [][]*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts
}
