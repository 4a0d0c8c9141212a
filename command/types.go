// Package command turns REPL lines into form operations.
package command

import (
	"context"
	"errors"
)

type Kind string

const (
	None    Kind = "none"
	Set     Kind = "set"
	Add     Kind = "add"
	Remove  Kind = "remove"
	Pending Kind = "pending"
	Enter   Kind = "enter"
	Submit  Kind = "submit"
	Show    Kind = "show"
	Refresh Kind = "refresh"
	Help    Kind = "help"
	Quit    Kind = "quit"
	// Fill hands free text to the form assistant.
	Fill Kind = "fill"
)

type Command struct {
	Kind  Kind   `json:"kind"`
	Field string `json:"field,omitempty"`
	Arg   string `json:"arg,omitempty"`
}

var ErrUsage = errors.New("invalid command usage")

type Parser interface {
	ParseCommand(ctx context.Context, input string) (Command, error)
}
