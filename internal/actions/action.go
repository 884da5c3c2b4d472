// Package actions holds the tool palette offered to the model: each Action
// has a name, a description, a JSON Schema for its arguments and a handler.
// Handlers are the only code that mutates persistent state on behalf of the
// model.
package actions

import (
	"context"
	"time"
)

// Caller identifies the user an invocation runs for.
type Caller struct {
	ExternalID string
	Location   *time.Location
}

func (c Caller) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

type Invocation struct {
	ID     string
	Caller Caller
	Args   map[string]any
}

// Result is the outcome of one invocation. Message is user-facing; Err is
// kept for logs only.
type Result struct {
	Action  string
	Success bool
	Message string
	Payload map[string]any
	Err     error
}

func OK(message string, payload map[string]any) Result {
	return Result{Success: true, Message: message, Payload: payload}
}

func Fail(err error, message string) Result {
	return Result{Success: false, Message: message, Err: err}
}

type Action interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, inv Invocation) Result
}

// Func adapts a plain function to the Action interface.
type Func struct {
	name        string
	description string
	params      map[string]any
	run         func(ctx context.Context, inv Invocation) Result
}

func New(name, description string, params map[string]any, run func(ctx context.Context, inv Invocation) Result) *Func {
	return &Func{name: name, description: description, params: params, run: run}
}

func (f *Func) Name() string                                       { return f.name }
func (f *Func) Description() string                                { return f.description }
func (f *Func) Parameters() map[string]any                         { return f.params }
func (f *Func) Execute(ctx context.Context, inv Invocation) Result { return f.run(ctx, inv) }
