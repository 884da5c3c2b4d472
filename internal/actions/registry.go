package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/nudge/internal/llm"
	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Registry is the fixed action table. It is built once at startup and is
// read-only afterwards.
type Registry struct {
	actions map[string]Action
	order   []string
	schemas map[string]*jsonschema.Schema
}

// NewRegistry compiles every action's parameter schema. Duplicate names and
// schemas that do not compile are startup errors.
func NewRegistry(actions ...Action) (*Registry, error) {
	r := &Registry{
		actions: make(map[string]Action, len(actions)),
		schemas: make(map[string]*jsonschema.Schema, len(actions)),
	}
	compiler := jsonschema.NewCompiler()
	for _, a := range actions {
		name := a.Name()
		if _, dup := r.actions[name]; dup {
			return nil, goerr.New("duplicate action", goerr.V("name", name))
		}
		raw, err := json.Marshal(a.Parameters())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode parameter schema", goerr.V("name", name))
		}
		url := name + ".json"
		if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, goerr.Wrap(err, "failed to add parameter schema", goerr.V("name", name))
		}
		sch, err := compiler.Compile(url)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to compile parameter schema", goerr.V("name", name))
		}
		r.actions[name] = a
		r.schemas[name] = sch
		r.order = append(r.order, name)
	}
	return r, nil
}

// DescribeTools returns the palette in registration order.
func (r *Registry) DescribeTools() []llm.Tool {
	tools := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		a := r.actions[name]
		tools = append(tools, llm.Tool{Name: name, Description: a.Description(), Parameters: a.Parameters()})
	}
	return tools
}

func (r *Registry) Lookup(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Validate checks args against the action's schema. args must already be in
// JSON-decoded form.
func (r *Registry) Validate(name string, args map[string]any) error {
	sch, ok := r.schemas[name]
	if !ok {
		return goerr.Wrap(ErrUnknownAction, "no such action", goerr.V("name", name))
	}
	if err := sch.Validate(any(args)); err != nil {
		return goerr.Wrap(ErrValidation, validationDetail(err), goerr.V("action", name))
	}
	return nil
}

// Execute runs one call. It never panics and never returns an error: every
// failure becomes a failed Result.
func (r *Registry) Execute(ctx context.Context, caller Caller, call llm.ToolCall) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("action panicked", "action", call.Name, "panic", p)
			res = Fail(goerr.New("action panicked", goerr.V("panic", fmt.Sprint(p))),
				fmt.Sprintf("Something went wrong while running %s.", call.Name))
		}
		res.Action = call.Name
	}()

	a, ok := r.actions[call.Name]
	if !ok {
		return Fail(goerr.Wrap(ErrUnknownAction, "no such action", goerr.V("name", call.Name)),
			fmt.Sprintf("I don't know how to %q.", call.Name))
	}

	args, err := normalizeArgs(call.Params)
	if err != nil {
		return Fail(goerr.Wrap(ErrValidation, err.Error()), fmt.Sprintf("The arguments for %s could not be read.", call.Name))
	}
	if err := r.schemas[call.Name].Validate(any(args)); err != nil {
		detail := validationDetail(err)
		return Fail(goerr.Wrap(ErrValidation, detail, goerr.V("action", call.Name)),
			fmt.Sprintf("The %s request is incomplete: %s.", call.Name, detail))
	}

	return a.Execute(ctx, Invocation{ID: call.ID, Caller: caller, Args: args})
}

// validationDetail returns the innermost schema violation, which is the one
// that names the offending field.
func validationDetail(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if ve.InstanceLocation == "" {
		return ve.Message
	}
	return ve.InstanceLocation + ": " + ve.Message
}
