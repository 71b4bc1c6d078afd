package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ToolFunc executes one tool invocation and returns its text result.
type ToolFunc func(ctx context.Context, input json.RawMessage) (string, error)

// Executor maps tool names to the functions that run them.
type Executor map[string]ToolFunc

// Names returns the registered tool names, sorted.
func (e Executor) Names() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new Executor holding e's entries overlaid by other's.
func (e Executor) Merge(other Executor) Executor {
	out := make(Executor, len(e)+len(other))
	for name, fn := range e {
		out[name] = fn
	}
	for name, fn := range other {
		out[name] = fn
	}
	return out
}

// execute runs a single tool. The returned bool reports whether the result is an error
// result for the model. Only context cancellation is returned as a Go error.
func (e Executor) execute(ctx context.Context, name string, input json.RawMessage) (string, bool, error) {
	fn, ok := e[name]
	if !ok {
		return fmt.Sprintf("Error: tool %q is not available", name), true, nil
	}
	out, err := fn(ctx, input)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", true, ctxErr
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err), true, nil
	}
	return out, false, nil
}
