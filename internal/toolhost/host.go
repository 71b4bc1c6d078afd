// Package toolhost publishes a static set of tools and dispatches calls to them.
package toolhost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentkit/internal/metrics"
	"github.com/Cyclone1070/agentkit/internal/tool"
)

// ErrUnknownTool is matched by errors for names the host does not serve.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError names the tool that could not be dispatched.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// Handler executes one tool call and returns its text result.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Tool pairs a declaration with its handler.
type Tool struct {
	Declaration tool.Declaration
	Handler     Handler
}

// Host holds the registered tools. It is immutable after NewHost.
type Host struct {
	logger  *zap.SugaredLogger
	metrics *metrics.Recorder
	tools   []Tool
	byName  map[string]Handler
}

// NewHost registers tools in order. A later tool with a duplicate name
// replaces the handler but keeps its first position in List.
func NewHost(logger *zap.SugaredLogger, recorder *metrics.Recorder, tools ...Tool) *Host {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	h := &Host{
		logger:  logger,
		metrics: recorder,
		byName:  make(map[string]Handler, len(tools)),
	}
	for _, t := range tools {
		if _, dup := h.byName[t.Declaration.Name]; !dup {
			h.tools = append(h.tools, t)
		}
		h.byName[t.Declaration.Name] = t.Handler
	}
	return h
}

// List returns the tool declarations in registration order.
func (h *Host) List() []tool.Declaration {
	decls := make([]tool.Declaration, len(h.tools))
	for i, t := range h.tools {
		decls[i] = t.Declaration
	}
	return decls
}

// Call dispatches to the tool registered under name.
func (h *Host) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	handler, ok := h.byName[name]
	if !ok {
		h.logger.Warnw("unknown tool requested", "tool", name)
		h.metrics.RecordToolCall(name, "unknown", 0)
		return "", &UnknownToolError{Name: name}
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	out, err := handler(ctx, args)
	elapsed := time.Since(start)

	if err != nil {
		h.logger.Infow("tool call failed", "tool", name, "error", err, "duration", elapsed)
		h.metrics.RecordToolCall(name, "error", elapsed)
		return "", err
	}
	h.logger.Debugw("tool call succeeded", "tool", name, "duration", elapsed)
	h.metrics.RecordToolCall(name, "ok", elapsed)
	return out, nil
}
