// Package agent drives a bounded request/response loop against a hosted model.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentkit/internal/metrics"
	"github.com/Cyclone1070/agentkit/internal/provider"
	"github.com/Cyclone1070/agentkit/internal/tool"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

const (
	DefaultMaxIterations = 10
	DefaultTimeout       = 300_000 * time.Millisecond
	DefaultMaxTokens     = 4096
)

// Config is fixed at construction.
type Config struct {
	Model         string
	System        string
	MaxTokens     int
	MaxIterations int
	Timeout       time.Duration
	Tools         []tool.Declaration
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	c.Tools = append([]tool.Declaration(nil), c.Tools...)
	return c
}

// State is a snapshot of the mutable part of an Agent.
type State struct {
	Iteration  int
	LastAction string
	Context    map[string]any
}

// Agent runs the loop. Operations on one Agent are serialised by an internal
// mutex on state, but Run itself is meant to be called by one goroutine at a time.
type Agent struct {
	cfg      Config
	provider provider.Provider
	executor Executor
	events   chan<- workflow.Event
	logger   *zap.SugaredLogger
	metrics  *metrics.Recorder
	now      func() time.Time
	lenient  bool

	mu         sync.Mutex
	iteration  int
	lastAction string
	context    map[string]any
}

// Option customises an Agent.
type Option func(*Agent)

// WithExecutor injects the functions that execute requested tools.
func WithExecutor(e Executor) Option {
	return func(a *Agent) { a.executor = e }
}

// WithEvents makes Run emit workflow events on ch.
func WithEvents(ch chan<- workflow.Event) Option {
	return func(a *Agent) { a.events = ch }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Agent) { a.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Agent) { a.metrics = r }
}

// WithClock replaces time.Now for timeout accounting.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// WithLenientStopReasons keeps looping on stop reasons other than end_turn and
// tool_use instead of failing. Each such round still counts as an iteration.
func WithLenientStopReasons() Option {
	return func(a *Agent) { a.lenient = true }
}

// New creates an Agent. Zero values in cfg are replaced by defaults.
func New(p provider.Provider, cfg Config, opts ...Option) *Agent {
	a := &Agent{
		cfg:      cfg.withDefaults(),
		provider: p,
		executor: Executor{},
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
		context:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns a copy of the agent's configuration.
func (a *Agent) Config() Config {
	cfg := a.cfg
	cfg.Tools = append([]tool.Declaration(nil), a.cfg.Tools...)
	return cfg
}

// Run sends message to the model until it ends its turn, the iteration bound
// is hit, or the timeout elapses. The timeout is checked before every round;
// the model call itself is also bounded by the remaining time.
func (a *Agent) Run(ctx context.Context, message string) (result string, err error) {
	start := a.now()
	var transcript []provider.Message

	defer func() {
		a.metrics.RecordRun(outcome(err))
		a.emit(ctx, workflow.DoneEvent{Err: err})
	}()

	for a.Iteration() < a.cfg.MaxIterations {
		elapsed := a.now().Sub(start)
		if elapsed > a.cfg.Timeout {
			return "", &TimeoutError{Elapsed: elapsed, Limit: a.cfg.Timeout}
		}

		a.emit(ctx, workflow.ThinkingEvent{Iteration: a.Iteration()})
		if err := ctx.Err(); err != nil {
			return "", err
		}

		req := &provider.Request{
			Model:     a.cfg.Model,
			System:    a.cfg.System,
			MaxTokens: a.cfg.MaxTokens,
			Messages:  a.compose(message, transcript),
			Tools:     a.cfg.Tools,
		}

		resp, err := a.generate(ctx, req, a.cfg.Timeout-elapsed)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", &TimeoutError{Elapsed: a.now().Sub(start), Limit: a.cfg.Timeout}
			}
			return "", err
		}

		switch resp.StopReason {
		case provider.StopToolUse:
			results, err := a.runTools(ctx, resp.ToolUses())
			if err != nil {
				return "", err
			}
			if len(results) > 0 {
				transcript = append(transcript,
					provider.Message{Role: provider.RoleAssistant, Content: resp.Content},
					provider.Message{Role: provider.RoleUser, Content: results},
				)
			}
			a.advance()

		case provider.StopEndTurn:
			text, _ := resp.Text()
			a.emit(ctx, workflow.TextEvent{Text: text})
			return text, nil

		default:
			if !a.lenient {
				return "", &UnexpectedStopError{Reason: resp.StopReason}
			}
			a.logger.Warnw("ignoring unexpected stop reason", "stop_reason", resp.StopReason, "iteration", a.Iteration())
			a.advance()
		}
	}

	return "", &MaxIterationsError{Max: a.cfg.MaxIterations}
}

func (a *Agent) generate(ctx context.Context, req *provider.Request, remaining time.Duration) (*provider.Response, error) {
	roundCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	started := time.Now()
	resp, err := a.provider.Generate(roundCtx, req)
	if err != nil {
		a.logger.Debugw("model request failed", "error", err)
		return nil, err
	}
	if resp == nil {
		return nil, &provider.ProviderError{Code: provider.ErrorCodeEmptyResponse, Message: "provider returned no response"}
	}
	a.metrics.RecordProviderRequest(string(resp.StopReason), time.Since(started))
	a.logger.Debugw("model responded",
		"stop_reason", resp.StopReason,
		"blocks", len(resp.Content),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

// compose builds the outgoing message list: the original message, with the
// serialized context appended when it is non-empty, then this run's tool rounds.
func (a *Agent) compose(message string, transcript []provider.Message) []provider.Message {
	text := message
	if ctxMap := a.GetContext(); len(ctxMap) > 0 {
		text += "\n\nContext: " + serializeContext(ctxMap)
	}
	msgs := make([]provider.Message, 0, 1+len(transcript))
	msgs = append(msgs, provider.UserText(text))
	return append(msgs, transcript...)
}

// ParseContextValue interprets raw as JSON when it parses, and as a plain
// string otherwise, so "3" becomes a number and "ada" stays a string.
func ParseContextValue(raw string) any {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded
	}
	return raw
}

func serializeContext(ctxMap map[string]any) string {
	data, err := json.Marshal(ctxMap)
	if err != nil {
		return fmt.Sprintf("%v", ctxMap)
	}
	return string(data)
}

func (a *Agent) runTools(ctx context.Context, uses []provider.ContentBlock) ([]provider.ContentBlock, error) {
	results := make([]provider.ContentBlock, 0, len(uses))
	for _, use := range uses {
		a.setLastAction(use.Name)
		a.emit(ctx, workflow.ToolStartEvent{ToolName: use.Name, Input: string(use.Input)})

		out, isError, err := a.executor.execute(ctx, use.Name, use.Input)
		if err != nil {
			return nil, err
		}
		if isError {
			a.logger.Infow("tool returned error result", "tool", use.Name, "output", out)
		}

		a.emit(ctx, workflow.ToolEndEvent{ToolName: use.Name, Output: out, IsError: isError})
		results = append(results, provider.ToolResultBlock(use.ID, out, isError))
	}
	return results, nil
}

// emit delivers e unless the consumer stops reading and ctx is done first.
// Room in a buffered channel always wins over cancellation.
func (a *Agent) emit(ctx context.Context, e workflow.Event) {
	if a.events == nil {
		return
	}
	select {
	case a.events <- e:
		return
	default:
	}
	select {
	case a.events <- e:
	case <-ctx.Done():
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMaxIterations):
		return "max_iterations"
	case errors.Is(err, ErrUnexpectedStop):
		return "unexpected_stop"
	default:
		return "error"
	}
}

// Iteration returns the current iteration count.
func (a *Agent) Iteration() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.iteration
}

// LastAction returns the name of the last tool the model requested.
func (a *Agent) LastAction() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAction
}

func (a *Agent) advance() {
	a.mu.Lock()
	a.iteration++
	a.mu.Unlock()
	a.metrics.RecordIteration()
}

func (a *Agent) setLastAction(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastAction = name
}

// UpdateContext merges one entry into the context mapping.
func (a *Agent) UpdateContext(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.context[key] = value
}

// GetContext returns a shallow copy of the context mapping.
func (a *Agent) GetContext() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return maps.Clone(a.context)
}

// State returns a snapshot of the agent state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Iteration:  a.iteration,
		LastAction: a.lastAction,
		Context:    maps.Clone(a.context),
	}
}

// Reset returns the agent to its post-construction state.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.iteration = 0
	a.lastAction = ""
	a.context = make(map[string]any)
}
