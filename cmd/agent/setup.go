package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentkit/internal/agent"
	"github.com/Cyclone1070/agentkit/internal/config"
	"github.com/Cyclone1070/agentkit/internal/logging"
	"github.com/Cyclone1070/agentkit/internal/mcpbridge"
	"github.com/Cyclone1070/agentkit/internal/metrics"
	"github.com/Cyclone1070/agentkit/internal/provider"
	"github.com/Cyclone1070/agentkit/internal/provider/anthropic"
	"github.com/Cyclone1070/agentkit/internal/provider/gemini"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

// options holds the persistent flags. Zero values defer to the config file.
type options struct {
	provider      string
	model         string
	maxIterations int
	timeout       time.Duration
	system        string
	toolsCmd      string
	context       []string
	metricsAddr   string

	newProvider providerFactory
}

// providerFactory builds a provider and reports the model it will use.
type providerFactory func(ctx context.Context, cfg config.AgentConfig) (provider.Provider, string, error)

func newProvider(ctx context.Context, cfg config.AgentConfig) (provider.Provider, string, error) {
	env := config.APIKeyEnv(cfg.Provider)
	apiKey := os.Getenv(env)
	if apiKey == "" {
		return nil, "", fmt.Errorf("%s environment variable not set", env)
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		p := anthropic.New(anthropic.NewClient(anthropic.ClientConfig{APIKey: apiKey}), cfg.Model)
		return p, p.Model(), nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			return nil, "", fmt.Errorf("create gemini client: %w", err)
		}
		p := gemini.New(client, cfg.Model)
		return p, p.Model(), nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// resolve loads the config file and applies flag overrides.
func (o *options) resolve() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.provider != "" {
		cfg.Agent.Provider = o.provider
	}
	if o.model != "" {
		cfg.Agent.Model = o.model
	}
	if o.maxIterations != 0 {
		cfg.Agent.MaxIterations = o.maxIterations
	}
	if o.timeout != 0 {
		cfg.Agent.TimeoutMs = int(o.timeout / time.Millisecond)
	}
	if o.system != "" {
		cfg.Agent.System = o.system
	}
	if o.metricsAddr != "" {
		cfg.Agent.MetricsAddr = o.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an agent wired to its provider and, optionally, a tool host
// and a metrics listener.
type session struct {
	agent       *agent.Agent
	model       string
	logger      *zap.SugaredLogger
	bridge      *mcpbridge.Bridge
	stopMetrics func()
}

func (s *session) Close() {
	if s.bridge != nil {
		if err := s.bridge.Close(); err != nil {
			s.logger.Warnw("failed to close tool host session", "error", err)
		}
	}
	if s.stopMetrics != nil {
		s.stopMetrics()
	}
	_ = s.logger.Sync()
}

func (o *options) newSession(ctx context.Context, events chan<- workflow.Event) (*session, error) {
	cfg, err := o.resolve()
	if err != nil {
		return nil, err
	}
	entries, err := parseContext(o.context)
	if err != nil {
		return nil, err
	}

	s := &session{logger: logging.NewLogger("agent", cfg.Log.Level)}
	if err := o.wire(ctx, s, cfg, events); err != nil {
		s.Close()
		return nil, err
	}
	for _, e := range entries {
		s.agent.UpdateContext(e.key, e.value)
	}
	return s, nil
}

func (o *options) wire(ctx context.Context, s *session, cfg *config.Config, events chan<- workflow.Event) error {
	recorder := metrics.New()
	if cfg.Agent.MetricsAddr != "" {
		stop, err := recorder.Serve(cfg.Agent.MetricsAddr, s.logger)
		if err != nil {
			return fmt.Errorf("serve metrics: %w", err)
		}
		s.stopMetrics = stop
	}

	p, model, err := o.newProvider(ctx, cfg.Agent)
	if err != nil {
		return err
	}
	s.model = model

	agentCfg := agent.Config{
		Model:         cfg.Agent.Model,
		System:        cfg.Agent.System,
		MaxTokens:     cfg.Agent.MaxTokens,
		MaxIterations: cfg.Agent.MaxIterations,
		Timeout:       cfg.Agent.Timeout(),
	}
	agentOpts := []agent.Option{
		agent.WithLogger(s.logger),
		agent.WithMetrics(recorder),
	}
	if events != nil {
		agentOpts = append(agentOpts, agent.WithEvents(events))
	}

	if o.toolsCmd != "" {
		transport, err := mcpbridge.CommandTransport(ctx, o.toolsCmd)
		if err != nil {
			return err
		}
		bridge, err := mcpbridge.Connect(ctx, transport)
		if err != nil {
			return err
		}
		s.bridge = bridge

		decls, err := bridge.Declarations(ctx)
		if err != nil {
			return err
		}
		executor, err := bridge.Executor(ctx)
		if err != nil {
			return err
		}
		agentCfg.Tools = decls
		agentOpts = append(agentOpts, agent.WithExecutor(executor))
		s.logger.Infow("connected tool host", "command", o.toolsCmd, "tools", executor.Names())
	}

	s.agent = agent.New(p, agentCfg, agentOpts...)
	return nil
}

type contextEntry struct {
	key   string
	value any
}

// parseContext splits key=value pairs; values follow agent.ParseContextValue.
func parseContext(pairs []string) ([]contextEntry, error) {
	entries := make([]contextEntry, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context entry %q: want key=value", pair)
		}
		entries = append(entries, contextEntry{key: key, value: agent.ParseContextValue(raw)})
	}
	return entries, nil
}
