// Command toolhost serves the example tool over MCP on stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/Cyclone1070/agentkit/internal/config"
	"github.com/Cyclone1070/agentkit/internal/logging"
	"github.com/Cyclone1070/agentkit/internal/metrics"
	"github.com/Cyclone1070/agentkit/internal/toolhost"
)

func main() {
	bootLogger := logging.NewLogger("toolhost", "")
	if err := config.LoadDotEnv(); err != nil {
		bootLogger.Fatalw("failed to load .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatalw("failed to load config", "error", err)
	}
	logger := logging.NewLogger("toolhost", cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, logger, cfg, &mcp.StdioTransport{})
	stop()
	if err != nil {
		logger.Fatalw("tool host failed", "error", err)
	}
}

// run serves until the client disconnects or ctx is cancelled.
func run(ctx context.Context, logger *zap.SugaredLogger, cfg *config.Config, transport mcp.Transport) error {
	recorder := metrics.New()
	if cfg.ToolHost.MetricsAddr != "" {
		shutdown, err := recorder.Serve(cfg.ToolHost.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	host := toolhost.NewHost(logger, recorder, toolhost.NewExampleTool())
	server := toolhost.NewServer(host, toolhost.Info{Name: cfg.ToolHost.Name, Version: cfg.ToolHost.Version})

	logger.Infof("%s MCP server running on stdio", cfg.ToolHost.Name)
	return toolhost.Serve(ctx, server, transport)
}
