// Command agent runs the bounded agent loop from the command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/agentkit/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newProvider).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(factory providerFactory) *cobra.Command {
	opts := &options{newProvider: factory}

	root := &cobra.Command{
		Use:   "agent",
		Short: "Run a bounded tool-using agent loop",
		Long: `agent sends a message to a hosted model and executes the tools it asks for
until the model ends its turn, the iteration bound is hit, or the timeout elapses.

Tools are served by an MCP tool host started with --tools-cmd.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.provider, "provider", "", "model provider: anthropic or gemini (default from config)")
	flags.StringVarP(&opts.model, "model", "m", "", "model name (default: provider default)")
	flags.IntVar(&opts.maxIterations, "max-iterations", 0, "maximum tool rounds per run (default from config)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "wall-clock limit per run, e.g. 90s (default from config)")
	flags.StringVar(&opts.system, "system", "", "system prompt")
	flags.StringVar(&opts.toolsCmd, "tools-cmd", "", "command that starts an MCP tool host on stdio")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the agent runs")
	flags.StringArrayVar(&opts.context, "context", nil, "context entry key=value; JSON values are decoded (repeatable)")

	root.AddCommand(newRunCmd(opts), newChatCmd(opts))
	return root
}
