package main

import (
	"github.com/spf13/cobra"

	"github.com/Cyclone1070/agentkit/internal/ui"
	"github.com/Cyclone1070/agentkit/internal/ui/services"
	"github.com/Cyclone1070/agentkit/internal/workflow"
)

func newChatCmd(opts *options) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat with the agent",
		Long: `Start an interactive chat. Each message is one agent run.

Commands inside the chat:
  /set key=value   update the agent context
  /reset           reset iteration count and context
  /help            show commands`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			events := make(chan workflow.Event, 64)
			s, err := opts.newSession(ctx, events)
			if err != nil {
				return err
			}
			defer s.Close()

			return ui.NewUI(ctx, s.agent, ui.Options{
				Events:   events,
				Renderer: services.NewGlamourRenderer(style),
				Model:    s.model,
			}).Start()
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "glamour style for rendering replies (default: auto)")
	return cmd
}
