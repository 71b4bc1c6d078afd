package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <message>",
		Short: "Run the agent once and print its final answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.newSession(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			text, err := s.agent.Run(ctx, strings.Join(args, " "))
			if err != nil {
				s.logger.Errorw("run failed", "error", err, "iteration", s.agent.Iteration())
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
