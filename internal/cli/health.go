// health.go implements the "vivi health" command.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vivi-ia/vivi/internal/search"
)

const healthTimeout = 10 * time.Second

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
			defer cancel()

			client := search.New(cfg.Backend, search.WithLogger(logger))
			status, err := client.Health(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", cfg.Backend.BaseURL)
			fmt.Fprintf(out, "Status:  %s\n", status.Status)
			if status.AgentType != "" {
				fmt.Fprintf(out, "Agent:   %s\n", status.AgentType)
			}
			if status.Message != "" {
				fmt.Fprintf(out, "Message: %s\n", status.Message)
			}
			return nil
		},
	}
}
