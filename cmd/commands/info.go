package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"
)

// NewInfoCommand returns the info subcommand.
func NewInfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show gateway build and runtime information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info, err := apiClient(cmd).Info(ctx)
			if err != nil {
				return fmt.Errorf("get info: %w", err)
			}
			if ok, err := printStructured(cmd, info); ok {
				return err
			}

			w := stdout(cmd)
			fmt.Fprintf(w, "%s %s\n", info.Service, info.Version)
			fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(w, "  platform: %s\n", info.Platform)
			fmt.Fprintf(w, "  uptime:   %s\n", info.Uptime)
			for _, k := range slices.Sorted(maps.Keys(info.Stats)) {
				fmt.Fprintf(w, "  %s: %d\n", k, info.Stats[k])
			}
			return nil
		},
	}
}
