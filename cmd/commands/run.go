package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/slash"
)

// NewRunCommand returns the run subcommand.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a skill or agent through the /run command",
		ArgsUsage: "<skill_or_agent> [params...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("usage: athena run <skill_or_agent> [params...]")
			}
			return execCommand(ctx, cmd, "run", cmd.Args().Slice())
		},
	}
}

// execCommand sends a slash command to the gateway and prints the response.
func execCommand(ctx context.Context, cmd *cli.Command, name string, args []string) error {
	resp, err := apiClient(cmd).ExecuteCommand(ctx, name, args)
	if err != nil {
		return fmt.Errorf("execute /%s: %w", name, err)
	}
	if ok, err := printStructured(cmd, resp); ok {
		return err
	}
	printResponse(stdout(cmd), resp)
	if resp.Status == slash.StatusError {
		return fmt.Errorf("/%s failed", name)
	}
	return nil
}

func printResponse(w io.Writer, resp *slash.Response) {
	fmt.Fprintf(w, "%s: %s\n", resp.Command, resp.Status)
	for _, k := range slices.Sorted(maps.Keys(resp.Result)) {
		fmt.Fprintf(w, "  %s: %v\n", k, resp.Result[k])
	}
}

