package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/clients/api"
)

// NewInstallCommand returns the install subcommand.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install a skill by id",
		ArgsUsage: "<skill_id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: athena install <skill_id>")
			}
			id := cmd.Args().First()

			err := apiClient(cmd).InstallSkill(ctx, id)
			if errors.Is(err, api.ErrNotFound) {
				return fmt.Errorf("skill %q not found", id)
			}
			if err != nil {
				return fmt.Errorf("install skill: %w", err)
			}

			result := map[string]string{"skill_id": id, "status": "installed"}
			if ok, err := printStructured(cmd, result); ok {
				return err
			}
			fmt.Fprintf(stdout(cmd), "Skill %s installed.\n", id)
			return nil
		},
	}
}
