package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/clients/api"
	"github.com/athena-agent/athena/internal/config"
)

// Version is the CLI release.
const Version = "2.0.0"

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:            "athena",
		Usage:           "Intelligent Multi-Agent Orchestration Platform",
		Version:         Version,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Gateway API endpoint",
				Value:   api.DefaultBaseURL,
				Sources: cli.EnvVars("ATHENA_API_URL"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: text, json or yaml",
				Value:   formatText,
				Validator: func(v string) error {
					switch v {
					case formatText, formatJSON, formatYAML:
						return nil
					}
					return fmt.Errorf("unknown output format %q", v)
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"), "")
			if outputFormat(cmd) == formatText {
				printBanner(cmd.Root().Writer)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			NewGatewayCommand(),
			NewSearchCommand(),
			NewInstallCommand(),
			NewListCommand(),
			NewRunCommand(),
			NewTaskCommand(),
			NewStatusCommand(),
			NewConfigCommand(),
			NewHelpCommand(),
			NewInitCommand(),
			NewInfoCommand(),
			NewWatchCommand(),
		},
	}
}

// apiClient builds a gateway client from the --api-url flag.
func apiClient(cmd *cli.Command) *api.Client {
	return api.New(cmd.String("api-url"))
}
