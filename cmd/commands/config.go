package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"
)

// NewConfigCommand returns the config subcommand.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Show local configuration settings",
		ArgsUsage: "[key]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return fmt.Errorf("configuration is read-only; edit %s instead", cmd.String("config"))
			}

			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			settings := cfg.Settings()

			if key := cmd.Args().First(); key != "" {
				v, ok := settings[key]
				if !ok {
					return fmt.Errorf("unknown setting %q", key)
				}
				if ok, err := printStructured(cmd, map[string]any{key: v}); ok {
					return err
				}
				fmt.Fprintf(stdout(cmd), "%s = %v\n", key, v)
				return nil
			}

			if ok, err := printStructured(cmd, settings); ok {
				return err
			}
			w := stdout(cmd)
			for _, k := range slices.Sorted(maps.Keys(settings)) {
				fmt.Fprintf(w, "%s = %v\n", k, settings[k])
			}
			return nil
		},
	}
}
