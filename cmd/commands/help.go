package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/slash"
)

// NewHelpCommand returns the help subcommand. It explains both CLI
// subcommands and slash commands.
func NewHelpCommand() *cli.Command {
	return &cli.Command{
		Name:      "help",
		Aliases:   []string{"h"},
		Usage:     "Show help for a command",
		ArgsUsage: "[command]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := stdout(cmd)
			name := cmd.Args().First()

			if name == "" {
				fmt.Fprintln(w, "Commands:")
				for _, c := range cmd.Root().Commands {
					if c.Hidden {
						continue
					}
					fmt.Fprintf(w, "  %-10s %s\n", c.Name, c.Usage)
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, "Slash commands:")
				for _, n := range slash.Names() {
					c, _ := slash.Lookup(n)
					fmt.Fprintf(w, "  /%-9s %s\n", n, c.Description)
				}
				return nil
			}

			sub := cmd.Root().Command(name)
			if strings.HasPrefix(name, "/") || sub == nil {
				sc, ok := slash.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown command %q", name)
				}
				if ok, err := printStructured(cmd, sc); ok {
					return err
				}
				fmt.Fprintf(w, "%s - %s\n", sc.Name, sc.Description)
				fmt.Fprintf(w, "  usage:   %s\n", sc.Usage)
				fmt.Fprintf(w, "  example: %s\n", sc.Example)
				return nil
			}

			fmt.Fprintf(w, "%s - %s\n", sub.Name, sub.Usage)
			if sub.ArgsUsage != "" {
				fmt.Fprintf(w, "  usage: athena %s %s\n", sub.Name, sub.ArgsUsage)
			}
			for _, f := range sub.Flags {
				fmt.Fprintf(w, "  %s\n", f.String())
			}
			return nil
		},
	}
}
