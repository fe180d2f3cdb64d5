package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/skills"
)

// NewListCommand returns the list subcommand.
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List skills, agents, categories or commands",
		Commands: []*cli.Command{
			{
				Name:  "skills",
				Usage: "List the first page of registered skills",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum results"},
				},
				Action: listSkills,
			},
			{
				Name:   "agents",
				Usage:  "List agents",
				Action: listAgents,
			},
			{
				Name:   "categories",
				Usage:  "List skill categories",
				Action: listCategories,
			},
			{
				Name:   "commands",
				Usage:  "List slash commands",
				Action: listCommands,
			},
		},
	}
}

func listSkills(ctx context.Context, cmd *cli.Command) error {
	page, err := apiClient(cmd).SearchSkills(ctx, skills.SearchParams{Limit: cmd.Int("limit")})
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	if ok, err := printStructured(cmd, page.Skills); ok {
		return err
	}

	tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tRATING")
	for _, s := range page.Skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", s.ID, s.Name, s.Category, s.Rating)
	}
	return tw.Flush()
}

func listAgents(ctx context.Context, cmd *cli.Command) error {
	list, err := apiClient(cmd).ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	if ok, err := printStructured(cmd, list); ok {
		return err
	}

	tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tTASKS")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", a.ID, a.Name, a.Type, a.Status, a.TaskCount)
	}
	return tw.Flush()
}

func listCategories(ctx context.Context, cmd *cli.Command) error {
	cats, err := apiClient(cmd).Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if ok, err := printStructured(cmd, cats); ok {
		return err
	}

	keys := slices.Sorted(maps.Keys(cats))
	tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tCOUNT")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", k, cats[k].Name, cats[k].Count)
	}
	return tw.Flush()
}

func listCommands(ctx context.Context, cmd *cli.Command) error {
	cmds, err := apiClient(cmd).Commands(ctx)
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}
	if ok, err := printStructured(cmd, cmds); ok {
		return err
	}

	tw := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(cmds)) {
		fmt.Fprintf(tw, "/%s\t%s\n", name, cmds[name].Description)
	}
	return tw.Flush()
}
