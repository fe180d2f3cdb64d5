package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/skills"
)

// NewSearchCommand returns the search subcommand.
func NewSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the skill registry",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Usage:   "Filter by category key",
			},
			&cli.StringSliceFlag{
				Name:    "tag",
				Aliases: []string{"t"},
				Usage:   "Filter by tag (repeatable)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum results",
				Value:   10,
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Results to skip",
			},
		},
		Action: runSearch,
	}
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	params := skills.SearchParams{
		Query:    strings.Join(cmd.Args().Slice(), " "),
		Category: cmd.String("category"),
		Tags:     cmd.StringSlice("tag"),
		Limit:    cmd.Int("limit"),
		Offset:   cmd.Int("offset"),
	}

	page, err := apiClient(cmd).SearchSkills(ctx, params)
	if err != nil {
		return fmt.Errorf("search skills: %w", err)
	}
	if ok, err := printStructured(cmd, page); ok {
		return err
	}

	w := stdout(cmd)
	if len(page.Skills) == 0 {
		fmt.Fprintln(w, "No skills found.")
		return nil
	}

	fmt.Fprintf(w, "%d result(s) from %d skills:\n\n", len(page.Skills), page.Total)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tVERSION")
	for _, s := range page.Skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Category, s.Version)
	}
	return tw.Flush()
}
