package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/urfave/cli/v3"

	"github.com/athena-agent/athena/internal/skills"
)

const (
	templateBasic    = "basic"
	templateAdvanced = "advanced"
)

var skillTemplates = map[string]*template.Template{
	templateBasic: template.Must(template.New(templateBasic).Parse(`{
	"id": {{printf "%q" .ID}},
	"name": {{printf "%q" .Name}},
	"description": {{printf "%q" (print .Name " skill")}},
	"category": {{printf "%q" .Category}},
	"author": {{printf "%q" .Author}},
	"version": "0.1.0",
	"tags": [{{printf "%q" .ID}}],
}
`)),
	templateAdvanced: template.Must(template.New(templateAdvanced).Parse(`{
	"id": {{printf "%q" .ID}},
	"name": {{printf "%q" .Name}},
	"description": {{printf "%q" (print .Name " skill")}},
	"category": {{printf "%q" .Category}},
	"author": {{printf "%q" .Author}},
	"version": "0.1.0",
	"tags": [{{printf "%q" .ID}}],
	// other skill ids that must be installed first
	"dependencies": [],
	"config": {
		"timeout": "30s",
		"retries": 3,
	},
	"is_active": true,
}
`)),
}

type skillScaffold struct {
	ID       string
	Name     string
	Category string
	Author   string
}

// NewInitCommand returns the init subcommand.
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new skill definition",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template: basic or advanced",
				Value:   templateBasic,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Directory to create the skill in",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Category key",
				Value: "cli-utilities",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Skill author",
				Value: "Athena Team",
			},
		},
		Action: runInit,
	}
}

func runInit(_ context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return fmt.Errorf("usage: athena init <name>")
	}

	path, err := scaffoldSkill(cmd.String("dir"), cmd.String("template"), skillScaffold{
		ID:       slugify(name),
		Name:     name,
		Category: cmd.String("category"),
		Author:   cmd.String("author"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout(cmd), "Created %s\n", path)
	return nil
}

// scaffoldSkill renders the template into <dir>/<id>/skill.jsonc. The
// rendered file must parse as a valid skill before it is written.
func scaffoldSkill(dir, tmplName string, data skillScaffold) (string, error) {
	tmpl, ok := skillTemplates[tmplName]
	if !ok {
		return "", fmt.Errorf("unknown template %q (want %s or %s)", tmplName, templateBasic, templateAdvanced)
	}
	if data.ID == "" {
		return "", fmt.Errorf("skill name %q has no usable characters", data.Name)
	}
	if _, ok := skills.LookupCategory(data.Category); !ok {
		return "", fmt.Errorf("unknown category %q", data.Category)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	if _, err := skills.ParseSkill(buf.Bytes()); err != nil {
		return "", fmt.Errorf("scaffold invalid: %w", err)
	}

	skillDir := filepath.Join(dir, data.ID)
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return "", fmt.Errorf("create skill dir: %w", err)
	}

	path := filepath.Join(skillDir, "skill.jsonc")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err != nil {
		return "", fmt.Errorf("create skill file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return "", fmt.Errorf("write skill file: %w", err)
	}
	return path, nil
}

// slugify lowercases s and joins its alphanumeric runs with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
