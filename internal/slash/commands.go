// Package slash implements the slash command surface: /search, /install,
// /run, /list, /help, /status and /config.
package slash

import (
	"maps"
	"slices"
)

// Command describes one slash command.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Example     string `json:"example"`
	Category    string `json:"category"`
}

var commands = map[string]Command{
	"search": {
		Name:        "/search",
		Description: "Search for skills in the registry",
		Usage:       "/search <query>",
		Example:     "/search web scraping",
		Category:    "discovery",
	},
	"install": {
		Name:        "/install",
		Description: "Install a skill from the registry",
		Usage:       "/install <skill-slug>",
		Example:     "/install brave-search",
		Category:    "management",
	},
	"run": {
		Name:        "/run",
		Description: "Run a skill with given input",
		Usage:       "/run <skill-slug> <input>",
		Example:     "/run brave-search 'AI news'",
		Category:    "execution",
	},
	"list": {
		Name:        "/list",
		Description: "List installed skills or available agents",
		Usage:       "/list [skills|agents]",
		Example:     "/list skills",
		Category:    "discovery",
	},
	"help": {
		Name:        "/help",
		Description: "Get help for a command or skill",
		Usage:       "/help [command|skill]",
		Example:     "/help search",
		Category:    "utility",
	},
	"status": {
		Name:        "/status",
		Description: "Check system or agent status",
		Usage:       "/status [agent-id]",
		Example:     "/status coding-agent",
		Category:    "monitoring",
	},
	"config": {
		Name:        "/config",
		Description: "View or modify configuration",
		Usage:       "/config [key] [value]",
		Example:     "/config timeout 30",
		Category:    "management",
	},
}

// Commands returns a copy of the command table keyed by verb.
func Commands() map[string]Command {
	return maps.Clone(commands)
}

// Names returns the verbs in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(commands))
}

// Lookup returns the command for a verb, with or without the leading slash.
func Lookup(name string) (Command, bool) {
	c, ok := commands[Normalize(name)]
	return c, ok
}
