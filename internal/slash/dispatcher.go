package slash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/skills"
)

// ErrUnknownCommand is returned by Execute for a verb outside the command table.
var ErrUnknownCommand = errors.New("unknown command")

// searchLimit caps /search results.
const searchLimit = 10

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SkillCatalog is the part of the skill registry the dispatcher uses.
type SkillCatalog interface {
	Count() int
	Search(skills.SearchParams) []*skills.Skill
	Install(ctx context.Context, id string) bool
}

// AgentRoster is the part of the orchestrator the dispatcher uses.
type AgentRoster interface {
	Get(id string) *agents.Agent
	All() []*agents.Agent
	Stats() agents.Stats
}

// Response is the outcome of a dispatched command. Failures of the command
// itself are reported through Status and the "error" key of Result.
type Response struct {
	Command string         `json:"command"`
	Status  string         `json:"status"`
	Result  map[string]any `json:"result"`
}

// Dispatcher executes slash commands against the registries.
type Dispatcher struct {
	Skills   SkillCatalog
	Agents   AgentRoster
	Settings func() map[string]any // read-only view for /config; may be nil
	Bus      *events.Bus
}

// Execute runs command with args. The command may carry a leading slash.
func (d *Dispatcher) Execute(ctx context.Context, command string, args []string) (Response, error) {
	name := Normalize(command)
	if _, ok := commands[name]; !ok {
		return Response{}, fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
	}

	var result map[string]any
	switch name {
	case "search":
		result = d.search(args)
	case "install":
		result = d.install(ctx, args)
	case "list":
		result = d.list(args)
	case "status":
		result = d.status(args)
	case "help":
		result = help(args)
	case "config":
		result = d.config(args)
	case "run":
		result = run(args)
	default:
		result = errorResult("Command not implemented")
	}

	resp := Response{Command: "/" + name, Status: StatusSuccess, Result: result}
	if _, failed := result["error"]; failed {
		resp.Status = StatusError
	}

	d.Bus.Publish(events.NewTypedEvent(events.SourceCommand, events.CommandExecutedPayload{
		Command: resp.Command,
		Args:    args,
		Status:  resp.Status,
	}))
	return resp, nil
}

// ExecuteLine parses and executes a raw command line.
func (d *Dispatcher) ExecuteLine(ctx context.Context, line string) (Response, error) {
	name, args, err := Parse(line)
	if err != nil {
		return Response{}, err
	}
	return d.Execute(ctx, name, args)
}

func errorResult(msg string) map[string]any {
	return map[string]any{"error": msg}
}

func (d *Dispatcher) search(args []string) map[string]any {
	if len(args) == 0 {
		return errorResult("Please provide a search query")
	}

	query := strings.Join(args, " ")
	found := d.Skills.Search(skills.SearchParams{Query: query, Limit: searchLimit})
	results := make([]map[string]any, 0, len(found))
	for _, s := range found {
		results = append(results, map[string]any{
			"id":          s.ID,
			"name":        s.Name,
			"description": s.Description,
		})
	}
	return map[string]any{"query": query, "results": results}
}

func (d *Dispatcher) install(ctx context.Context, args []string) map[string]any {
	if len(args) == 0 {
		return errorResult("Please provide a skill slug")
	}

	id := args[0]
	if !d.Skills.Install(ctx, id) {
		return errorResult(fmt.Sprintf("Skill '%s' not found", id))
	}
	return map[string]any{"message": fmt.Sprintf("Successfully installed %s", id)}
}

func (d *Dispatcher) list(args []string) map[string]any {
	target := "skills"
	if len(args) > 0 {
		target = args[0]
	}

	switch target {
	case "skills":
		return map[string]any{"type": "skills", "total": d.Skills.Count()}
	case "agents":
		all := d.Agents.All()
		out := make([]map[string]any, 0, len(all))
		for _, a := range all {
			out = append(out, map[string]any{"id": a.ID, "name": a.Name, "status": string(a.Status)})
		}
		return map[string]any{"type": "agents", "total": len(all), "agents": out}
	default:
		return errorResult(fmt.Sprintf("Unknown target: %s", target))
	}
}

func (d *Dispatcher) status(args []string) map[string]any {
	if len(args) > 0 {
		a := d.Agents.Get(args[0])
		if a == nil {
			return errorResult(fmt.Sprintf("Agent '%s' not found", args[0]))
		}
		return map[string]any{
			"agent_id":   a.ID,
			"status":     string(a.Status),
			"task_count": a.TaskCount,
		}
	}

	st := d.Agents.Stats()
	return map[string]any{
		"system_status": "operational",
		"total_agents":  st.TotalAgents,
		"active_agents": st.ActiveAgents,
		"total_tasks":   st.TotalTasks,
		"agent_types":   st.AgentTypes,
	}
}

func help(args []string) map[string]any {
	if len(args) > 0 {
		name := strings.TrimLeft(args[0], "/")
		c, ok := commands[name]
		if !ok {
			return errorResult(fmt.Sprintf("Unknown command: %s", name))
		}
		return map[string]any{
			"name":        c.Name,
			"description": c.Description,
			"usage":       c.Usage,
			"example":     c.Example,
			"category":    c.Category,
		}
	}
	return map[string]any{"message": "Available commands", "commands": Names()}
}

// config never changes a setting. A set request is acknowledged in the
// same shape as a real one and reports persisted=false.
func (d *Dispatcher) config(args []string) map[string]any {
	settings := map[string]any{}
	if d.Settings != nil {
		settings = d.Settings()
	}

	switch len(args) {
	case 0:
		return map[string]any{"message": "Current configuration", "config": settings}
	case 1:
		v, ok := settings[args[0]]
		if !ok {
			v = "default"
		}
		return map[string]any{"key": args[0], "value": v}
	default:
		return map[string]any{
			"message":   fmt.Sprintf("Set %s = %s", args[0], args[1]),
			"persisted": false,
		}
	}
}

func run(args []string) map[string]any {
	if len(args) == 0 {
		return errorResult("Usage: /run <skill-slug> [input]")
	}
	return map[string]any{
		"skill":  args[0],
		"input":  strings.Join(args[1:], " "),
		"output": fmt.Sprintf("[Simulated output for %s]", args[0]),
	}
}
