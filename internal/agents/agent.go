// Package agents manages the specialized agents and the tasks assigned to them.
package agents

import (
	"fmt"
	"time"
)

// Type identifies an agent's specialty.
type Type string

const (
	TypeCoding   Type = "coding"
	TypeResearch Type = "research"
	TypeDevOps   Type = "devops"
	TypeFrontend Type = "frontend"
	TypeData     Type = "data"
	TypeGeneral  Type = "general"
)

// AllTypes returns every agent type in declaration order.
func AllTypes() []Type {
	return []Type{TypeCoding, TypeResearch, TypeDevOps, TypeFrontend, TypeData, TypeGeneral}
}

// Status is the lifecycle state of an agent.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused" // no operation enters this state
	StatusError      Status = "error"
	StatusTerminated Status = "terminated"
)

// Config holds per-agent execution parameters.
// Timeout (seconds) and RetryCount are carried but not enforced.
type Config struct {
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Timeout     int      `json:"timeout"`
	RetryCount  int      `json:"retry_count"`
	Skills      []string `json:"skills"`
}

// DefaultConfig returns the config every agent starts with.
func DefaultConfig(skills ...string) Config {
	if skills == nil {
		skills = []string{}
	}
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     30,
		RetryCount:  3,
		Skills:      skills,
	}
}

// Agent is a named worker with a specialty and a skill list.
type Agent struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        Type       `json:"type"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Config      Config     `json:"config"`
	CreatedAt   time.Time  `json:"created_at"`
	LastActive  *time.Time `json:"last_active"`
	TaskCount   int        `json:"task_count"`
	SuccessRate float64    `json:"success_rate"`
}

// Clone returns a deep copy of the agent.
func (a *Agent) Clone() *Agent {
	c := *a
	c.Config.Skills = append([]string{}, a.Config.Skills...)
	if a.LastActive != nil {
		t := *a.LastActive
		c.LastActive = &t
	}
	return &c
}

// setStatus moves the agent to a new status and returns the previous one.
func (a *Agent) setStatus(to Status) Status {
	switch to {
	case StatusIdle, StatusRunning, StatusPaused, StatusError, StatusTerminated:
	default:
		panic(fmt.Sprintf("agents: unknown status %q", to))
	}
	from := a.Status
	a.Status = to
	return from
}

type definition struct {
	id          string
	name        string
	typ         Type
	description string
	skills      []string
}

// specializedAgents is the fixed roster created at Initialize, in order.
var specializedAgents = []definition{
	{
		id:          "coding-agent",
		name:        "Coding Agent",
		typ:         TypeCoding,
		description: "Specialized in code generation, review, and refactoring",
		skills:      []string{"github", "git-essentials", "docker-essentials", "coding-agent"},
	},
	{
		id:          "research-agent",
		name:        "Research Agent",
		typ:         TypeResearch,
		description: "Deep research and analysis capabilities",
		skills:      []string{"deep-research", "brave-search", "arxiv-watcher", "academic-deep-research"},
	},
	{
		id:          "devops-agent",
		name:        "DevOps Agent",
		typ:         TypeDevOps,
		description: "Infrastructure and deployment automation",
		skills:      []string{"docker-essentials", "kubernetes", "github-actions", "deploy-agent"},
	},
	{
		id:          "frontend-agent",
		name:        "Frontend Agent",
		typ:         TypeFrontend,
		description: "UI/UX design and frontend development",
		skills:      []string{"frontend-design", "tailwindcss", "react-patterns", "figma"},
	},
	{
		id:          "data-agent",
		name:        "Data Agent",
		typ:         TypeData,
		description: "Data analysis and processing",
		skills:      []string{"data-analytics", "database-operations", "chart-image"},
	},
	{
		id:          "general-agent",
		name:        "General Agent",
		typ:         TypeGeneral,
		description: "Multi-purpose agent for various tasks",
		skills:      []string{"brave-search", "github", "productivity-tasks"},
	},
}

func (d definition) newAgent(now time.Time) *Agent {
	return &Agent{
		ID:          d.id,
		Name:        d.name,
		Type:        d.typ,
		Description: d.description,
		Status:      StatusIdle,
		Config:      DefaultConfig(append([]string(nil), d.skills...)...),
		CreatedAt:   now,
		SuccessRate: 100.0,
	}
}
