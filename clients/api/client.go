// Package api provides an HTTP client for the Athena gateway REST routes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/athena-agent/athena/internal/agents"
	"github.com/athena-agent/athena/internal/skills"
	"github.com/athena-agent/athena/internal/slash"
)

// DefaultBaseURL is the gateway API root used when none is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// ErrNotFound is returned when the gateway answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gateway returned %d", e.Code)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.Code, e.Detail)
}

// Client talks to the gateway over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:8000/api.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SkillPage is one page of skill search results.
type SkillPage struct {
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Skills []*skills.Skill `json:"skills"`
}

// CreatedTask is the response to a task creation.
type CreatedTask struct {
	TaskID    string            `json:"task_id"`
	AgentID   string            `json:"agent_id"`
	Status    agents.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// TaskResult is the response to a task execution.
type TaskResult struct {
	TaskID      string            `json:"task_id"`
	Status      agents.TaskStatus `json:"status"`
	Output      *string           `json:"output"`
	Error       *string           `json:"error"`
	CompletedAt *time.Time        `json:"completed_at"`
}

// Health is the combined liveness and readiness view.
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Info is the /api/health/info response.
type Info struct {
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	GoVersion string         `json:"go_version"`
	Platform  string         `json:"platform"`
	Uptime    string         `json:"uptime"`
	Stats     map[string]int `json:"stats"`
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info calls GET /health/info.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var out Info
	if err := c.do(ctx, http.MethodGet, "/health/info", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSkills calls GET /skills with the given filters.
func (c *Client) SearchSkills(ctx context.Context, p skills.SearchParams) (*SkillPage, error) {
	q := url.Values{}
	if p.Query != "" {
		q.Set("query", p.Query)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if len(p.Tags) > 0 {
		q.Set("tags", strings.Join(p.Tags, ","))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}

	path := "/skills"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out SkillPage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Skill calls GET /skills/{id}.
func (c *Client) Skill(ctx context.Context, id string) (*skills.Skill, error) {
	var out skills.Skill
	if err := c.do(ctx, http.MethodGet, "/skills/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories calls GET /skills/categories.
func (c *Client) Categories(ctx context.Context) (map[string]skills.Category, error) {
	var out struct {
		Categories map[string]skills.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/skills/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// InstallSkill calls POST /skills/install.
func (c *Client) InstallSkill(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/skills/install", map[string]string{"skill_id": id}, nil)
}

// ListAgents calls GET /agents.
func (c *Client) ListAgents(ctx context.Context) ([]*agents.Agent, error) {
	var out struct {
		Agents []*agents.Agent `json:"agents"`
	}
	if err := c.do(ctx, http.MethodGet, "/agents", nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// AgentStats calls GET /agents/stats.
func (c *Client) AgentStats(ctx context.Context) (*agents.Stats, error) {
	var out agents.Stats
	if err := c.do(ctx, http.MethodGet, "/agents/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Agent calls GET /agents/{id}.
func (c *Client) Agent(ctx context.Context, id string) (*agents.Agent, error) {
	var out agents.Agent
	if err := c.do(ctx, http.MethodGet, "/agents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask calls POST /agents/task.
func (c *Client) CreateTask(ctx context.Context, agentID, input string) (*CreatedTask, error) {
	body := map[string]string{"agent_id": agentID, "input": input}
	var out CreatedTask
	if err := c.do(ctx, http.MethodPost, "/agents/task", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecuteTask calls POST /agents/task/{id}/execute.
func (c *Client) ExecuteTask(ctx context.Context, taskID string) (*TaskResult, error) {
	var out TaskResult
	if err := c.do(ctx, http.MethodPost, "/agents/task/"+url.PathEscape(taskID)+"/execute", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Commands calls GET /commands.
func (c *Client) Commands(ctx context.Context) (map[string]slash.Command, error) {
	var out struct {
		Commands map[string]slash.Command `json:"commands"`
	}
	if err := c.do(ctx, http.MethodGet, "/commands", nil, &out); err != nil {
		return nil, err
	}
	return out.Commands, nil
}

// ExecuteCommand calls POST /commands/execute.
func (c *Client) ExecuteCommand(ctx context.Context, command string, args []string) (*slash.Response, error) {
	if args == nil {
		args = []string{}
	}
	body := map[string]any{"command": command, "args": args}
	var out slash.Response
	if err := c.do(ctx, http.MethodPost, "/commands/execute", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Detail: e.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
