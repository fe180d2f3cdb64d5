package agents

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is a unit of work bound to one agent.
type Task struct {
	ID          string     `json:"id"`
	AgentID     string     `json:"agent_id"`
	Input       string     `json:"input"`
	Output      string     `json:"output,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func newTask(agentID, input string) *Task {
	return &Task{
		ID:        uuid.New().String(),
		AgentID:   agentID,
		Input:     input,
		Status:    TaskPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}

// IsTerminal reports whether the task has finished, successfully or not.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskCompleted || t.Status == TaskFailed
}

func (t *Task) fail(msg string) {
	now := time.Now().UTC()
	t.Status = TaskFailed
	t.Error = msg
	t.CompletedAt = &now
}

func (t *Task) complete(output string) {
	now := time.Now().UTC()
	t.Status = TaskCompleted
	t.Output = output
	t.CompletedAt = &now
}
