package agents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/athena-agent/athena/internal/events"
	"github.com/athena-agent/athena/internal/telemetry"
)

// Stats aggregates the agent population.
type Stats struct {
	TotalAgents  int            `json:"total_agents"`
	ActiveAgents int            `json:"active_agents"`
	TotalTasks   int            `json:"total_tasks"`
	AgentTypes   map[string]int `json:"agent_types"`
}

// OrchestratorConfig holds the dependencies of an Orchestrator.
type OrchestratorConfig struct {
	Executor Executor // defaults to SimulatedExecutor with DefaultExecutionDelay
	Bus      *events.Bus
	Metrics  *telemetry.Metrics
}

// Orchestrator owns the agents and their tasks. All methods are safe for
// concurrent use; counters are updated under a single mutex.
type Orchestrator struct {
	mu          sync.RWMutex
	agents      map[string]*Agent
	order       []string
	tasks       map[string]*Task
	initialized bool

	executor Executor
	bus      *events.Bus
	metrics  *telemetry.Metrics
}

// NewOrchestrator creates an empty orchestrator. Call Initialize before use.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	exec := cfg.Executor
	if exec == nil {
		exec = SimulatedExecutor{Delay: DefaultExecutionDelay}
	}
	return &Orchestrator{
		agents:   make(map[string]*Agent),
		tasks:    make(map[string]*Task),
		executor: exec,
		bus:      cfg.Bus,
		metrics:  cfg.Metrics,
	}
}

// Initialize creates the specialized agents. Calls after the first are no-ops.
func (o *Orchestrator) Initialize(_ context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return nil
	}

	slog.Info("initializing agent orchestrator...")

	now := time.Now().UTC()
	for _, def := range specializedAgents {
		a := def.newAgent(now)
		o.agents[a.ID] = a
		o.order = append(o.order, a.ID)
	}

	o.initialized = true
	slog.Info("agent orchestrator initialized", "agents", len(o.agents))
	return nil
}

// AgentCount returns the number of agents.
func (o *Orchestrator) AgentCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.agents)
}

// Get returns a copy of the agent, or nil.
func (o *Orchestrator) Get(id string) *Agent {
	o.mu.RLock()
	defer o.mu.RUnlock()

	a, ok := o.agents[id]
	if !ok {
		return nil
	}
	return a.Clone()
}

// All returns copies of every agent in roster order.
func (o *Orchestrator) All() []*Agent {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*Agent, 0, len(o.order))
	for _, id := range o.order {
		if a, ok := o.agents[id]; ok {
			out = append(out, a.Clone())
		}
	}
	return out
}

// CreateTask queues a pending task for an agent. It returns nil when the
// agent does not exist.
func (o *Orchestrator) CreateTask(ctx context.Context, agentID, input string) *Task {
	o.mu.Lock()
	a, ok := o.agents[agentID]
	if !ok {
		o.mu.Unlock()
		return nil
	}

	task := newTask(agentID, input)
	o.tasks[task.ID] = task
	a.TaskCount++
	now := time.Now().UTC()
	a.LastActive = &now
	snapshot := task.Clone()
	o.mu.Unlock()

	slog.Debug("task created", "task_id", task.ID, "agent_id", agentID)
	o.metrics.RecordTaskCreated(ctx, agentID)
	o.bus.Publish(events.NewTypedEvent(events.SourceAgents, events.TaskCreatedPayload{
		TaskID:  task.ID,
		AgentID: agentID,
		Input:   input,
	}))
	return snapshot
}

// GetTask returns a copy of the task, or nil.
func (o *Orchestrator) GetTask(id string) *Task {
	o.mu.RLock()
	defer o.mu.RUnlock()

	t, ok := o.tasks[id]
	if !ok {
		return nil
	}
	return t.Clone()
}

// ExecuteTask runs a pending task to completion and returns its final
// state. It returns nil when the task does not exist. A task that is not
// pending is returned as is. Execution failures are recorded on the task
// and on the agent status; they are never returned. Execution is detached
// from ctx cancellation, so a caller going away does not abort the task.
func (o *Orchestrator) ExecuteTask(ctx context.Context, taskID string) *Task {
	o.mu.Lock()
	task, ok := o.tasks[taskID]
	if !ok {
		o.mu.Unlock()
		return nil
	}
	if task.Status != TaskPending {
		snapshot := task.Clone()
		o.mu.Unlock()
		return snapshot
	}

	agent, ok := o.agents[task.AgentID]
	if !ok {
		// no completion time: the task never ran
		task.Status = TaskFailed
		task.Error = "Agent not found"
		snapshot := task.Clone()
		o.mu.Unlock()

		slog.Warn("task execution failed", "task_id", taskID, "agent_id", task.AgentID, "error", task.Error)
		o.publishFailed(snapshot)
		return snapshot
	}

	from := agent.setStatus(StatusRunning)
	task.Status = TaskRunning
	agentView := *agent.Clone()
	taskView := *task.Clone()
	o.mu.Unlock()

	o.publishStatus(agentView.ID, from, StatusRunning)
	o.bus.Publish(events.NewTypedEvent(events.SourceAgents, events.TaskStartedPayload{
		TaskID:  taskID,
		AgentID: agentView.ID,
	}))

	ctx = events.ContextWithTaskID(context.WithoutCancel(ctx), taskID)
	start := time.Now()
	output, err := o.run(ctx, agentView, taskView)
	elapsed := time.Since(start)

	o.mu.Lock()
	var to Status
	if err != nil {
		task.fail(err.Error())
		to = StatusError
	} else {
		task.complete(output)
		to = StatusIdle
	}
	agent.setStatus(to)
	snapshot := task.Clone()
	o.mu.Unlock()

	o.publishStatus(agentView.ID, StatusRunning, to)
	o.metrics.RecordTaskExecuted(ctx, agentView.ID, string(snapshot.Status), elapsed)

	if err != nil {
		slog.Error("task execution failed", "task_id", taskID, "agent_id", agentView.ID, "error", err)
		o.publishFailed(snapshot)
		return snapshot
	}

	slog.Info("task completed", "task_id", taskID, "agent_id", agentView.ID, "duration", elapsed)
	o.bus.Publish(events.NewTypedEvent(events.SourceAgents, events.TaskCompletedPayload{
		TaskID:   taskID,
		AgentID:  agentView.ID,
		Output:   snapshot.Output,
		Duration: elapsed,
	}))
	return snapshot
}

// run invokes the executor, turning a panic into an error.
func (o *Orchestrator) run(ctx context.Context, agent Agent, task Task) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()

	return o.executor.Execute(ctx, agent, task)
}

func (o *Orchestrator) publishStatus(agentID string, from, to Status) {
	if from == to {
		return
	}
	o.bus.Publish(events.NewTypedEvent(events.SourceAgents, events.AgentStatusPayload{
		AgentID: agentID,
		From:    string(from),
		To:      string(to),
	}))
}

func (o *Orchestrator) publishFailed(t *Task) {
	o.bus.Publish(events.NewTypedEvent(events.SourceAgents, events.TaskFailedPayload{
		TaskID:  t.ID,
		AgentID: t.AgentID,
		Error:   t.Error,
	}))
}

// Stats returns the aggregate view of all agents. AgentTypes holds an
// entry for every Type, including those with no agent.
func (o *Orchestrator) Stats() Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	st := Stats{
		TotalAgents: len(o.agents),
		AgentTypes:  make(map[string]int, len(AllTypes())),
	}
	for _, t := range AllTypes() {
		st.AgentTypes[string(t)] = 0
	}
	for _, a := range o.agents {
		st.TotalTasks += a.TaskCount
		if a.Status == StatusRunning {
			st.ActiveAgents++
		}
		st.AgentTypes[string(a.Type)]++
	}
	return st
}

// Cleanup terminates every agent and drops all agents and tasks. The next
// Initialize recreates the roster.
func (o *Orchestrator) Cleanup() {
	o.mu.Lock()
	type change struct {
		id   string
		from Status
	}
	changes := make([]change, 0, len(o.order))
	for _, id := range o.order {
		if a, ok := o.agents[id]; ok {
			changes = append(changes, change{id, a.setStatus(StatusTerminated)})
		}
	}
	clear(o.agents)
	clear(o.tasks)
	o.order = nil
	o.initialized = false
	o.mu.Unlock()

	for _, c := range changes {
		o.publishStatus(c.id, c.from, StatusTerminated)
	}
	slog.Info("agent orchestrator cleaned up")
}
