package agents

import (
	"context"
	"fmt"
	"time"
)

// DefaultExecutionDelay is how long SimulatedExecutor takes per task.
const DefaultExecutionDelay = 100 * time.Millisecond

// Executor produces the output of a task. It is where model inference
// would plug in.
type Executor interface {
	Execute(ctx context.Context, agent Agent, task Task) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, agent Agent, task Task) (string, error)

func (f ExecutorFunc) Execute(ctx context.Context, agent Agent, task Task) (string, error) {
	return f(ctx, agent, task)
}

// SimulatedExecutor waits Delay and reports the task as completed by the agent.
type SimulatedExecutor struct {
	Delay time.Duration
}

func (e SimulatedExecutor) Execute(ctx context.Context, agent Agent, _ Task) (string, error) {
	if e.Delay > 0 {
		timer := time.NewTimer(e.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("Task completed by %s", agent.Name), nil
}
