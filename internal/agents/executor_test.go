package agents

import (
	"context"
	"testing"
	"time"
)

func TestSimulatedExecutor(t *testing.T) {
	out, err := SimulatedExecutor{Delay: time.Millisecond}.Execute(context.Background(), Agent{Name: "Data Agent"}, Task{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "Task completed by Data Agent" {
		t.Errorf("output = %q", out)
	}
}

func TestSimulatedExecutor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SimulatedExecutor{Delay: time.Hour}.Execute(ctx, Agent{}, Task{})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
