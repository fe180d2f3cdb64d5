package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded by the skill registry and the
// agent orchestrator. A nil *Metrics records nothing.
type Metrics struct {
	skillsInstalled metric.Int64Counter
	tasksCreated    metric.Int64Counter
	tasksExecuted   metric.Int64Counter
	taskDuration    metric.Float64Histogram
}

// NewMetrics creates the instruments on the given provider, or the global
// one when mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("athena")

	skillsInstalled, err := meter.Int64Counter(
		"athena.skills.installed",
		metric.WithDescription("Skill installs by skill id"),
	)
	if err != nil {
		return nil, err
	}

	tasksCreated, err := meter.Int64Counter(
		"athena.tasks.created",
		metric.WithDescription("Tasks created by agent"),
	)
	if err != nil {
		return nil, err
	}

	tasksExecuted, err := meter.Int64Counter(
		"athena.tasks.executed",
		metric.WithDescription("Task executions by agent and final status"),
	)
	if err != nil {
		return nil, err
	}

	taskDuration, err := meter.Float64Histogram(
		"athena.task.duration",
		metric.WithDescription("Task execution time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		skillsInstalled: skillsInstalled,
		tasksCreated:    tasksCreated,
		tasksExecuted:   tasksExecuted,
		taskDuration:    taskDuration,
	}, nil
}

// RecordInstall counts one install of skillID.
func (m *Metrics) RecordInstall(ctx context.Context, skillID string) {
	if m == nil {
		return
	}
	m.skillsInstalled.Add(ctx, 1, metric.WithAttributes(attribute.String("skill.id", skillID)))
}

// RecordTaskCreated counts one task created for agentID.
func (m *Metrics) RecordTaskCreated(ctx context.Context, agentID string) {
	if m == nil {
		return
	}
	m.tasksCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("agent.id", agentID)))
}

// RecordTaskExecuted counts a finished execution and its duration.
func (m *Metrics) RecordTaskExecuted(ctx context.Context, agentID, status string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("agent.id", agentID),
		attribute.String("status", status),
	)
	m.tasksExecuted.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}
