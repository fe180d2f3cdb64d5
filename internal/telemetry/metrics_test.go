package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected int64 sum, got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordInstall(ctx, "github")
	m.RecordInstall(ctx, "github")
	m.RecordTaskCreated(ctx, "coding-agent")
	m.RecordTaskExecuted(ctx, "coding-agent", "completed", 100*time.Millisecond)

	got := collect(t, reader)

	if n := sumOf(t, got["athena.skills.installed"]); n != 2 {
		t.Errorf("expected 2 installs, got %d", n)
	}
	if n := sumOf(t, got["athena.tasks.created"]); n != 1 {
		t.Errorf("expected 1 task created, got %d", n)
	}
	if n := sumOf(t, got["athena.tasks.executed"]); n != 1 {
		t.Errorf("expected 1 task executed, got %d", n)
	}
	if _, ok := got["athena.task.duration"]; !ok {
		t.Error("expected task duration histogram")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordInstall(ctx, "github")
	m.RecordTaskCreated(ctx, "coding-agent")
	m.RecordTaskExecuted(ctx, "coding-agent", "failed", time.Second)
}

func TestInit(t *testing.T) {
	shutdown, err := Init(Config{Exporter: "none"})
	if err != nil {
		t.Fatalf("Init none: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}

	if _, err := Init(Config{Exporter: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown exporter")
	}
}
