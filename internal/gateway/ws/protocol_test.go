package ws

import (
	"encoding/json"
	"testing"
)

func TestNewRequestFrame(t *testing.T) {
	f, err := NewRequestFrame("req-1", MethodCreateTask, CreateTaskParams{AgentID: "coding-agent", Input: "hi"})
	if err != nil {
		t.Fatalf("NewRequestFrame: %v", err)
	}
	if f.Type != FrameTypeRequest || f.Method != "create_task" || f.ID != "req-1" {
		t.Fatalf("unexpected frame: %+v", f)
	}

	data, err := MarshalFrame(f)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}
	got, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}

	var p CreateTaskParams
	if err := json.Unmarshal(got.Params, &p); err != nil {
		t.Fatalf("unmarshal params: %v", err)
	}
	if p.AgentID != "coding-agent" || p.Input != "hi" {
		t.Fatalf("params = %+v", p)
	}
}

func TestNewRequestFrame_NoParams(t *testing.T) {
	f, err := NewRequestFrame("req-2", MethodGetStats, nil)
	if err != nil {
		t.Fatalf("NewRequestFrame: %v", err)
	}
	if f.Params != nil {
		t.Fatalf("expected nil params, got %s", f.Params)
	}
}

func TestNewEventFrame(t *testing.T) {
	f, err := NewEventFrame("task.created", map[string]string{"task_id": "t1"})
	if err != nil {
		t.Fatalf("NewEventFrame: %v", err)
	}
	if f.Type != FrameTypeEvent {
		t.Fatalf("expected type %q, got %q", FrameTypeEvent, f.Type)
	}
	if f.Event != "task.created" {
		t.Fatalf("expected event %q, got %q", "task.created", f.Event)
	}

	var p map[string]string
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if p["task_id"] != "t1" {
		t.Fatalf("expected payload.task_id %q, got %q", "t1", p["task_id"])
	}
}

func TestNewResponseFrame_OK(t *testing.T) {
	f, err := NewResponseFrame("req-5", true, map[string]string{"status": "done"}, "")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.Type != FrameTypeResponse {
		t.Fatalf("expected type %q, got %q", FrameTypeResponse, f.Type)
	}
	if f.OK == nil || !*f.OK {
		t.Fatal("expected ok=true")
	}
	if f.Error != "" {
		t.Fatalf("expected no error, got %q", f.Error)
	}
}

func TestNewResponseFrame_Error(t *testing.T) {
	f, err := NewResponseFrame("req-6", false, nil, "something went wrong")
	if err != nil {
		t.Fatalf("NewResponseFrame: %v", err)
	}
	if f.OK == nil || *f.OK {
		t.Fatal("expected ok=false")
	}
	if f.Error != "something went wrong" {
		t.Fatalf("expected error %q, got %q", "something went wrong", f.Error)
	}
	if f.Payload != nil {
		t.Fatalf("expected nil payload, got %s", string(f.Payload))
	}
}
