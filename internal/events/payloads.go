package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// SKILL EVENTS
// =============================================================================

type SkillInstalledPayload struct {
	SkillID    string `json:"skill_id"`
	UsageCount int    `json:"usage_count"`
}

func (SkillInstalledPayload) EventType() EventType { return EventSkillInstalled }

// =============================================================================
// TASK EVENTS
// =============================================================================

type TaskCreatedPayload struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
	Input   string `json:"input"`
}

func (TaskCreatedPayload) EventType() EventType { return EventTaskCreated }

type TaskStartedPayload struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
}

func (TaskStartedPayload) EventType() EventType { return EventTaskStarted }

type TaskCompletedPayload struct {
	TaskID   string        `json:"task_id"`
	AgentID  string        `json:"agent_id"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration"`
}

func (TaskCompletedPayload) EventType() EventType { return EventTaskCompleted }

type TaskFailedPayload struct {
	TaskID  string `json:"task_id"`
	AgentID string `json:"agent_id"`
	Error   string `json:"error"`
}

func (TaskFailedPayload) EventType() EventType { return EventTaskFailed }

// =============================================================================
// AGENT EVENTS
// =============================================================================

type AgentStatusPayload struct {
	AgentID string `json:"agent_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func (AgentStatusPayload) EventType() EventType { return EventAgentStatus }

// =============================================================================
// COMMAND EVENTS
// =============================================================================

type CommandExecutedPayload struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
	Status  string   `json:"status"`
}

func (CommandExecutedPayload) EventType() EventType { return EventCommandExecuted }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	if e.Type != result.EventType() {
		return result, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}
