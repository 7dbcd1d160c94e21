package agents

import (
	"encoding/json"
	"fmt"
)

// EventType is the top-level type of a native streamed thread event.
type EventType string

const (
	EventTypeThreadStarted EventType = "thread.started"
	EventTypeTurnStarted   EventType = "turn.started"
	EventTypeTurnCompleted EventType = "turn.completed"
	EventTypeTurnFailed    EventType = "turn.failed"
	EventTypeItemStarted   EventType = "item.started"
	EventTypeItemUpdated   EventType = "item.updated"
	EventTypeItemCompleted EventType = "item.completed"
	EventTypeError         EventType = "error"
)

// ItemType describes the payload of item.* events.
type ItemType string

const (
	ItemTypeAgentMessage     ItemType = "agent_message"
	ItemTypeReasoning        ItemType = "reasoning"
	ItemTypeCommandExecution ItemType = "command_execution"
	ItemTypeFileChange       ItemType = "file_change"
	ItemTypeMcpToolCall      ItemType = "mcp_tool_call"
)

// ThreadEvent is implemented by every native event variant a backend streams.
type ThreadEvent interface {
	threadEvent()
	EventType() EventType
}

// Usage captures token consumption reported for a completed turn.
type Usage struct {
	InputTokens       int `json:"input_tokens"`
	CachedInputTokens int `json:"cached_input_tokens"`
	OutputTokens      int `json:"output_tokens"`
}

// ThreadError is the failure payload of a turn.failed event.
type ThreadError struct {
	Message string `json:"message"`
}

// FileChange summarises one file touched by a file_change item.
type FileChange struct {
	Path string `json:"path,omitempty"`
	Kind string `json:"kind,omitempty"`
}

// ThreadItem is the payload of item.* events. Fields are populated depending
// on Type.
type ThreadItem struct {
	ID   string   `json:"id,omitempty"`
	Type ItemType `json:"type,omitempty"`

	// agent_message, reasoning
	Text string `json:"text,omitempty"`

	// command_execution
	Command          string `json:"command,omitempty"`
	AggregatedOutput string `json:"aggregated_output,omitempty"`
	ExitCode         *int   `json:"exit_code,omitempty"`

	// file_change
	Changes []FileChange `json:"changes,omitempty"`

	// mcp_tool_call
	Server string `json:"server,omitempty"`
	Tool   string `json:"tool,omitempty"`

	Status string `json:"status,omitempty"`
}

// ThreadStarted is emitted when a thread is created or resumed.
type ThreadStarted struct {
	ThreadID string
}

func (ThreadStarted) threadEvent()         {}
func (ThreadStarted) EventType() EventType { return EventTypeThreadStarted }

// TurnStarted marks the beginning of a turn.
type TurnStarted struct{}

func (TurnStarted) threadEvent()         {}
func (TurnStarted) EventType() EventType { return EventTypeTurnStarted }

// TurnCompleted marks a successful turn and carries usage accounting.
type TurnCompleted struct {
	Usage Usage
}

func (TurnCompleted) threadEvent()         {}
func (TurnCompleted) EventType() EventType { return EventTypeTurnCompleted }

// TurnFailed marks a turn that ended with a backend-reported error.
type TurnFailed struct {
	Err ThreadError
}

func (TurnFailed) threadEvent()         {}
func (TurnFailed) EventType() EventType { return EventTypeTurnFailed }

// ItemStarted is emitted when a thread item is created.
type ItemStarted struct {
	Item ThreadItem
}

func (ItemStarted) threadEvent()         {}
func (ItemStarted) EventType() EventType { return EventTypeItemStarted }

// ItemUpdated is emitted as an item transitions between intermediate states.
type ItemUpdated struct {
	Item ThreadItem
}

func (ItemUpdated) threadEvent()         {}
func (ItemUpdated) EventType() EventType { return EventTypeItemUpdated }

// ItemCompleted is emitted when an item reaches a terminal state.
type ItemCompleted struct {
	Item ThreadItem
}

func (ItemCompleted) threadEvent()         {}
func (ItemCompleted) EventType() EventType { return EventTypeItemCompleted }

// StreamError is emitted when the stream itself reports an error.
type StreamError struct {
	Message string
}

func (StreamError) threadEvent()         {}
func (StreamError) EventType() EventType { return EventTypeError }

// UnknownEvent preserves events of a type this contract does not model yet.
// Consumers are expected to ignore it rather than fail the turn.
type UnknownEvent struct {
	Type EventType
	Raw  json.RawMessage
}

func (UnknownEvent) threadEvent()           {}
func (e UnknownEvent) EventType() EventType { return e.Type }

type eventEnvelope struct {
	Type     EventType    `json:"type"`
	ThreadID string       `json:"thread_id,omitempty"`
	Usage    *Usage       `json:"usage,omitempty"`
	Item     *ThreadItem  `json:"item,omitempty"`
	Error    *ThreadError `json:"error,omitempty"`
	Message  string       `json:"message,omitempty"`
}

// DecodeEvent parses one native wire event into its tagged variant. Event
// types outside the modelled set decode into UnknownEvent; only malformed
// JSON is an error.
func DecodeEvent(data []byte) (ThreadEvent, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode thread event: %w", err)
	}

	switch envelope.Type {
	case EventTypeThreadStarted:
		return ThreadStarted{ThreadID: envelope.ThreadID}, nil
	case EventTypeTurnStarted:
		return TurnStarted{}, nil
	case EventTypeTurnCompleted:
		var usage Usage
		if envelope.Usage != nil {
			usage = *envelope.Usage
		}
		return TurnCompleted{Usage: usage}, nil
	case EventTypeTurnFailed:
		var threadErr ThreadError
		if envelope.Error != nil {
			threadErr = *envelope.Error
		}
		return TurnFailed{Err: threadErr}, nil
	case EventTypeItemStarted:
		return ItemStarted{Item: itemOrZero(envelope.Item)}, nil
	case EventTypeItemUpdated:
		return ItemUpdated{Item: itemOrZero(envelope.Item)}, nil
	case EventTypeItemCompleted:
		return ItemCompleted{Item: itemOrZero(envelope.Item)}, nil
	case EventTypeError:
		return StreamError{Message: envelope.Message}, nil
	default:
		return UnknownEvent{Type: envelope.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

func itemOrZero(item *ThreadItem) ThreadItem {
	if item == nil {
		return ThreadItem{}
	}
	return *item
}
