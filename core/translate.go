package bridge

import (
	"github.com/codexlink/codexlink-core/core/agents"
	"github.com/codexlink/codexlink-core/core/events"
)

// turnState tracks the little bookkeeping a turn needs: which thread id to
// fall back to, whether init was already emitted, and whether a terminal
// event has been produced.
type turnState struct {
	threadID string
	sawInit  bool
	terminal bool
	usage    *agents.Usage
}

func newTurnState(threadID string) *turnState {
	return &turnState{threadID: threadID}
}

// translate maps one native thread event to zero or more canonical events.
// It is a pure forward pass: no buffering, no look-ahead, and the relative
// order of multi-event expansions is preserved. Unrecognized events and item
// kinds are dropped so one unknown shape never fails a whole turn.
func translate(event agents.ThreadEvent, turn *turnState) []events.Event {
	// A terminal event ends the turn. Anything a misbehaving backend streams
	// after it, including a second failure, is dropped.
	if turn.terminal {
		return nil
	}

	switch event := event.(type) {
	case agents.ThreadStarted:
		if turn.sawInit {
			return nil
		}
		turn.sawInit = true
		sessionID := event.ThreadID
		if sessionID == "" {
			sessionID = turn.threadID
		} else {
			turn.threadID = sessionID
		}
		return []events.Event{events.NewSystemInit(sessionID)}

	case agents.TurnStarted:
		return []events.Event{events.NewTurnStarted()}

	case agents.ItemCompleted:
		return translateItem(event.Item)

	case agents.TurnCompleted:
		// Usage is accounting only; cost and billing never surface in
		// canonical output.
		turn.usage = &event.Usage
		return nil

	case agents.TurnFailed:
		turn.terminal = true
		message := event.Err.Message
		if message == "" {
			message = "turn failed"
		}
		return []events.Event{events.NewResultError(message)}

	case agents.StreamError:
		turn.terminal = true
		message := event.Message
		if message == "" {
			message = "turn failed"
		}
		return []events.Event{events.NewResultError(message)}

	default:
		// item.started, item.updated and unknown event types carry nothing
		// the canonical vocabulary needs.
		return nil
	}
}

func translateItem(item agents.ThreadItem) []events.Event {
	switch item.Type {
	case agents.ItemTypeAgentMessage:
		return []events.Event{events.NewAssistantText(item.Text)}

	case agents.ItemTypeReasoning:
		return []events.Event{events.NewReasoning(item.Text)}

	case agents.ItemTypeCommandExecution:
		exitCode := 0
		if item.ExitCode != nil {
			exitCode = *item.ExitCode
		}
		return []events.Event{
			events.NewAssistantToolUse("bash", map[string]any{"command": item.Command}),
			events.NewToolResult(item.AggregatedOutput, exitCode),
		}

	case agents.ItemTypeFileChange:
		return []events.Event{events.NewAssistantToolUse("file_change", nil)}

	case agents.ItemTypeMcpToolCall:
		return []events.Event{events.NewAssistantToolUse("mcp__"+item.Server+"__"+item.Tool, nil)}

	default:
		return nil
	}
}
