package bridge

import (
	"testing"

	"github.com/codexlink/codexlink-core/core/agents"
	"github.com/codexlink/codexlink-core/core/events"
	"github.com/codexlink/codexlink-core/internal/utils"
)

func translateAll(t *testing.T, native []agents.ThreadEvent) ([]events.Event, *turnState) {
	t.Helper()
	turn := newTurnState("local-thread")
	var out []events.Event
	for _, event := range native {
		out = append(out, translate(event, turn)...)
	}
	return out, turn
}

func TestTranslateFullTurnSequence(t *testing.T) {
	out, turn := translateAll(t, []agents.ThreadEvent{
		agents.ThreadStarted{ThreadID: "thread-1"},
		agents.TurnStarted{},
		agents.ItemCompleted{Item: agents.ThreadItem{Type: agents.ItemTypeAgentMessage, Text: "hi"}},
		agents.ItemCompleted{Item: agents.ThreadItem{
			Type:             agents.ItemTypeCommandExecution,
			Command:          "ls",
			AggregatedOutput: "out",
			ExitCode:         utils.Ptr(0),
		}},
		agents.TurnCompleted{Usage: agents.Usage{InputTokens: 10, OutputTokens: 3}},
	})

	wantKinds := []events.Kind{
		events.KindSystemInit,
		events.KindTurnStarted,
		events.KindAssistantMessage,
		events.KindAssistantMessage,
		events.KindToolResult,
	}
	if len(out) != len(wantKinds) {
		t.Fatalf("expected %d events, got %d: %#v", len(wantKinds), len(out), out)
	}
	for i, kind := range wantKinds {
		if out[i].Kind() != kind {
			t.Fatalf("event %d: expected kind %s, got %s", i, kind, out[i].Kind())
		}
	}

	init := out[0].(events.SystemInit)
	if init.SessionID != "thread-1" {
		t.Fatalf("expected session id thread-1, got %q", init.SessionID)
	}

	message := out[2].(events.AssistantMessage)
	if text, ok := message.Content[0].(events.TextBlock); !ok || text.Text != "hi" {
		t.Fatalf("expected text block hi, got %#v", message.Content)
	}

	toolUse := out[3].(events.AssistantMessage)
	block, ok := toolUse.Content[0].(events.ToolUseBlock)
	if !ok || block.Name != "bash" {
		t.Fatalf("expected bash tool use, got %#v", toolUse.Content)
	}
	if command, _ := block.Input["command"].(string); command != "ls" {
		t.Fatalf("expected command ls, got %#v", block.Input)
	}

	result := out[4].(events.ToolResult)
	if result.Content != "out" || result.ExitCode != 0 {
		t.Fatalf("unexpected tool result %#v", result)
	}

	if turn.terminal {
		t.Fatalf("turn completion must not mark the turn terminal")
	}
	if turn.usage == nil || turn.usage.InputTokens != 10 {
		t.Fatalf("expected usage recorded, got %#v", turn.usage)
	}
}

func TestTranslateTurnFailureIsTerminal(t *testing.T) {
	out, turn := translateAll(t, []agents.ThreadEvent{
		agents.TurnStarted{},
		agents.TurnFailed{Err: agents.ThreadError{Message: "Rate limit exceeded"}},
	})

	last, ok := out[len(out)-1].(events.ResultError)
	if !ok {
		t.Fatalf("expected terminal result error, got %#v", out[len(out)-1])
	}
	if len(last.Errors) != 1 || last.Errors[0].Message != "Rate limit exceeded" {
		t.Fatalf("unexpected error details %#v", last.Errors)
	}
	if !turn.terminal {
		t.Fatalf("expected terminal turn state")
	}
}

func TestTranslateTurnFailureWithoutMessageUsesFallback(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{agents.TurnFailed{}})
	result := out[0].(events.ResultError)
	if result.Errors[0].Message != "turn failed" {
		t.Fatalf("expected fallback message, got %q", result.Errors[0].Message)
	}
}

func TestTranslateInitFallsBackToLocalThreadID(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{agents.ThreadStarted{}})
	init := out[0].(events.SystemInit)
	if init.SessionID != "local-thread" {
		t.Fatalf("expected fallback to local thread id, got %q", init.SessionID)
	}
}

func TestTranslateEmitsInitAtMostOnce(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{
		agents.ThreadStarted{ThreadID: "a"},
		agents.ThreadStarted{ThreadID: "b"},
	})
	if len(out) != 1 {
		t.Fatalf("expected a single init event, got %d", len(out))
	}
}

func TestTranslateEmitsTerminalAtMostOnce(t *testing.T) {
	out, turn := translateAll(t, []agents.ThreadEvent{
		agents.TurnStarted{},
		agents.TurnFailed{Err: agents.ThreadError{Message: "boom"}},
		agents.ItemCompleted{Item: agents.ThreadItem{Type: agents.ItemTypeAgentMessage, Text: "late"}},
		agents.TurnFailed{Err: agents.ThreadError{Message: "boom again"}},
	})

	if len(out) != 2 {
		t.Fatalf("expected nothing after the terminal event, got %d events: %#v", len(out), out)
	}

	terminals := 0
	for i, event := range out {
		if event.Kind().Terminal() {
			terminals++
			if i != len(out)-1 {
				t.Fatalf("terminal event at index %d of %d", i, len(out))
			}
		}
	}
	if terminals != 1 {
		t.Fatalf("expected exactly one terminal event, got %d", terminals)
	}

	result := out[1].(events.ResultError)
	if result.Errors[0].Message != "boom" {
		t.Fatalf("expected the first failure to win, got %q", result.Errors[0].Message)
	}
	if !turn.terminal {
		t.Fatalf("expected terminal turn state")
	}
}

func TestTranslateReasoningItem(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{
		agents.ItemCompleted{Item: agents.ThreadItem{Type: agents.ItemTypeReasoning, Text: "thinking it through"}},
	})

	reasoning, ok := out[0].(events.Reasoning)
	if !ok || reasoning.Content != "thinking it through" {
		t.Fatalf("expected reasoning event, got %#v", out[0])
	}
}

func TestTranslateToolNaming(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{
		agents.ItemCompleted{Item: agents.ThreadItem{Type: agents.ItemTypeFileChange}},
		agents.ItemCompleted{Item: agents.ThreadItem{Type: agents.ItemTypeMcpToolCall, Server: "search", Tool: "query"}},
	})

	fileChange := out[0].(events.AssistantMessage).Content[0].(events.ToolUseBlock)
	if fileChange.Name != "file_change" {
		t.Fatalf("expected file_change tool use, got %q", fileChange.Name)
	}

	mcp := out[1].(events.AssistantMessage).Content[0].(events.ToolUseBlock)
	if mcp.Name != "mcp__search__query" {
		t.Fatalf("expected namespaced MCP tool use, got %q", mcp.Name)
	}
}

func TestTranslateIgnoresUnknownShapes(t *testing.T) {
	out, _ := translateAll(t, []agents.ThreadEvent{
		agents.ItemStarted{Item: agents.ThreadItem{Type: agents.ItemTypeAgentMessage, Text: "partial"}},
		agents.ItemUpdated{Item: agents.ThreadItem{Type: agents.ItemTypeAgentMessage, Text: "partial"}},
		agents.ItemCompleted{Item: agents.ThreadItem{Type: "web_search"}},
		agents.UnknownEvent{Type: "thread.archived"},
	})
	if len(out) != 0 {
		t.Fatalf("expected unknown shapes to be dropped, got %#v", out)
	}
}
