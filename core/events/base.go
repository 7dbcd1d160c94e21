package events

import "time"

// Kind discriminates the canonical event union.
type Kind string

const (
	// KindSystemInit identifies the first event of a turn, carrying the
	// resumable session identifier.
	KindSystemInit Kind = "system.init"
	// KindTurnStarted identifies the beginning of a turn.
	KindTurnStarted Kind = "system.turn_start"
	// KindReasoning identifies a free-text reasoning trace.
	KindReasoning Kind = "system.reasoning"
	// KindToolResult identifies output of an executed tool or command.
	KindToolResult Kind = "system.tool_result"
	// KindAssistantMessage identifies assistant output composed of ordered
	// content blocks.
	KindAssistantMessage Kind = "assistant.message"
	// KindResultSuccess identifies the terminal event of a turn that completed
	// without error.
	KindResultSuccess Kind = "result.success"
	// KindResultError identifies the terminal event of a turn that failed.
	KindResultError Kind = "result.error"
)

// Terminal reports whether events of this kind end a turn. A turn carries at
// most one terminal event and it is always last.
func (k Kind) Terminal() bool {
	return k == KindResultSuccess || k == KindResultError
}

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the discriminator and emission time every canonical event
// embeds.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
