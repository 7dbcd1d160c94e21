// Package realtime defines the canonical event vocabulary and session
// configuration for the duplex voice protocol. Concrete protocol clients live
// in subpackages (realtime/openai).
package realtime

import "time"

type Kind string

const (
	// KindSessionCreated identifies a successful handshake carrying the
	// server-assigned session id.
	KindSessionCreated Kind = "session_created"
	// KindAudio identifies an output audio chunk.
	KindAudio Kind = "audio"
	// KindTranscript identifies a completed transcript for either role.
	KindTranscript Kind = "transcript"
	// KindText identifies an incremental text delta.
	KindText Kind = "text"
	// KindToolCall identifies a completed function call request.
	KindToolCall Kind = "tool_call"
	// KindError identifies a server-reported error.
	KindError Kind = "error"
	// KindClosed identifies connection closure.
	KindClosed Kind = "closed"
)

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

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

// Role marks which side of the conversation a transcript belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SessionCreated is emitted once the server acknowledges the connection.
type SessionCreated struct {
	Base
	SessionID string
}

func NewSessionCreated(sessionID string) SessionCreated {
	return SessionCreated{Base: NewBase(KindSessionCreated), SessionID: sessionID}
}

// Audio carries one decoded chunk of output audio. Payload bytes are opaque;
// no codec transformation happens here.
type Audio struct {
	Base
	Data []byte
}

func NewAudio(data []byte) Audio {
	return Audio{Base: NewBase(KindAudio), Data: data}
}

// Transcript carries a completed transcript segment.
type Transcript struct {
	Base
	Text string
	Role Role
}

func NewTranscript(text string, role Role) Transcript {
	return Transcript{Base: NewBase(KindTranscript), Text: text, Role: role}
}

// Text carries an incremental text delta.
type Text struct {
	Base
	Text string
}

func NewText(text string) Text {
	return Text{Base: NewBase(KindText), Text: text}
}

// ToolCall requests execution of a function. Arguments are the raw JSON text
// as sent by the server, never parsed here.
type ToolCall struct {
	Base
	CallID    string
	Name      string
	Arguments string
}

func NewToolCall(callID, name, arguments string) ToolCall {
	return ToolCall{Base: NewBase(KindToolCall), CallID: callID, Name: name, Arguments: arguments}
}

// Error carries a server-reported error.
type Error struct {
	Base
	Message string
	Code    string
}

func NewError(message, code string) Error {
	return Error{Base: NewBase(KindError), Message: message, Code: code}
}

// Closed reports that the connection is gone, for whatever reason.
type Closed struct {
	Base
	Reason string
}

func NewClosed(reason string) Closed {
	return Closed{Base: NewBase(KindClosed), Reason: reason}
}
