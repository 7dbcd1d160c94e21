package events

// SystemInit carries the backend-assigned session identifier a caller can use
// to resume the thread later.
type SystemInit struct {
	Base
	SessionID string
}

func NewSystemInit(sessionID string) SystemInit {
	return SystemInit{Base: NewBase(KindSystemInit), SessionID: sessionID}
}

// TurnStarted marks the beginning of a turn.
type TurnStarted struct {
	Base
}

func NewTurnStarted() TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted)}
}

// Reasoning carries a reasoning trace emitted while the backend deliberates.
type Reasoning struct {
	Base
	Content string
}

func NewReasoning(content string) Reasoning {
	return Reasoning{Base: NewBase(KindReasoning), Content: content}
}

// ToolResult carries the aggregated output and exit code of an executed
// command.
type ToolResult struct {
	Base
	Content  string
	ExitCode int
}

func NewToolResult(content string, exitCode int) ToolResult {
	return ToolResult{Base: NewBase(KindToolResult), Content: content, ExitCode: exitCode}
}
