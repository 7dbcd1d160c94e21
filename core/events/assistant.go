package events

// ContentBlock is one ordered element of an assistant message: either plain
// text or a tool invocation.
type ContentBlock interface {
	contentBlock()
}

// TextBlock is a plain text content block.
type TextBlock struct {
	Text string
}

func (TextBlock) contentBlock() {}

// ToolUseBlock records a tool invocation by name with optional structured
// input.
type ToolUseBlock struct {
	Name  string
	Input map[string]any
}

func (ToolUseBlock) contentBlock() {}

// AssistantMessage carries assistant output as an ordered list of content
// blocks.
type AssistantMessage struct {
	Base
	Content []ContentBlock
}

// NewAssistantText creates an assistant message holding a single text block.
func NewAssistantText(text string) AssistantMessage {
	return AssistantMessage{
		Base:    NewBase(KindAssistantMessage),
		Content: []ContentBlock{TextBlock{Text: text}},
	}
}

// NewAssistantToolUse creates an assistant message holding a single tool-use
// block.
func NewAssistantToolUse(name string, input map[string]any) AssistantMessage {
	return AssistantMessage{
		Base:    NewBase(KindAssistantMessage),
		Content: []ContentBlock{ToolUseBlock{Name: name, Input: input}},
	}
}
