package realtime

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// DefaultModel is used when a session config names no model.
const DefaultModel = "gpt-realtime"

// TurnDetection configures server-side voice activity detection.
type TurnDetection struct {
	Type              string
	SilenceDurationMs int
	Threshold         float64
}

// Tool is a function spec exposed to the realtime session.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// ToolFor reflects T into the tool's parameter schema.
func ToolFor[T any](name, description string) Tool {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.ReflectFromType(reflect.TypeOf((*T)(nil)).Elem())
	return Tool{Name: name, Description: description, Parameters: schema}
}

// SessionConfig describes the session pushed to the server right after the
// handshake. TurnDetection distinguishes "leave server default" (unset) from
// "explicitly disable" (cleared).
type SessionConfig struct {
	Voice                   string
	Model                   string
	Instructions            string
	InputAudioFormat        string
	OutputAudioFormat       string
	TurnDetection           *TurnDetection
	TurnDetectionCleared    bool
	Tools                   []Tool
	MaxResponseOutputTokens int
}

type SessionOption func(*SessionConfig)

func WithVoice(voice string) SessionOption {
	return func(c *SessionConfig) {
		c.Voice = voice
	}
}

func WithModel(model string) SessionOption {
	return func(c *SessionConfig) {
		c.Model = model
	}
}

func WithInstructions(instructions string) SessionOption {
	return func(c *SessionConfig) {
		c.Instructions = instructions
	}
}

func WithInputAudioFormat(format string) SessionOption {
	return func(c *SessionConfig) {
		c.InputAudioFormat = format
	}
}

func WithOutputAudioFormat(format string) SessionOption {
	return func(c *SessionConfig) {
		c.OutputAudioFormat = format
	}
}

// WithTurnDetection enables server-side turn detection with the given policy.
func WithTurnDetection(detection TurnDetection) SessionOption {
	return func(c *SessionConfig) {
		c.TurnDetection = &detection
		c.TurnDetectionCleared = false
	}
}

// WithoutTurnDetection explicitly clears server-side turn detection, as
// opposed to leaving the server default in place.
func WithoutTurnDetection() SessionOption {
	return func(c *SessionConfig) {
		c.TurnDetection = nil
		c.TurnDetectionCleared = true
	}
}

func WithTools(tools ...Tool) SessionOption {
	return func(c *SessionConfig) {
		c.Tools = append(c.Tools, tools...)
	}
}

func WithMaxResponseOutputTokens(limit int) SessionOption {
	return func(c *SessionConfig) {
		c.MaxResponseOutputTokens = limit
	}
}

// NewSessionConfig applies opts over an empty config.
func NewSessionConfig(opts ...SessionOption) SessionConfig {
	config := SessionConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}
