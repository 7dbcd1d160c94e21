package openai

import (
	"encoding/json"
	"fmt"

	"github.com/codexlink/codexlink-core/core/realtime"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
)

// Server event names this client demultiplexes. Everything else is ignored at
// diagnostic level.
const (
	serverEventSessionCreated         = "session.created"
	serverEventAudioDelta             = "response.audio.delta"
	serverEventAudioTranscriptDone    = "response.audio_transcript.done"
	serverEventInputTranscriptionDone = "conversation.item.input_audio_transcription.completed"
	serverEventTextDelta              = "response.text.delta"
	serverEventFunctionArgumentsDone  = "response.function_call_arguments.done"
	serverEventError                  = "error"
)

// serverEvent is the flat envelope every inbound message decodes into before
// being matched to a known variant.
type serverEvent struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	Session struct {
		ID string `json:"id"`
	} `json:"session"`
	Delta      string `json:"delta"`
	Transcript string `json:"transcript"`
	CallID     string `json:"call_id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	Error      struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type clientEvent struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

func newClientEvent(eventType string) clientEvent {
	return clientEvent{EventID: uuid.NewString(), Type: eventType}
}

type inputAudioAppendEvent struct {
	clientEvent
	Audio string `json:"audio"`
}

type conversationItemCreateEvent struct {
	clientEvent
	Item conversationItem `json:"item"`
}

type conversationItem struct {
	Type   string `json:"type"`
	CallID string `json:"call_id,omitempty"`
	Output string `json:"output,omitempty"`
}

type responseCreateEvent struct {
	clientEvent
}

type sessionUpdateEvent struct {
	clientEvent
	Session sessionPayload `json:"session"`
}

type sessionPayload struct {
	Voice                   string          `json:"voice,omitempty"`
	Instructions            string          `json:"instructions,omitempty"`
	InputAudioFormat        string          `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string          `json:"output_audio_format,omitempty"`
	TurnDetection           json.RawMessage `json:"turn_detection,omitempty"`
	Tools                   []toolSpec      `json:"tools,omitempty"`
	MaxResponseOutputTokens int             `json:"max_response_output_tokens,omitempty"`
}

type turnDetectionPayload struct {
	Type              string  `json:"type"`
	SilenceDurationMs int     `json:"silence_duration_ms,omitempty"`
	Threshold         float64 `json:"threshold,omitempty"`
}

type toolSpec struct {
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// sessionUpdateFrame builds the session.update push from the caller's config.
// An explicitly cleared turn detection is sent as JSON null; an unset one is
// omitted so the server default stays in place.
func sessionUpdateFrame(config realtime.SessionConfig) (sessionUpdateEvent, error) {
	frame := sessionUpdateEvent{
		clientEvent: newClientEvent("session.update"),
		Session: sessionPayload{
			Voice:                   config.Voice,
			Instructions:            config.Instructions,
			InputAudioFormat:        config.InputAudioFormat,
			OutputAudioFormat:       config.OutputAudioFormat,
			MaxResponseOutputTokens: config.MaxResponseOutputTokens,
		},
	}

	switch {
	case config.TurnDetection != nil:
		raw, err := json.Marshal(turnDetectionPayload{
			Type:              config.TurnDetection.Type,
			SilenceDurationMs: config.TurnDetection.SilenceDurationMs,
			Threshold:         config.TurnDetection.Threshold,
		})
		if err != nil {
			return sessionUpdateEvent{}, fmt.Errorf("failed to marshal turn detection: %w", err)
		}
		frame.Session.TurnDetection = raw
	case config.TurnDetectionCleared:
		frame.Session.TurnDetection = json.RawMessage("null")
	}

	if len(config.Tools) > 0 {
		var tools []toolSpec
		if err := copier.Copy(&tools, config.Tools); err != nil {
			return sessionUpdateEvent{}, fmt.Errorf("failed to copy tool specs: %w", err)
		}
		for i := range tools {
			tools[i].Type = "function"
		}
		frame.Session.Tools = tools
	}

	return frame, nil
}
