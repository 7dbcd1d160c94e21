package openai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/codexlink/codexlink-core/core/realtime"
)

type weatherArgs struct {
	Location string `json:"location"`
}

func marshalSession(t *testing.T, config realtime.SessionConfig) map[string]json.RawMessage {
	t.Helper()

	frame, err := sessionUpdateFrame(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("failed to marshal frame: %v", err)
	}

	var envelope struct {
		Type    string                     `json:"type"`
		Session map[string]json.RawMessage `json:"session"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("failed to unmarshal frame: %v", err)
	}
	if envelope.Type != "session.update" {
		t.Fatalf("unexpected frame type %q", envelope.Type)
	}
	return envelope.Session
}

func TestSessionUpdateOmitsUnsetTurnDetection(t *testing.T) {
	session := marshalSession(t, realtime.NewSessionConfig(realtime.WithVoice("marin")))
	if _, present := session["turn_detection"]; present {
		t.Fatalf("unset turn detection must be omitted, got %s", session["turn_detection"])
	}
}

func TestSessionUpdateSendsNullForClearedTurnDetection(t *testing.T) {
	session := marshalSession(t, realtime.NewSessionConfig(realtime.WithoutTurnDetection()))
	raw, present := session["turn_detection"]
	if !present || string(raw) != "null" {
		t.Fatalf("cleared turn detection must be explicit null, got %q", raw)
	}
}

func TestSessionUpdateMarshalsConfiguredTurnDetection(t *testing.T) {
	session := marshalSession(t, realtime.NewSessionConfig(
		realtime.WithTurnDetection(realtime.TurnDetection{
			Type:              "server_vad",
			SilenceDurationMs: 700,
			Threshold:         0.6,
		}),
	))

	var detection turnDetectionPayload
	if err := json.Unmarshal(session["turn_detection"], &detection); err != nil {
		t.Fatalf("failed to unmarshal turn detection: %v", err)
	}
	if detection.Type != "server_vad" || detection.SilenceDurationMs != 700 || detection.Threshold != 0.6 {
		t.Fatalf("unexpected turn detection %#v", detection)
	}
}

func TestSessionUpdateStampsToolsAsFunctions(t *testing.T) {
	session := marshalSession(t, realtime.NewSessionConfig(
		realtime.WithTools(realtime.ToolFor[weatherArgs]("get_weather", "Look up the weather.")),
	))

	var tools []toolSpec
	if err := json.Unmarshal(session["tools"], &tools); err != nil {
		t.Fatalf("failed to unmarshal tools: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("expected one tool, got %d", len(tools))
	}
	if tools[0].Type != "function" || tools[0].Name != "get_weather" {
		t.Fatalf("unexpected tool spec %#v", tools[0])
	}
	if tools[0].Parameters == nil {
		t.Fatalf("expected a reflected parameter schema")
	}
	if _, ok := tools[0].Parameters.Properties.Get("location"); !ok {
		t.Fatalf("expected location property in reflected schema")
	}
}

func TestSessionUpdateCarriesScalarFields(t *testing.T) {
	session := marshalSession(t, realtime.NewSessionConfig(
		realtime.WithVoice("marin"),
		realtime.WithInstructions("Be brief."),
		realtime.WithInputAudioFormat("pcm16"),
		realtime.WithOutputAudioFormat("pcm16"),
		realtime.WithMaxResponseOutputTokens(2048),
	))

	for key, want := range map[string]string{
		"voice":               `"marin"`,
		"instructions":        `"Be brief."`,
		"input_audio_format":  `"pcm16"`,
		"output_audio_format": `"pcm16"`,
	} {
		if got := string(session[key]); got != want {
			t.Fatalf("session[%q] = %s, want %s", key, got, want)
		}
	}
	if got := string(session["max_response_output_tokens"]); got != "2048" {
		t.Fatalf("unexpected token limit %s", got)
	}
}

func TestClientEventsCarryUniqueIDs(t *testing.T) {
	first := newClientEvent("response.create")
	second := newClientEvent("response.create")
	if first.EventID == "" || first.EventID == second.EventID {
		t.Fatalf("expected unique non-empty event ids, got %q and %q", first.EventID, second.EventID)
	}
	if !strings.HasPrefix(first.Type, "response.") {
		t.Fatalf("unexpected type %q", first.Type)
	}
}
