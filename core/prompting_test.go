package bridge

import (
	"testing"

	"github.com/codexlink/codexlink-core/core/agents"
	"github.com/codexlink/codexlink-core/internal/utils"
)

func TestEffortFromTemperatureBuckets(t *testing.T) {
	cases := []struct {
		temperature *float64
		want        agents.ReasoningEffort
	}{
		{utils.Ptr(0.0), agents.ReasoningEffortXHigh},
		{utils.Ptr(0.1), agents.ReasoningEffortXHigh},
		{utils.Ptr(0.2), agents.ReasoningEffortXHigh},
		{utils.Ptr(0.3), agents.ReasoningEffortHigh},
		{utils.Ptr(0.4), agents.ReasoningEffortHigh},
		{utils.Ptr(0.5), agents.ReasoningEffortMedium},
		{utils.Ptr(0.6), agents.ReasoningEffortMedium},
		{utils.Ptr(0.7), agents.ReasoningEffortLow},
		{utils.Ptr(0.8), agents.ReasoningEffortLow},
		{utils.Ptr(0.9), agents.ReasoningEffortMinimal},
		{utils.Ptr(1.0), agents.ReasoningEffortMinimal},
		{nil, agents.ReasoningEffortMedium},
	}

	for _, tc := range cases {
		got := effortFromTemperature(tc.temperature)
		if got != tc.want {
			if tc.temperature == nil {
				t.Fatalf("expected %s for unset temperature, got %s", tc.want, got)
			}
			t.Fatalf("expected %s for temperature %v, got %s", tc.want, *tc.temperature, got)
		}
	}
}

func TestAssemblePromptKeepsPlainPromptUntouched(t *testing.T) {
	if got := assemblePrompt("hello", QueryOptions{}); got != "hello" {
		t.Fatalf("expected untouched prompt, got %q", got)
	}
}

func TestAssemblePromptPrependsImageAndSystemBlocks(t *testing.T) {
	got := assemblePrompt("describe these", QueryOptions{
		SystemPrompt: "You are terse.",
		Images:       []string{"https://example.com/a.png", "https://example.com/b.png"},
	})

	want := "[Image 1]: https://example.com/a.png\n" +
		"[Image 2]: https://example.com/b.png\n\n" +
		"You are terse.\n\n" +
		"describe these"
	if got != want {
		t.Fatalf("unexpected assembled prompt:\n%q\nwant:\n%q", got, want)
	}
}

func TestAssemblePromptWithSystemPromptOnly(t *testing.T) {
	got := assemblePrompt("hi", QueryOptions{SystemPrompt: "sys"})
	if got != "sys\n\nhi" {
		t.Fatalf("unexpected assembled prompt %q", got)
	}
}
