package bridge

import (
	"fmt"
	"strings"

	"github.com/codexlink/codexlink-core/core/agents"
)

// effortFromTemperature maps the continuous temperature knob onto the
// backend's discrete reasoning-effort levels. Low temperature asks for more
// deliberation; boundary values belong to the higher-effort bucket.
func effortFromTemperature(temperature *float64) agents.ReasoningEffort {
	if temperature == nil {
		return agents.ReasoningEffortMedium
	}

	switch t := *temperature; {
	case t <= 0.2:
		return agents.ReasoningEffortXHigh
	case t <= 0.4:
		return agents.ReasoningEffortHigh
	case t <= 0.6:
		return agents.ReasoningEffortMedium
	case t <= 0.8:
		return agents.ReasoningEffortLow
	default:
		return agents.ReasoningEffortMinimal
	}
}

// assemblePrompt prepends the image-reference block and the system prompt to
// the user prompt, in that order, each separated by a blank line.
func assemblePrompt(prompt string, options QueryOptions) string {
	var sections []string

	if len(options.Images) > 0 {
		lines := make([]string, 0, len(options.Images))
		for i, ref := range options.Images {
			lines = append(lines, fmt.Sprintf("[Image %d]: %s", i+1, ref))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if options.SystemPrompt != "" {
		sections = append(sections, options.SystemPrompt)
	}

	sections = append(sections, prompt)
	return strings.Join(sections, "\n\n")
}
