package codex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/codexlink/codexlink-core/core/agents"
	"go.opentelemetry.io/otel/attribute"
)

type thread struct {
	client *Client
	id     string
}

func (t *thread) ID() string {
	return t.id
}

type turnRequest struct {
	Prompt string `json:"prompt"`
}

// Run submits the prompt and returns the turn's event stream. The request is
// issued and its status checked here, so a caller can retry acquisition
// without re-reading a half-consumed body.
func (t *thread) Run(ctx context.Context, prompt string) (agents.EventStream, error) {
	payload, err := json.Marshal(turnRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal turn request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.client.baseURL+"/threads/"+t.id+"/turns", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create turn request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/jsonl")
	req.Header.Set("Authorization", "Bearer "+t.client.credential)

	resp, err := t.client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start turn: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}

	return func(yield func(agents.ThreadEvent, error) bool) {
		defer resp.Body.Close()

		_, span := tracer.Start(ctx, "stream turn events")
		defer span.End()
		span.SetAttributes(attribute.String("thread.id", t.id))

		eventCount := 0
		defer func() {
			span.SetAttributes(attribute.Int("response.event_count", eventCount))
		}()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) == 0 {
				continue
			}

			event, err := agents.DecodeEvent([]byte(line))
			if err != nil {
				// A malformed line is dropped, not fatal to the turn.
				logger.Warn("dropping malformed thread event", "error", err)
				continue
			}

			if started, ok := event.(agents.ThreadStarted); ok && started.ThreadID != "" {
				t.id = started.ThreadID
				span.SetAttributes(attribute.String("thread.id", t.id))
			}
			if completed, ok := event.(agents.TurnCompleted); ok {
				span.SetAttributes(
					attribute.Int("usage.input_tokens", completed.Usage.InputTokens),
					attribute.Int("usage.cached_input_tokens", completed.Usage.CachedInputTokens),
					attribute.Int("usage.output_tokens", completed.Usage.OutputTokens),
				)
			}

			eventCount++
			if !yield(event, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			err = fmt.Errorf("failed to read turn event stream: %w", err)
			span.RecordError(err)
			yield(nil, err)
		}
	}, nil
}
