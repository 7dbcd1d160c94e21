package codex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codexlink/codexlink-core/core/agents"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const defaultBaseURL = "https://api.openai.com/v1/codex"

// Client talks to the codex thread service over HTTP, streaming turn events
// as JSON lines.
type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithBaseURL points the client at a non-default deployment, for example a
// hosted gateway.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(credential string, opts ...ClientOption) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		credential: credential,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// WithCredential returns a copy of the client that authenticates with the
// given credential, sharing the transport.
func (c *Client) WithCredential(credential string) agents.Client {
	derived := *c
	derived.credential = credential
	return &derived
}

type startThreadRequest struct {
	WorkingDirectory string                 `json:"working_directory,omitempty"`
	SandboxMode      string                 `json:"sandbox_mode,omitempty"`
	ApprovalPolicy   string                 `json:"approval_policy,omitempty"`
	Model            string                 `json:"model,omitempty"`
	Effort           agents.ReasoningEffort `json:"effort,omitempty"`
}

type startThreadResponse struct {
	ThreadID string `json:"thread_id"`
}

// StartThread creates a fresh thread and returns its handle.
func (c *Client) StartThread(ctx context.Context, opts ...agents.ThreadOption) (agents.Thread, error) {
	ctx, span := tracer.Start(ctx, "start thread")
	defer span.End()

	options := agents.ThreadOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	body := map[string]any{}
	if raw, err := json.Marshal(startThreadRequest{
		WorkingDirectory: options.WorkingDirectory,
		SandboxMode:      options.SandboxMode,
		ApprovalPolicy:   options.ApprovalPolicy,
		Model:            options.Model,
		Effort:           options.Effort,
	}); err != nil {
		return nil, fmt.Errorf("failed to marshal thread request: %w", err)
	} else if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to marshal thread request: %w", err)
	}
	// Overrides win on key collision.
	for key, value := range options.ProviderOverrides {
		body[key] = value
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal thread request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/threads", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create thread request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		err := statusError(resp)
		span.RecordError(err)
		return nil, err
	}

	var created startThreadResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode thread response: %w", err)
	}

	span.SetAttributes(attribute.String("thread.id", created.ThreadID))
	return &thread{client: c, id: created.ThreadID}, nil
}

// ResumeThread returns a handle to an existing thread. The identifier is
// validated by the backend on the next turn.
func (c *Client) ResumeThread(_ context.Context, id string) (agents.Thread, error) {
	if id == "" {
		return nil, fmt.Errorf("thread id must not be empty")
	}
	return &thread{client: c, id: id}, nil
}

func statusError(resp *http.Response) error {
	message := resp.Status
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil && len(bytes.TrimSpace(body)) > 0 {
		message = string(bytes.TrimSpace(body))
	}
	return &agents.StatusError{Status: resp.StatusCode, Message: message}
}
