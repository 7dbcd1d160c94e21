// Package bridge adapts a thread-oriented agent backend to one canonical
// event vocabulary and one session-resumption model. A Client is created per
// logical conversation thread; its backend handle is obtained lazily on first
// query and cached for the client's lifetime.
package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/codexlink/codexlink-core/core/agents"
	"github.com/codexlink/codexlink-core/core/auth"
	"github.com/codexlink/codexlink-core/core/events"
	"github.com/codexlink/codexlink-core/internal/retry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultWorkingDirectory = "."
	defaultSandboxMode      = "workspace-write"
	// Commands run without per-call approval prompts; the sandbox is the
	// guard rail.
	defaultApprovalPolicy = "never"
)

// EventStream is a finite, forward-only sequence of canonical events for one
// turn. It terminates after the terminal result event and is not reusable
// once exhausted.
type EventStream func(yield func(events.Event, error) bool)

type Client struct {
	backend  agents.Client
	resolver *auth.Resolver
	policy   retry.Policy
	log      *slog.Logger

	workingDirectory string
	sandboxMode      string
	approvalPolicy   string

	threadMu sync.Mutex
	thread   agents.Thread
}

type Option func(*Client)

func WithResolver(resolver *auth.Resolver) Option {
	return func(c *Client) {
		c.resolver = resolver
	}
}

func WithRetryPolicy(policy retry.Policy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func WithWorkingDirectory(dir string) Option {
	return func(c *Client) {
		c.workingDirectory = dir
	}
}

func WithSandboxMode(mode string) Option {
	return func(c *Client) {
		c.sandboxMode = mode
	}
}

func WithApprovalPolicy(policy string) Option {
	return func(c *Client) {
		c.approvalPolicy = policy
	}
}

func New(backend agents.Client, opts ...Option) *Client {
	client := &Client{
		backend:          backend,
		resolver:         auth.NewResolver(),
		policy:           retry.DefaultPolicy(),
		log:              logger,
		workingDirectory: defaultWorkingDirectory,
		sandboxMode:      defaultSandboxMode,
		approvalPolicy:   defaultApprovalPolicy,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Query runs one turn and returns its canonical event stream. Backend-reported
// turn failures arrive as a terminal ResultError event; transport and setup
// failures (including exhausted retries) are yielded as errors instead and
// must not be conflated with the former.
func (c *Client) Query(ctx context.Context, prompt string, opts ...QueryOption) EventStream {
	options := QueryOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return func(yield func(events.Event, error) bool) {
		ctx, span := tracer.Start(ctx, "query turn")
		defer span.End()

		thread, err := c.ensureThread(ctx, options)
		if err != nil {
			err = fmt.Errorf("codexlink: failed to obtain thread: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}
		span.SetAttributes(attribute.String("thread.id", thread.ID()))

		assembled := assemblePrompt(prompt, options)

		// Only acquiring the stream is retried, never per-event processing.
		stream, err := retry.Do(ctx, c.log, c.policy, func(ctx context.Context) (agents.EventStream, error) {
			return thread.Run(ctx, assembled)
		})
		if err != nil {
			err = fmt.Errorf("codexlink: failed to start turn stream: %w", err)
			span.RecordError(err)
			yield(nil, err)
			return
		}

		turn := newTurnState(thread.ID())
		for event, err := range stream {
			if err != nil {
				err = fmt.Errorf("codexlink: failed while streaming turn: %w", err)
				span.RecordError(err)
				yield(nil, err)
				return
			}

			for _, canonical := range translate(event, turn) {
				if !yield(canonical, nil) {
					return
				}
			}
			if turn.terminal {
				break
			}
		}

		if turn.usage != nil {
			span.SetAttributes(
				attribute.Int("usage.input_tokens", turn.usage.InputTokens),
				attribute.Int("usage.cached_input_tokens", turn.usage.CachedInputTokens),
				attribute.Int("usage.output_tokens", turn.usage.OutputTokens),
			)
		}

		if !turn.terminal {
			yield(events.NewResultSuccess(), nil)
		}
	}
}

// ensureThread resolves the cached backend handle, resuming the named thread
// when options ask for it and starting a fresh one otherwise. The mutex makes
// initialization single-flight: a concurrent second caller waits for the
// in-flight attempt instead of starting a duplicate.
func (c *Client) ensureThread(ctx context.Context, options QueryOptions) (agents.Thread, error) {
	c.threadMu.Lock()
	defer c.threadMu.Unlock()

	if c.thread != nil {
		return c.thread, nil
	}

	var (
		thread agents.Thread
		err    error
	)
	if options.Resume != "" {
		thread, err = c.backend.ResumeThread(ctx, options.Resume)
		if err != nil {
			return nil, fmt.Errorf("failed to resume thread %s: %w", options.Resume, err)
		}
	} else {
		thread, err = c.backend.StartThread(ctx,
			agents.WithWorkingDirectory(c.workingDirectory),
			agents.WithSandboxMode(c.sandboxMode),
			agents.WithApprovalPolicy(c.approvalPolicy),
			agents.WithModel(options.Model),
			agents.WithEffort(effortFromTemperature(options.Temperature)),
			agents.WithProviderOverrides(options.ProviderOptions),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start thread: %w", err)
		}
	}

	c.thread = thread
	return thread, nil
}
