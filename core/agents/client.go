package agents

import "context"

// EventStream is a finite, forward-only sequence of native thread events. It
// is exhausted after one iteration and is not restartable.
type EventStream func(yield func(ThreadEvent, error) bool)

// Thread is a handle to one backend conversation context.
type Thread interface {
	// ID returns the backend-assigned thread identifier, or an empty string
	// until the backend reports one.
	ID() string
	// Run submits a prompt and returns the event stream for the resulting
	// turn. Acquiring the stream is the retryable part of a turn; iterating
	// it is not.
	Run(ctx context.Context, prompt string) (EventStream, error)
}

// Client is the thread-oriented backend contract the bridge orchestrates.
type Client interface {
	StartThread(ctx context.Context, opts ...ThreadOption) (Thread, error)
	ResumeThread(ctx context.Context, id string) (Thread, error)
	// Models enumerates the backend-supported model identifiers.
	Models() []string
	// KeyPrefix is the backend's credential prefix convention, used to decide
	// whether an explicit credential string belongs to this backend.
	KeyPrefix() string
	// WithCredential returns a client identical to the receiver except that it
	// authenticates with the given credential. The receiver is unchanged.
	WithCredential(credential string) Client
}
