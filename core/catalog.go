package bridge

import (
	"context"
	"strings"

	"github.com/codexlink/codexlink-core/core/agents"
	"github.com/codexlink/codexlink-core/internal/retry"
)

// ListModels returns the backend's supported model identifiers. The catalog
// is pinned by the backend client; no network call is made.
func (c *Client) ListModels() []string {
	return c.backend.Models()
}

// HealthCheck probes the backend with a lightweight thread creation, retried
// under the client's policy. Residual errors are swallowed and logged.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if err := c.probe(ctx, c.backend); err != nil {
		c.log.Warn("backend health check failed", "error", err)
		return false
	}
	return true
}

// ValidateCredentials reports whether the given credential can reach the
// backend. An empty credential delegates to ambient credential availability;
// a non-empty one must match the backend's key-prefix convention and pass a
// backend probe authenticated with that credential, not the ambient one.
func (c *Client) ValidateCredentials(ctx context.Context, credential string) bool {
	if credential == "" {
		return c.resolver.HasCredentials()
	}
	if !strings.HasPrefix(credential, c.backend.KeyPrefix()) {
		return false
	}

	if err := c.probe(ctx, c.backend.WithCredential(credential)); err != nil {
		c.log.Warn("credential validation probe failed", "error", err)
		return false
	}
	return true
}

func (c *Client) probe(ctx context.Context, backend agents.Client) error {
	_, err := retry.Do(ctx, c.log, c.policy, func(ctx context.Context) (agents.Thread, error) {
		return backend.StartThread(ctx)
	})
	return err
}
