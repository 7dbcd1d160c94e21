package openai

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/codexlink/codexlink-core/core/realtime"
)

const (
	defaultOrigin       = "wss://api.openai.com"
	defaultRealtimePath = "/v1/realtime"

	// gatewaySuffix marks a base URL as a hosted-gateway deployment. The
	// suffix is swapped for the realtime path, keeping the gateway origin.
	gatewaySuffix = "/codex"
)

// endpointURL derives the websocket endpoint from the configured base URL and
// appends the model as a query parameter.
func endpointURL(baseURL, model string) (string, error) {
	if model == "" {
		model = realtime.DefaultModel
	}

	target, err := resolveEndpoint(baseURL)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("model", model)
	target.RawQuery = query.Encode()
	return target.String(), nil
}

func resolveEndpoint(baseURL string) (*url.URL, error) {
	if baseURL == "" {
		return url.Parse(defaultOrigin + defaultRealtimePath)
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("malformed realtime base URL %q", baseURL)
	}

	scheme, err := wsScheme(parsed.Scheme)
	if err != nil {
		return nil, fmt.Errorf("malformed realtime base URL %q: %w", baseURL, err)
	}

	target := &url.URL{Scheme: scheme, Host: parsed.Host}
	if path := strings.TrimRight(parsed.Path, "/"); strings.HasSuffix(path, gatewaySuffix) {
		target.Path = strings.TrimSuffix(path, gatewaySuffix) + "/realtime"
	} else {
		target.Path = defaultRealtimePath
	}
	return target, nil
}

func wsScheme(scheme string) (string, error) {
	switch scheme {
	case "http":
		return "ws", nil
	case "https":
		return "wss", nil
	case "ws", "wss":
		return scheme, nil
	default:
		return "", fmt.Errorf("unsupported scheme %q", scheme)
	}
}
