package bridge

import "github.com/codexlink/codexlink-core/internal/utils"

// QueryOptions shape a single query invocation.
type QueryOptions struct {
	SystemPrompt string
	// Resume names a prior session id; when set the named thread is resumed
	// instead of starting a new one.
	Resume string
	Model  string
	// Temperature in [0, 1] is translated to the backend's discrete
	// reasoning-effort knob; nil means the default effort.
	Temperature *float64
	// Images are URL references prepended to the prompt, one line each.
	Images []string
	// ProviderOptions are free-form request overrides; they win on key
	// collision with the defaults.
	ProviderOptions map[string]any
}

type QueryOption func(*QueryOptions)

func WithSystemPrompt(systemPrompt string) QueryOption {
	return func(o *QueryOptions) {
		o.SystemPrompt = systemPrompt
	}
}

func WithResume(sessionID string) QueryOption {
	return func(o *QueryOptions) {
		o.Resume = sessionID
	}
}

func WithModel(model string) QueryOption {
	return func(o *QueryOptions) {
		o.Model = model
	}
}

func WithTemperature(temperature float64) QueryOption {
	return func(o *QueryOptions) {
		o.Temperature = utils.Ptr(temperature)
	}
}

func WithImages(urls ...string) QueryOption {
	return func(o *QueryOptions) {
		o.Images = append(o.Images, urls...)
	}
}

func WithProviderOptions(overrides map[string]any) QueryOption {
	return func(o *QueryOptions) {
		o.ProviderOptions = overrides
	}
}
