package agents

// ReasoningEffort is the discrete control knob for how much deliberation the
// backend applies before responding.
type ReasoningEffort string

const (
	ReasoningEffortMinimal ReasoningEffort = "minimal"
	ReasoningEffortLow     ReasoningEffort = "low"
	ReasoningEffortMedium  ReasoningEffort = "medium"
	ReasoningEffortHigh    ReasoningEffort = "high"
	ReasoningEffortXHigh   ReasoningEffort = "xhigh"
)

// ThreadOptions configure a newly started thread. ProviderOverrides are merged
// into the request last, so they win on key collision.
type ThreadOptions struct {
	WorkingDirectory  string
	SandboxMode       string
	ApprovalPolicy    string
	Model             string
	Effort            ReasoningEffort
	ProviderOverrides map[string]any
}

type ThreadOption func(*ThreadOptions)

func WithWorkingDirectory(dir string) ThreadOption {
	return func(o *ThreadOptions) {
		o.WorkingDirectory = dir
	}
}

func WithSandboxMode(mode string) ThreadOption {
	return func(o *ThreadOptions) {
		o.SandboxMode = mode
	}
}

func WithApprovalPolicy(policy string) ThreadOption {
	return func(o *ThreadOptions) {
		o.ApprovalPolicy = policy
	}
}

func WithModel(model string) ThreadOption {
	return func(o *ThreadOptions) {
		o.Model = model
	}
}

func WithEffort(effort ReasoningEffort) ThreadOption {
	return func(o *ThreadOptions) {
		o.Effort = effort
	}
}

func WithProviderOverrides(overrides map[string]any) ThreadOption {
	return func(o *ThreadOptions) {
		o.ProviderOverrides = overrides
	}
}
