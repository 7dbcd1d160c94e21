// Package auth resolves the active backend credential from the delegated auth
// file, the environment, or an explicit caller-supplied key. File problems
// never escape this package; they degrade to "no file-based credential".
package auth

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvCredential is the environment variable consulted when no delegated
	// auth file is usable.
	EnvCredential = "OPENAI_API_KEY"
	// KeyPrefix marks an explicit credential as belonging to this backend.
	KeyPrefix = "sk-"

	authFileDir  = ".codex"
	authFileName = "auth.json"
)

// Method identifies how the active credential was obtained.
type Method string

const (
	MethodNone   Method = "none"
	MethodOAuth  Method = "oauth"
	MethodAPIKey Method = "api-key"
)

// State is the resolved authentication state.
type State struct {
	Method Method

	// OAuth fields, populated when Method is MethodOAuth.
	AccessToken  string
	RefreshToken string
	Email        string
	PlanType     string

	// APIKey, populated when Method is MethodAPIKey.
	APIKey string
}

// Gateway reports whether hosted-gateway routing is in effect: delegated OAuth
// credentials route through the gateway with a tenant-scoped token.
func (s State) Gateway() bool {
	return s.Method == MethodOAuth
}

// Resolver reads credentials from the delegated auth file and the
// environment. File path and env lookup are injectable so tests run without
// touching the caller's environment.
type Resolver struct {
	filePath  string
	lookupEnv func(string) (string, bool)
	log       *slog.Logger
}

type ResolverOption func(*Resolver)

func WithAuthFile(path string) ResolverOption {
	return func(r *Resolver) {
		r.filePath = path
	}
}

func WithEnvLookup(lookup func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = lookup
	}
}

func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

func NewResolver(opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		lookupEnv: os.LookupEnv,
		log:       logger,
	}
	if home, err := os.UserHomeDir(); err == nil {
		resolver.filePath = filepath.Join(home, authFileDir, authFileName)
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver
}

// authFile covers both delegated credential shapes: an OAuth token bundle or a
// flat API-key record.
type authFile struct {
	APIKey string `json:"OPENAI_API_KEY"`
	Tokens *struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		IDToken      string `json:"id_token"`
	} `json:"tokens"`
}

// Resolve determines the active authentication state. Precedence: an explicit
// credential bearing the backend key prefix wins; otherwise the delegated auth
// file, then the environment variable.
func (r *Resolver) Resolve(explicit string) State {
	if strings.HasPrefix(explicit, KeyPrefix) {
		return State{Method: MethodAPIKey, APIKey: explicit}
	}

	if state, ok := r.resolveFile(); ok {
		return state
	}

	if key, ok := r.lookupEnv(EnvCredential); ok && key != "" {
		return State{Method: MethodAPIKey, APIKey: key}
	}

	return State{Method: MethodNone}
}

func (r *Resolver) resolveFile() (State, bool) {
	if r.filePath == "" {
		return State{}, false
	}

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Debug("failed to read auth file", "path", r.filePath, "error", err)
		}
		return State{}, false
	}

	var file authFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.log.Debug("failed to parse auth file", "path", r.filePath, "error", err)
		return State{}, false
	}

	if file.Tokens != nil && file.Tokens.AccessToken != "" {
		state := State{
			Method:       MethodOAuth,
			AccessToken:  file.Tokens.AccessToken,
			RefreshToken: file.Tokens.RefreshToken,
		}
		state.Email, state.PlanType = identityClaims(file.Tokens.IDToken)
		return state, true
	}

	if file.APIKey != "" {
		return State{Method: MethodAPIKey, APIKey: file.APIKey}, true
	}

	return State{}, false
}

// identityClaims decodes best-effort email and plan claims from the identity
// token. The signature is not verified; the token only annotates the state and
// a decode failure yields empty fields.
func identityClaims(idToken string) (email, planType string) {
	if idToken == "" {
		return "", ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return "", ""
	}

	if value, ok := claims["email"].(string); ok {
		email = value
	}
	if authClaim, ok := claims["https://api.openai.com/auth"].(map[string]any); ok {
		if value, ok := authClaim["chatgpt_plan_type"].(string); ok {
			planType = value
		}
	}
	return email, planType
}

// HasCredentials reports whether any ambient credential is available.
func (r *Resolver) HasCredentials() bool {
	return r.Resolve("").Method != MethodNone
}

// ActiveMethod reports how ambient credentials would authenticate.
func (r *Resolver) ActiveMethod() Method {
	return r.Resolve("").Method
}

// MethodInfo describes one way a caller can authenticate.
type MethodInfo struct {
	Method        Method
	Label         string
	Available     bool
	RequiresInput bool
}

// Methods enumerates the available authentication methods. Manual API-key
// entry is always listed as available and requiring input.
func (r *Resolver) Methods() []MethodInfo {
	state := r.Resolve("")
	return []MethodInfo{
		{
			Method:    MethodOAuth,
			Label:     "Sign in with delegated OAuth",
			Available: state.Method == MethodOAuth,
		},
		{
			Method:    MethodAPIKey,
			Label:     "Ambient API key",
			Available: state.Method == MethodAPIKey,
		},
		{
			Method:        MethodAPIKey,
			Label:         "Enter API key manually",
			Available:     true,
			RequiresInput: true,
		},
	}
}
