package codex

import "slices"

// KeyPrefix is the credential prefix convention for this backend.
const KeyPrefix = "sk-"

// The backend exposes no model-enumeration endpoint, so the catalog is pinned
// to the models this client release supports.
var supportedModels = []string{
	"gpt-5-codex",
	"gpt-5",
	"o4-mini",
	"codex-mini-latest",
}

// Models returns the pinned catalog of supported model identifiers.
func (c *Client) Models() []string {
	return slices.Clone(supportedModels)
}

// KeyPrefix returns the backend's credential prefix convention.
func (c *Client) KeyPrefix() string {
	return KeyPrefix
}
