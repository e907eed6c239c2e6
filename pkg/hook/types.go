// Package hook runs user supplied Tengo scripts around a fetch.
package hook

import "context"

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	// PreFetch runs after an asset was chosen and before it is downloaded.
	PreFetch HookType = "pre-fetch"
	// PostFetch runs once the artifact is in place.
	PostFetch HookType = "post-fetch"
)

// Types lists the supported hook types in execution order.
var Types = []HookType{PreFetch, PostFetch}

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks. Fields not yet known when
// a hook runs are left empty.
type HookContext struct {
	Repository  string
	Tag         string
	AssetName   string
	DownloadURL string
	LocalPath   string
	Digest      string
	Verified    bool
	Extracted   bool
	Vars        map[string]interface{}
}

// HookManager defines the interface for managing hooks.
type HookManager interface {
	// Execute runs the specified hook type with the given context
	Execute(ctx context.Context, hookType HookType, hctx HookContext) error

	// AddHook adds a new hook
	AddHook(hook Hook) error

	// RemoveHook removes a hook of the specified type
	RemoveHook(hookType HookType) error

	// HasHook checks if a hook of the specified type exists
	HasHook(hookType HookType) bool
}
