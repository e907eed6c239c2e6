package hook

import (
	"context"
	"slices"
	"sync"
)

// DefaultHookManager is the default implementation of HookManager.
type DefaultHookManager struct {
	executor *TengoExecutor
	mutex    sync.RWMutex
}

// NewHookManager creates a new hook manager.
func NewHookManager() *DefaultHookManager {
	return &DefaultHookManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the specified hook type with the given context.
func (m *DefaultHookManager) Execute(ctx context.Context, hookType HookType, hctx HookContext) error {
	if !m.HasHook(hookType) {
		return nil
	}

	if hctx.Vars == nil {
		hctx.Vars = make(map[string]interface{})
	}
	return m.executor.Execute(ctx, hookType, hctx)
}

// AddHook adds a new hook, replacing any hook of the same type.
func (m *DefaultHookManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return ErrHookTypeEmpty
	}
	if !slices.Contains(Types, hook.Type) {
		return ErrUnsupportedHookType(hook.Type)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// RemoveHook removes a hook of the specified type.
func (m *DefaultHookManager) RemoveHook(hookType HookType) error {
	if hookType == "" {
		return ErrHookTypeEmpty
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.executor.RemoveScript(hookType)
	return nil
}

// HasHook checks if a hook of the specified type exists.
func (m *DefaultHookManager) HasHook(hookType HookType) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.executor.HasScript(hookType)
}

var _ HookManager = (*DefaultHookManager)(nil)
