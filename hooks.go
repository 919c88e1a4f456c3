package gatekeeper

import "context"

// HookName identifies a lifecycle extension point
type HookName string

const (
	HookBeforeRegister HookName = "beforeRegister"
	HookAfterRegister  HookName = "afterRegister"
	HookBeforeLogin    HookName = "beforeLogin"
	HookAfterLogin     HookName = "afterLogin"
)

// HookFunc observes a lifecycle event. Hooks receive the live record and may
// mutate it, but callers must not rely on mutation for control flow: hooks
// are observers, not pipeline transforms.
type HookFunc func(ctx context.Context, record UserRecord) error

// HookRegistry holds lifecycle callbacks. Entries are append-only for the
// process lifetime and expected to be registered before traffic begins;
// dispatch performs concurrent reads only.
type HookRegistry struct {
	hooks map[HookName][]HookFunc
}

// NewHookRegistry returns an empty registry
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: map[HookName][]HookFunc{},
	}
}

// Register appends a callback for the named lifecycle point
func (h *HookRegistry) Register(name HookName, fn HookFunc) *HookRegistry {
	if fn == nil {
		return h
	}
	h.hooks[name] = append(h.hooks[name], fn)
	return h
}

// BeforeRegister registers a callback for the beforeRegister point
func (h *HookRegistry) BeforeRegister(fn HookFunc) *HookRegistry {
	return h.Register(HookBeforeRegister, fn)
}

// AfterRegister registers a callback for the afterRegister point
func (h *HookRegistry) AfterRegister(fn HookFunc) *HookRegistry {
	return h.Register(HookAfterRegister, fn)
}

// BeforeLogin registers a callback for the beforeLogin point
func (h *HookRegistry) BeforeLogin(fn HookFunc) *HookRegistry {
	return h.Register(HookBeforeLogin, fn)
}

// AfterLogin registers a callback for the afterLogin point
func (h *HookRegistry) AfterLogin(fn HookFunc) *HookRegistry {
	return h.Register(HookAfterLogin, fn)
}

// Dispatch runs every callback registered for name, strictly in registration
// order and sequentially. Errors and panics are absorbed per callback so a
// broken hook never aborts signup or login, and a later hook still runs
// after an earlier one fails.
func (h *HookRegistry) Dispatch(ctx context.Context, name HookName, record UserRecord) {
	if h == nil {
		return
	}
	for _, fn := range h.hooks[name] {
		runHook(ctx, fn, record)
	}
}

func runHook(ctx context.Context, fn HookFunc, record UserRecord) {
	defer func() {
		// swallow panics along with errors; hook failures are invisible
		// to the pipeline by contract
		_ = recover()
	}()
	_ = fn(ctx, record)
}
