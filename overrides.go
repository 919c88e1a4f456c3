package gatekeeper

import "context"

// RegistrationsHandler replaces the default signup controller behavior
type RegistrationsHandler func(ctx context.Context, data UserRecord) (*SignupResult, error)

// SessionsHandler replaces the default login controller behavior
type SessionsHandler func(ctx context.Context, email, password string) (*LoginResult, error)

// OverrideRegistry lets host applications swap the logical controller
// operations without re-wiring routes. Last registration wins; the registry
// is consulted before falling back to the default behavior.
type OverrideRegistry struct {
	registrations RegistrationsHandler
	sessions      SessionsHandler
}

// NewOverrideRegistry returns an empty registry
func NewOverrideRegistry() *OverrideRegistry {
	return &OverrideRegistry{}
}

// OverrideRegistrations installs a replacement signup operation
func (o *OverrideRegistry) OverrideRegistrations(handler RegistrationsHandler) *OverrideRegistry {
	o.registrations = handler
	return o
}

// OverrideSessions installs a replacement login operation
func (o *OverrideRegistry) OverrideSessions(handler SessionsHandler) *OverrideRegistry {
	o.sessions = handler
	return o
}

// Registrations returns the installed signup override, if any
func (o *OverrideRegistry) Registrations() (RegistrationsHandler, bool) {
	if o == nil || o.registrations == nil {
		return nil, false
	}
	return o.registrations, true
}

// Sessions returns the installed login override, if any
func (o *OverrideRegistry) Sessions() (SessionsHandler, bool) {
	if o == nil || o.sessions == nil {
		return nil, false
	}
	return o.sessions, true
}
