package gatekeeper

import (
	"strings"

	"github.com/goliatone/go-router"
)

// DefaultContextKey is the router local under which the guard stores the
// resolved identity.
const DefaultContextKey = "user"

// DefaultSessionKey is the router local the guard reads in session mode. The
// host application's session layer is expected to have placed a UserRecord
// there.
const DefaultSessionKey = "session_user"

// AccessGuard produces route middleware that enforces authentication and
// role membership using the engine's policy.
type AccessGuard struct {
	core       *Core
	contextKey string
	sessionKey string
	logger     Logger
}

// NewAccessGuard creates a guard bound to the given engine
func NewAccessGuard(core *Core) *AccessGuard {
	return &AccessGuard{
		core:       core,
		contextKey: DefaultContextKey,
		sessionKey: DefaultSessionKey,
		logger:     defLogger{},
	}
}

// WithContextKey changes the router local used to store the identity
func (g *AccessGuard) WithContextKey(key string) *AccessGuard {
	if key != "" {
		g.contextKey = key
	}
	return g
}

// WithSessionKey changes the router local read in session mode
func (g *AccessGuard) WithSessionKey(key string) *AccessGuard {
	if key != "" {
		g.sessionKey = key
	}
	return g
}

// WithLogger sets the guard logger
func (g *AccessGuard) WithLogger(logger Logger) *AccessGuard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Authenticate returns middleware that resolves the caller's identity. In
// token mode the bearer token from the Authorization header is validated and
// the referenced user loaded; in session mode the identity is read from the
// session local. On success the identity is stored both as a router local
// and in the request's standard context; on failure the response is a 401
// with no detail about why.
func (g *AccessGuard) Authenticate() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			identity, ok := g.resolve(ctx)
			if !ok {
				return unauthorized(ctx)
			}

			ctx.Locals(g.contextKey, identity)
			ctx.SetContext(WithIdentityContext(ctx.Context(), identity))

			return next(ctx)
		}
	}
}

// RequireRole returns middleware that passes only callers whose role is one
// of the given roles. With no arguments it only requires an authenticated
// identity. Run it after Authenticate.
func (g *AccessGuard) RequireRole(roles ...string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			identity := g.identityFromLocals(ctx)
			if identity == nil {
				return unauthorized(ctx)
			}

			if len(roles) == 0 {
				return next(ctx)
			}

			if role, ok := identity.Role(); ok {
				for _, candidate := range roles {
					if role == candidate {
						return next(ctx)
					}
				}
			}

			g.logger.Debug("access denied for role requirement: %v", roles)

			return ctx.JSON(router.StatusForbidden, map[string]string{
				"error": "Forbidden",
			})
		}
	}
}

func (g *AccessGuard) resolve(ctx router.Context) (UserRecord, bool) {
	if g.core.Config().Mode == AuthModeSession {
		identity, ok := ctx.Locals(g.sessionKey).(UserRecord)
		return identity, ok && identity != nil
	}

	token, err := BearerTokenFromHeader(ctx.GetString(router.HeaderAuthorization, ""))
	if err != nil {
		return nil, false
	}

	identity, err := g.core.ResolveIdentity(ctx.Context(), token)
	if err != nil {
		g.logger.Debug("identity resolution failed: %v", err)
		return nil, false
	}

	return identity, true
}

func (g *AccessGuard) identityFromLocals(ctx router.Context) UserRecord {
	if identity, ok := ctx.Locals(g.contextKey).(UserRecord); ok {
		return identity
	}
	if identity, ok := ctx.Locals(g.sessionKey).(UserRecord); ok {
		return identity
	}
	return nil
}

// BearerTokenFromHeader extracts the raw token from an Authorization header
// value using the Bearer scheme.
func BearerTokenFromHeader(header string) (string, error) {
	const scheme = "Bearer"
	l := len(scheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) && header[l] == ' ' {
		if token := strings.TrimSpace(header[l+1:]); token != "" {
			return token, nil
		}
	}
	return "", ErrTokenInvalid
}

func unauthorized(ctx router.Context) error {
	return ctx.JSON(router.StatusUnauthorized, map[string]string{
		"error": "Unauthorized",
	})
}
