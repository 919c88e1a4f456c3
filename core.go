package gatekeeper

import (
	"context"

	"github.com/goliatone/go-errors"
)

// SignupResult is returned from a successful registration. AccessToken is
// only populated in token mode.
type SignupResult struct {
	User        UserRecord `json:"user"`
	AccessToken string     `json:"accessToken,omitempty"`
}

// LoginResult is returned from a successful login
type LoginResult struct {
	User        UserRecord `json:"user"`
	AccessToken string     `json:"accessToken,omitempty"`
}

// Core is the authentication engine. It owns the merged policy, the storage
// adapter, the password hasher, and the token service, and runs the signup,
// login, and identity resolution flows against them.
//
// Construct with New, customize with the With* builders, then treat as
// read-only. The With* builders are not safe to call once requests are being
// served.
type Core struct {
	config        Config
	signingSecret []byte
	adapter       StorageAdapter
	hasher        PasswordAuthenticator
	tokens        TokenService
	verifier      TokenVerifier
	hooks         *HookRegistry
	override      *OverrideRegistry
	logger        Logger
}

// New builds a Core from a storage adapter, a merged policy, and a signing
// secret. In token mode the secret is mandatory; in session mode it is
// ignored and may be nil.
func New(adapter StorageAdapter, config Config, signingSecret []byte) (*Core, error) {
	if adapter == nil {
		return nil, errors.New("storage adapter is required", errors.CategoryOperation)
	}

	core := &Core{
		config:        config,
		signingSecret: signingSecret,
		adapter:       adapter,
		hasher:        NewBcryptAuthenticator(DefaultBcryptCost),
		hooks:         NewHookRegistry(),
		override:      NewOverrideRegistry(),
		logger:        defLogger{},
	}

	if err := core.applyConfig(config); err != nil {
		return nil, err
	}

	return core, nil
}

// Init replaces the policy wholesale, re-merging the override onto the
// defaults. Last write wins. Call before traffic begins, never while requests
// are in flight.
func (c *Core) Init(override *ConfigOverride) error {
	return c.applyConfig(Merge(DefaultConfig(), override))
}

func (c *Core) applyConfig(config Config) error {
	if config.Mode == AuthModeToken {
		if len(c.signingSecret) == 0 {
			return ErrMissingSigningSecret
		}

		ttl, err := config.AccessTokenTTL()
		if err != nil {
			return err
		}

		c.tokens = NewTokenService(c.signingSecret, ttl, "", c.logger)
		c.verifier = c.tokens
	}

	c.config = config
	return nil
}

// WithLogger sets the logger used by the engine
func (c *Core) WithLogger(logger Logger) *Core {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithPasswordAuthenticator replaces the default bcrypt hasher
func (c *Core) WithPasswordAuthenticator(hasher PasswordAuthenticator) *Core {
	if hasher != nil {
		c.hasher = hasher
	}
	return c
}

// WithTokenService replaces the token issuer and verifier pair
func (c *Core) WithTokenService(tokens TokenService) *Core {
	if tokens != nil {
		c.tokens = tokens
		c.verifier = tokens
	}
	return c
}

// WithTokenVerifier overrides the verification side only, leaving issuance
// on the existing token service. Use with MultiTokenVerifier or JWKSVerifier
// when tokens from external issuers must be accepted.
func (c *Core) WithTokenVerifier(verifier TokenVerifier) *Core {
	if verifier != nil {
		c.verifier = verifier
	}
	return c
}

// RegisterHook appends fn to the named lifecycle phase
func (c *Core) RegisterHook(name HookName, fn HookFunc) *Core {
	c.hooks.Register(name, fn)
	return c
}

// Config returns the merged policy the engine runs under
func (c *Core) Config() Config {
	return c.config
}

// Hooks exposes the lifecycle hook registry
func (c *Core) Hooks() *HookRegistry {
	return c.hooks
}

// Overrides exposes the controller override registry
func (c *Core) Overrides() *OverrideRegistry {
	return c.override
}

// Signup registers a new user. The payload must carry every configured
// signup field; the password is checked against the policy, hashed, and the
// digest stored in its place. In token mode the result includes a freshly
// issued access token.
func (c *Core) Signup(ctx context.Context, payload UserRecord) (*SignupResult, error) {
	for _, field := range c.config.SignupFields {
		if v, ok := payload[field]; !ok || v == nil {
			return nil, NewMissingFieldError(field)
		}
	}

	password, ok := payload[FieldPassword].(string)
	if !ok {
		return nil, ErrPasswordNotString
	}

	if err := c.config.Password.CheckPassword(password); err != nil {
		return nil, err
	}

	digest, err := c.hasher.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	record := payload.Clone()
	record[FieldPassword] = digest

	if record[FieldRole] == nil {
		record[FieldRole] = c.config.DefaultRole
	}

	c.hooks.Dispatch(ctx, HookBeforeRegister, record)

	created, err := c.adapter.CreateUser(ctx, record)
	if err != nil {
		return nil, err
	}

	c.hooks.Dispatch(ctx, HookAfterRegister, created)

	result := &SignupResult{User: created}

	if c.config.Mode == AuthModeToken {
		token, err := c.issueAccessToken(created)
		if err != nil {
			return nil, err
		}
		result.AccessToken = token
	}

	return result, nil
}

// Login authenticates an email and password pair. Unknown emails and wrong
// passwords produce the same invalid-credentials error so callers cannot
// probe which addresses exist.
func (c *Core) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := c.adapter.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	digest, ok := user.StoredDigest()
	if !ok {
		return nil, ErrStoredCredential
	}

	c.hooks.Dispatch(ctx, HookBeforeLogin, user)

	if err := c.hasher.ComparePasswordAndHash(password, digest); err != nil {
		return nil, ErrInvalidCredentials
	}

	c.hooks.Dispatch(ctx, HookAfterLogin, user)

	result := &LoginResult{User: user}

	if c.config.Mode == AuthModeToken {
		token, err := c.issueAccessToken(user)
		if err != nil {
			return nil, err
		}
		result.AccessToken = token
	}

	return result, nil
}

// Logout is a no-op for stateless tokens. It exists so the surface stays
// stable if server side revocation is added later.
func (c *Core) Logout(ctx context.Context) error {
	return nil
}

// ResolveIdentity validates a bearer token and loads the user it references.
// A role claim wins over storage, a null role clears the stored one, and a
// token without the claim leaves storage alone. The id is backfilled from the
// token subject when the adapter record lacks one.
func (c *Core) ResolveIdentity(ctx context.Context, tokenString string) (UserRecord, error) {
	if c.config.Mode != AuthModeToken {
		return nil, ErrSessionMode
	}

	claims, err := c.verifier.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	sub := claims.Subject()
	if sub == "" {
		return nil, ErrTokenNoSubject
	}

	user, err := c.adapter.FindUserByID(ctx, sub)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	identity := user.Clone()
	if _, ok := identity.ID(); !ok {
		identity.SetID(sub)
	}

	switch {
	case claims.Role != nil:
		identity[FieldRole] = *claims.Role
	case claims.RoleClaimPresent():
		// "role": null means the token holder had no role at issuance
		delete(identity, FieldRole)
	}

	return identity, nil
}

func (c *Core) issueAccessToken(user UserRecord) (string, error) {
	id, ok := user.ID()
	if !ok {
		return "", errors.New("storage adapter returned record without id", errors.CategoryInternal)
	}

	claims := &AccessClaims{}
	claims.RegisteredClaims.Subject = id

	if role, ok := user.Role(); ok {
		claims.Role = &role
	}

	return c.tokens.IssueAccessToken(claims)
}
