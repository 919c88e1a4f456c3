package gatekeeper

import (
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier validates tokens signed by an external issuer whose keys are
// published as JWK Sets. Keys refresh in the background for the lifetime of
// the verifier.
type JWKSVerifier struct {
	keyFunc jwt.Keyfunc
	issuer  string
	logger  Logger
}

var _ TokenVerifier = (*JWKSVerifier)(nil)

// NewJWKSVerifier fetches the given JWK Set URLs and returns a verifier
// backed by them. At least one URL is required.
func NewJWKSVerifier(urls []string, logger Logger) (*JWKSVerifier, error) {
	if logger == nil {
		logger = defLogger{}
	}

	if len(urls) == 0 {
		return nil, ErrTokenInvalid
	}

	opts := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			logger.Warn("failed to do a background refresh of JWK set: %v", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	m := make(map[string]keyfunc.Options, len(urls))
	for _, url := range urls {
		m[url] = opts
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, invalidTokenError(err)
	}

	return &JWKSVerifier{
		keyFunc: multi.Keyfunc,
		logger:  logger,
	}, nil
}

// WithIssuer pins the expected issuer claim
func (v *JWKSVerifier) WithIssuer(issuer string) *JWKSVerifier {
	v.issuer = issuer
	return v
}

// Verify satisfies the TokenVerifier interface.
func (v *JWKSVerifier) Verify(tokenString string) (*AccessClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 1)
	if v.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, v.keyFunc, parserOptions...)
	if err != nil {
		return nil, invalidTokenError(err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
