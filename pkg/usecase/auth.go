package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

const (
	// FirebaseJWKSURL publishes the keys that sign Firebase ID tokens
	FirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	firebaseIssuerPrefix = "https://securetoken.google.com/"
	jwksRefreshInterval  = 15 * time.Minute
)

// AuthUseCaseInterface turns a bearer token into a principal
type AuthUseCaseInterface interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
	IsNoAuthn() bool
}

// AuthUseCase verifies Firebase ID tokens against the securetoken JWKS
type AuthUseCase struct {
	projectID string
	jwksURL   string
	keySet    jwk.Set
	skew      time.Duration
	cache     *authCache
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithJWKSURL overrides the key set location
func WithJWKSURL(url string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.jwksURL = url
	}
}

// WithAcceptableSkew sets the allowed clock skew for exp/iat/nbf checks
func WithAcceptableSkew(d time.Duration) AuthOption {
	return func(uc *AuthUseCase) {
		uc.skew = d
	}
}

// NewAuthUseCase registers the JWKS in an auto-refreshing cache and fetches it once
func NewAuthUseCase(ctx context.Context, projectID string, options ...AuthOption) (*AuthUseCase, error) {
	if projectID == "" {
		return nil, goerr.New("firebase project ID is required")
	}

	uc := &AuthUseCase{
		projectID: projectID,
		jwksURL:   FirebaseJWKSURL,
		skew:      10 * time.Second,
		cache:     newAuthCache(),
	}
	for _, opt := range options {
		opt(uc)
	}

	c := jwk.NewCache(ctx)
	if err := c.Register(uc.jwksURL, jwk.WithMinRefreshInterval(jwksRefreshInterval)); err != nil {
		return nil, goerr.Wrap(err, "failed to register JWKS", goerr.V("jwks_url", uc.jwksURL))
	}
	if _, err := c.Refresh(ctx, uc.jwksURL); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch JWKS", goerr.V("jwks_url", uc.jwksURL))
	}
	uc.keySet = jwk.NewCachedSet(c, uc.jwksURL)

	return uc, nil
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// Authenticate verifies signature, issuer, audience and lifetime of an ID
// token and builds the principal from its claims. A token without a valid
// role claim gets the viewer role.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "empty token")
	}

	if p, ok := uc.cache.get(token); ok {
		return p, nil
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKeySet(uc.keySet, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithIssuer(firebaseIssuerPrefix+uc.projectID),
		jwt.WithAudience(uc.projectID),
		jwt.WithAcceptableSkew(uc.skew),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrUnauthenticated, "failed to verify ID token", goerr.V("cause", err.Error()))
	}
	if parsed.Subject() == "" {
		return nil, goerr.Wrap(ErrUnauthenticated, "sub claim is empty")
	}

	p := &auth.Principal{
		UserID: parsed.Subject(),
		Email:  stringClaim(parsed, "email"),
		Name:   stringClaim(parsed, "name"),
		Role:   auth.RoleViewer,
		UnitID: types.UnitID(stringClaim(parsed, "unit_id")),
	}
	if role, err := auth.ParseRole(stringClaim(parsed, "role")); err == nil {
		p.Role = role
	} else {
		logging.From(ctx).Debug("role claim missing or invalid, using viewer", "user_id", p.UserID)
	}

	uc.cache.set(token, p, parsed.Expiration())
	return p, nil
}

func stringClaim(token jwt.Token, name string) string {
	v, ok := token.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
