package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
	"github.com/turtacn/transgate/pkg/utils"
)

var _ TokenValidator = (*tokenValidator)(nil)

// TokenValidatorOptions tunes claim verification.
type TokenValidatorOptions struct {
	// AuthorityURL is the identity provider host the v2.0 issuer is derived from.
	AuthorityURL string
	// RequiredScope must be present in "scp". Defaults to access_as_user.
	RequiredScope string
	// Leeway tolerates clock skew on exp/nbf/iat.
	Leeway time.Duration
}

type tokenValidator struct {
	identity  IdentitySource
	resolvers SigningKeyResolverSource
	opts      TokenValidatorOptions
	parser    *jwt.Parser
	metrics   Metrics
	log       logger.Logger
}

// NewTokenValidator creates the bearer token validator.
func NewTokenValidator(
	identity IdentitySource,
	resolvers SigningKeyResolverSource,
	opts TokenValidatorOptions,
	metrics Metrics,
	log logger.Logger,
) TokenValidator {
	if opts.AuthorityURL == "" {
		opts.AuthorityURL = constants.DefaultAuthorityURL
	}
	opts.AuthorityURL = utils.TrimEndpoint(opts.AuthorityURL)
	if opts.RequiredScope == "" {
		opts.RequiredScope = constants.RequiredScope
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &tokenValidator{
		identity:  identity,
		resolvers: resolvers,
		opts:      opts,
		parser:    jwt.NewParser(),
		metrics:   metrics,
		log:       log,
	}
}

// Validate runs NoHeader → Extracted → Decoded → KeyResolved →
// SignatureVerified → ScopeChecked → Authorized. Any failure is terminal.
func (v *tokenValidator) Validate(ctx context.Context, authHeader string) (*models.Principal, error) {
	principal, err := v.validate(ctx, authHeader)
	if err != nil {
		v.metrics.RecordAuthResult(string(errorCode(err)))
		return nil, err
	}
	v.metrics.RecordAuthResult("authorized")
	return principal, nil
}

func (v *tokenValidator) validate(ctx context.Context, authHeader string) (*models.Principal, error) {
	tenantID, clientID := v.identity.TenantAndClient()
	if tenantID == "" || clientID == "" {
		return nil, errors.ErrServerConfiguration("tenant or client identifier is not configured")
	}

	// 1. Header extraction
	raw := utils.ExtractBearerToken(authHeader)
	if raw == "" {
		return nil, errors.ErrAuthFormat("missing or malformed bearer authorization header")
	}

	// 2. Structural decode; unverified claims only drive key lookup
	unverified, _, err := v.parser.ParseUnverified(raw, jwt.MapClaims{})
	if err != nil && (unverified == nil || !errors.Is(err, jwt.ErrTokenUnverifiable)) {
		return nil, errors.ErrTokenFormat("token could not be decoded").WithCause(err)
	}
	if alg, _ := unverified.Header["alg"].(string); alg != jwt.SigningMethodRS256.Alg() {
		return nil, errors.ErrAuthVerification(fmt.Sprintf("unsupported signing algorithm %q", alg))
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, errors.ErrTokenFormat("token header has no kid")
	}

	// 3. Key resolution
	resolver, err := v.resolvers.ResolverFor(tenantID)
	if err != nil {
		v.log.Error(ctx, "Failed to initialize signing key resolver", err, logger.Fields{"tenant_id": tenantID})
		return nil, errors.ErrAuthClientInit("signing key resolver unavailable").WithCause(err)
	}
	key, err := resolver.Resolve(ctx, kid)
	if err != nil {
		v.log.Warn(ctx, "Signing key resolution failed", logger.Fields{"kid": kid, "error": err.Error()})
		return nil, errors.ErrKeyInfrastructure("signing key resolution failed").WithCause(err)
	}

	// 4. Signature and claim verification against trusted configuration
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(constants.AudiencePrefix+clientID),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.opts.Leeway),
	)
	if err != nil {
		return nil, errors.ErrAuthVerification("token verification failed").WithCause(err)
	}
	issuer, _ := claims.GetIssuer()
	if !v.trustedIssuer(tenantID, issuer) {
		return nil, errors.ErrAuthVerification(fmt.Sprintf("untrusted issuer %q", issuer))
	}

	// 5. Scope check
	principal := &models.Principal{
		Claims: claims,
		Scopes: utils.ScopesFromClaim(claims["scp"]),
	}
	if !principal.HasScope(v.opts.RequiredScope) {
		return nil, errors.ErrAuthScope(fmt.Sprintf("scope %q not granted", v.opts.RequiredScope))
	}
	return principal, nil
}

// trustedIssuer accepts only the v2.0 and v1.0 issuers of the configured tenant.
func (v *tokenValidator) trustedIssuer(tenantID, issuer string) bool {
	for _, trusted := range IssuersFor(v.opts.AuthorityURL, tenantID) {
		if issuer == trusted {
			return true
		}
	}
	return false
}

func errorCode(err error) constants.ErrorCode {
	if appErr := errors.AsAppError(err); appErr != nil {
		return appErr.Code()
	}
	return constants.ErrCodeInternal
}

// IssuersFor lists the issuers a token for tenantID may carry.
func IssuersFor(authorityURL, tenantID string) []string {
	return []string{
		fmt.Sprintf("%s/%s/v2.0", strings.TrimRight(authorityURL, "/"), tenantID),
		fmt.Sprintf("%s/%s/", constants.LegacyIssuerURL, tenantID),
	}
}

//Personal.AI order the ending
