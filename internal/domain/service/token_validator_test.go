package service_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/internal/domain/service/mocks"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

const (
	tenantID = "11111111-2222-3333-4444-555555555555"
	clientID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	kid      = "kid-1"
)

type staticIdentity struct{ tenant, client string }

func (s staticIdentity) TenantAndClient() (string, string) { return s.tenant, s.client }

type validatorFixture struct {
	key       *rsa.PrivateKey
	resolver  *mocks.MockSigningKeyResolver
	resolvers *mocks.MockSigningKeyResolverSource
	metrics   *mocks.MockMetrics
	validator service.TokenValidator
}

func newValidatorFixture(t *testing.T, identity staticIdentity) *validatorFixture {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	f := &validatorFixture{
		key:       key,
		resolver:  new(mocks.MockSigningKeyResolver),
		resolvers: new(mocks.MockSigningKeyResolverSource),
		metrics:   new(mocks.MockMetrics),
	}
	f.resolvers.On("ResolverFor", tenantID).Return(f.resolver, nil).Maybe()
	f.resolver.On("Resolve", mock.Anything, kid).Return(&key.PublicKey, nil).Maybe()
	f.metrics.On("RecordAuthResult", mock.Anything).Return()
	f.validator = service.NewTokenValidator(identity, f.resolvers, service.TokenValidatorOptions{}, f.metrics, logger.NewNoopLogger())
	return f
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss": "https://login.microsoftonline.com/" + tenantID + "/v2.0",
		"aud": "api://" + clientID,
		"sub": "user-1",
		"azp": "spa-client",
		"scp": "User.Read access_as_user",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims, header map[string]interface{}) string {
	token := jwt.NewWithClaims(method, claims)
	for k, v := range header {
		token.Header[k] = v
	}
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func bearer(token string) string { return "Bearer " + token }

func assertRejected(t *testing.T, err error, code constants.ErrorCode, status int, public string) {
	t.Helper()
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	assert.Equal(t, code, appErr.Code())
	assert.Equal(t, status, appErr.HTTPStatus())
	assert.Equal(t, public, appErr.Description())
}

func TestTokenValidator_Authorized(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"v2.0 issuer", func(jwt.MapClaims) {}},
		{"v1.0 issuer", func(c jwt.MapClaims) { c["iss"] = "https://sts.windows.net/" + tenantID + "/" }},
		{"scope list", func(c jwt.MapClaims) { c["scp"] = []string{"access_as_user"} }},
		{"audience list", func(c jwt.MapClaims) { c["aud"] = []string{"api://other", "api://" + clientID} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
			claims := validClaims()
			tt.mutate(claims)
			token := sign(t, jwt.SigningMethodRS256, f.key, claims, map[string]interface{}{"kid": kid})

			principal, err := f.validator.Validate(context.Background(), bearer(token))

			require.NoError(t, err)
			assert.True(t, principal.HasScope(constants.RequiredScope))
			assert.Equal(t, "user-1", principal.Subject())
			f.metrics.AssertCalled(t, "RecordAuthResult", "authorized")
		})
	}
}

func TestTokenValidator_HeaderAndFormat(t *testing.T) {
	f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
	noKid := sign(t, jwt.SigningMethodRS256, f.key, validClaims(), nil)

	tests := []struct {
		name   string
		header string
		public string
	}{
		{"missing header", "", constants.MsgUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", constants.MsgUnauthorized},
		{"bearer without token", "Bearer", constants.MsgUnauthorized},
		{"extra segments", "Bearer a b", constants.MsgUnauthorized},
		{"not a jwt", "Bearer not-a-jwt", constants.MsgInvalidTokenFormat},
		{"undecodable payload", "Bearer eyJhbGciOiJSUzI1NiJ9.%%%.sig", constants.MsgInvalidTokenFormat},
		{"missing kid", bearer(noKid), constants.MsgInvalidTokenFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.validator.Validate(context.Background(), tt.header)
			assertRejected(t, err, constants.ErrCodeAuthFormat, http.StatusUnauthorized, tt.public)
		})
	}
	f.resolvers.AssertNotCalled(t, "ResolverFor", mock.Anything)
}

func TestTokenValidator_RejectsNonRS256(t *testing.T) {
	f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
	header := map[string]interface{}{"kid": kid}

	tests := []struct {
		name  string
		token string
	}{
		{"HS256", sign(t, jwt.SigningMethodHS256, []byte("shared-secret"), validClaims(), header)},
		{"RS384", sign(t, jwt.SigningMethodRS384, f.key, validClaims(), header)},
		{"none", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(), header)},
		{"HS256 without kid", sign(t, jwt.SigningMethodHS256, []byte("shared-secret"), validClaims(), nil)},
		{"unknown alg", "eyJhbGciOiJYWVoiLCJraWQiOiJraWQtMSJ9.eyJzdWIiOiJ4In0.c2ln"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.validator.Validate(context.Background(), bearer(tt.token))
			assertRejected(t, err, constants.ErrCodeAuthVerification, http.StatusUnauthorized, constants.MsgUnauthorized)
		})
	}
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestTokenValidator_ClaimVerification(t *testing.T) {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
		key    *rsa.PrivateKey
	}{
		{name: "audience mismatch", mutate: func(c jwt.MapClaims) { c["aud"] = "api://some-other-app" }},
		{name: "bare client id audience", mutate: func(c jwt.MapClaims) { c["aud"] = clientID }},
		{name: "self-declared issuer", mutate: func(c jwt.MapClaims) { c["iss"] = "https://attacker.example/" + tenantID + "/v2.0" }},
		{name: "other tenant issuer", mutate: func(c jwt.MapClaims) { c["iss"] = "https://login.microsoftonline.com/other-tenant/v2.0" }},
		{name: "missing issuer", mutate: func(c jwt.MapClaims) { delete(c, "iss") }},
		{name: "expired", mutate: func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Minute).Unix() }},
		{name: "missing expiry", mutate: func(c jwt.MapClaims) { delete(c, "exp") }},
		{name: "not yet valid", mutate: func(c jwt.MapClaims) { c["nbf"] = time.Now().Add(time.Hour).Unix() }},
		{name: "signed by another key", mutate: func(jwt.MapClaims) {}, key: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
			claims := validClaims()
			tt.mutate(claims)
			signer := f.key
			if tt.key != nil {
				signer = tt.key
			}
			token := sign(t, jwt.SigningMethodRS256, signer, claims, map[string]interface{}{"kid": kid})

			_, err := f.validator.Validate(context.Background(), bearer(token))
			assertRejected(t, err, constants.ErrCodeAuthVerification, http.StatusUnauthorized, constants.MsgUnauthorized)
		})
	}
}

func TestTokenValidator_MissingScope(t *testing.T) {
	tests := []struct {
		name string
		scp  interface{}
	}{
		{"absent", nil},
		{"other scopes", "User.Read Files.Read"},
		{"prefix only", "access_as_user_admin"},
		{"list without scope", []string{"User.Read"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
			claims := validClaims()
			if tt.scp == nil {
				delete(claims, "scp")
			} else {
				claims["scp"] = tt.scp
			}
			token := sign(t, jwt.SigningMethodRS256, f.key, claims, map[string]interface{}{"kid": kid})

			_, err := f.validator.Validate(context.Background(), bearer(token))
			assertRejected(t, err, constants.ErrCodeAuthScope, http.StatusForbidden, constants.MsgInsufficientPermissions)
			f.metrics.AssertCalled(t, "RecordAuthResult", string(constants.ErrCodeAuthScope))
		})
	}
}

func TestTokenValidator_ServerSideFailures(t *testing.T) {
	t.Run("identity not configured", func(t *testing.T) {
		f := newValidatorFixture(t, staticIdentity{tenant: tenantID})
		token := sign(t, jwt.SigningMethodRS256, f.key, validClaims(), map[string]interface{}{"kid": kid})

		_, err := f.validator.Validate(context.Background(), bearer(token))
		assertRejected(t, err, constants.ErrCodeServerConfiguration, http.StatusInternalServerError, constants.MsgServerConfiguration)
	})

	t.Run("resolver cannot be built", func(t *testing.T) {
		resolvers := new(mocks.MockSigningKeyResolverSource)
		resolvers.On("ResolverFor", tenantID).Return(nil, errors.New("invalid tenant"))
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		v := service.NewTokenValidator(staticIdentity{tenantID, clientID}, resolvers, service.TokenValidatorOptions{}, nil, logger.NewNoopLogger())
		token := sign(t, jwt.SigningMethodRS256, key, validClaims(), map[string]interface{}{"kid": kid})

		_, err = v.Validate(context.Background(), bearer(token))
		assertRejected(t, err, constants.ErrCodeAuthClientInit, http.StatusInternalServerError, constants.MsgAuthClientInit)
	})

	t.Run("key resolution fails", func(t *testing.T) {
		resolver := new(mocks.MockSigningKeyResolver)
		resolver.On("Resolve", mock.Anything, "kid-unseen").Return(nil, errors.New("key discovery rate limit exceeded"))
		resolvers := new(mocks.MockSigningKeyResolverSource)
		resolvers.On("ResolverFor", tenantID).Return(resolver, nil)
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		v := service.NewTokenValidator(staticIdentity{tenantID, clientID}, resolvers, service.TokenValidatorOptions{}, nil, logger.NewNoopLogger())
		token := sign(t, jwt.SigningMethodRS256, key, validClaims(), map[string]interface{}{"kid": "kid-unseen"})

		_, err = v.Validate(context.Background(), bearer(token))
		assertRejected(t, err, constants.ErrCodeKeyInfrastructure, http.StatusInternalServerError, constants.MsgFailedToValidateToken)
		assert.Contains(t, err.Error(), "rate limit")
	})
}

func TestTokenValidator_CustomAuthority(t *testing.T) {
	f := newValidatorFixture(t, staticIdentity{tenantID, clientID})
	v := service.NewTokenValidator(staticIdentity{tenantID, clientID}, f.resolvers,
		service.TokenValidatorOptions{AuthorityURL: "https://login.microsoftonline.us/", Leeway: time.Minute}, nil, logger.NewNoopLogger())

	claims := validClaims()
	claims["iss"] = "https://login.microsoftonline.us/" + tenantID + "/v2.0"
	claims["exp"] = time.Now().Add(-30 * time.Second).Unix()
	token := sign(t, jwt.SigningMethodRS256, f.key, claims, map[string]interface{}{"kid": kid})

	principal, err := v.Validate(context.Background(), bearer(token))
	require.NoError(t, err)
	assert.Equal(t, "spa-client", principal.AuthorizedParty())

	assert.Equal(t, []string{
		"https://login.microsoftonline.us/" + tenantID + "/v2.0",
		"https://sts.windows.net/" + tenantID + "/",
	}, service.IssuersFor("https://login.microsoftonline.us/", tenantID))
}
