package cli

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	cliTenant = "99999999-8888-7777-6666-555555555555"
	cliClient = "cli-client"
	cliKid    = "cli-kid"
)

type cliFixture struct {
	key        *rsa.PrivateKey
	authority  string
	configPath string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
			{Key: &key.PublicKey, KeyID: cliKid, Use: "sig", Algorithm: "RS256"},
		}})
	}))
	t.Cleanup(jwks.Close)

	safety := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"blocklistsMatch":[],"categoriesAnalysis":[{"category":"Violence","severity":6}]}`)
	}))
	t.Cleanup(safety.Close)

	yaml := fmt.Sprintf(`
auth:
  tenant_id: %s
  client_id: %s
  authority_url: %s
content_safety:
  endpoint: %s
  key: secret-key
translator:
  endpoint: http://translator.invalid
moderation:
  thresholds:
    violence: 4
`, cliTenant, cliClient, jwks.URL, safety.URL)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	return &cliFixture{key: key, authority: jwks.URL, configPath: path}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(append([]string{"--config", f.configPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (f *cliFixture) token(t *testing.T, scope string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": fmt.Sprintf("%s/%s/v2.0", f.authority, cliTenant),
		"aud": "api://" + cliClient,
		"sub": "operator",
		"scp": scope,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tok.Header["kid"] = cliKid
	signed, err := tok.SignedString(f.key)
	require.NoError(t, err)
	return signed
}

func TestConfigCheck(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "config", "check")
	require.NoError(t, err)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, cliTenant, summary["tenant_id"])
	assert.Equal(t, true, summary["content_safety_key_set"])
	assert.NotContains(t, out, "secret-key")
}

func TestKeysResolve(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "keys", "resolve", cliKid)
	require.NoError(t, err)
	assert.Contains(t, out, "kid="+cliKid)
	assert.Contains(t, out, "modulus_bits=2048")

	_, err = f.run(t, "keys", "resolve", "missing-kid")
	assert.Error(t, err)
}

func TestTokenCheck(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "token", "check", f.token(t, "access_as_user"))
	require.NoError(t, err)
	assert.Contains(t, out, "token accepted")
	assert.Contains(t, out, "operator")

	_, err = f.run(t, "token", "check", f.token(t, "User.Read"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestModerate(t *testing.T) {
	f := newCLIFixture(t)

	out, err := f.run(t, "moderate", "some text")
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["flagged"])
}

//Personal.AI order the ending
