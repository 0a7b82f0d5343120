package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/service/mocks"
	"github.com/turtacn/transgate/pkg/constants"
	"github.com/turtacn/transgate/pkg/errors"
	"github.com/turtacn/transgate/pkg/logger"
)

func newAuthRouter(validator *mocks.MockTokenValidator, verbose bool, reached *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireToken(validator, verbose, logger.NewNoopLogger()))
	r.GET("/protected", func(c *gin.Context) {
		*reached = true
		fromGin, _ := c.Get(string(constants.ContextKeyPrincipal))
		fromCtx, ok := PrincipalFromContext(c.Request.Context())
		if !ok || fromGin != fromCtx {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": fromCtx.Subject()})
	})
	return r
}

func doGet(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireToken_AttachesPrincipal(t *testing.T) {
	validator := new(mocks.MockTokenValidator)
	principal := &models.Principal{
		Claims: map[string]interface{}{"sub": "user-1"},
		Scopes: map[string]struct{}{constants.RequiredScope: {}},
	}
	validator.On("Validate", mock.Anything, "Bearer good").Return(principal, nil)

	reached := false
	w := doGet(newAuthRouter(validator, false, &reached), "Bearer good")

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", decodeBody(t, w)["sub"])
	validator.AssertExpectations(t)
}

func TestRequireToken_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing header", errors.ErrAuthFormat("missing bearer token"), http.StatusUnauthorized, "Unauthorized"},
		{"malformed token", errors.ErrTokenFormat("not a jwt"), http.StatusUnauthorized, "Invalid token format"},
		{"bad signature", errors.ErrAuthVerification("signature invalid"), http.StatusUnauthorized, "Unauthorized"},
		{"missing scope", errors.ErrAuthScope("scope missing"), http.StatusForbidden, "Insufficient permissions"},
		{"key fetch failed", errors.ErrKeyInfrastructure("jwks down"), http.StatusInternalServerError, "Failed to validate token"},
		{"identity missing", errors.ErrServerConfiguration("tenant not set"), http.StatusInternalServerError, "Server configuration error"},
		{"resolver init", errors.ErrAuthClientInit("bad tenant"), http.StatusInternalServerError, "Failed to initialize authentication client"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(mocks.MockTokenValidator)
			validator.On("Validate", mock.Anything, mock.Anything).Return(nil, tt.err)

			reached := false
			w := doGet(newAuthRouter(validator, false, &reached), "Bearer x")

			assert.False(t, reached)
			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, body, "details")
		})
	}
}

func TestRequireToken_VerboseDetails(t *testing.T) {
	validator := new(mocks.MockTokenValidator)
	validator.On("Validate", mock.Anything, "").Return(nil, errors.ErrAuthVerification("token is expired"))

	reached := false
	w := doGet(newAuthRouter(validator, true, &reached), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Unauthorized", body["error"])
	assert.Equal(t, "token is expired", body["details"])
}

func TestPrincipalFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	p, ok := PrincipalFromContext(req.Context())
	assert.False(t, ok)
	assert.Nil(t, p)
}

//Personal.AI order the ending
