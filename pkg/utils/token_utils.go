package utils

import (
	"strings"
)

// ExtractBearerToken extracts the token from an Authorization header value.
// It returns "" unless the header is exactly "Bearer <token>".
func ExtractBearerToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ScopesFromClaim normalizes a scope claim, which may be a space-delimited
// string or a list, into a set.
func ScopesFromClaim(raw interface{}) map[string]struct{} {
	scopes := make(map[string]struct{})
	switch v := raw.(type) {
	case string:
		for _, s := range strings.Fields(v) {
			scopes[s] = struct{}{}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				scopes[s] = struct{}{}
			}
		}
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				scopes[s] = struct{}{}
			}
		}
	}
	return scopes
}

// TrimEndpoint drops trailing slashes from a service endpoint.
func TrimEndpoint(endpoint string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/")
}

//Personal.AI order the ending
