package models

import (
	"sort"
)

// Principal is the verified caller attached to a request after token validation.
// It is discarded when the request completes.
// Principal 是令牌校验通过后附加到请求上的调用方身份，请求结束后即丢弃。
type Principal struct {
	// Claims holds every verified claim of the access token.
	// Claims 保存访问令牌中所有已验证的声明。
	Claims map[string]interface{}
	// Scopes is the normalized set of delegated scopes ("scp").
	// Scopes 是规范化后的委派权限集合（"scp"）。
	Scopes map[string]struct{}
}

// HasScope reports whether the principal was granted scope.
func (p *Principal) HasScope(scope string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Scopes[scope]
	return ok
}

// ScopeList returns the scopes in sorted order.
func (p *Principal) ScopeList() []string {
	out := make([]string, 0, len(p.Scopes))
	for s := range p.Scopes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StringClaim returns a string claim or "".
func (p *Principal) StringClaim(name string) string {
	if p == nil {
		return ""
	}
	s, _ := p.Claims[name].(string)
	return s
}

// Subject returns the "sub" claim.
func (p *Principal) Subject() string { return p.StringClaim("sub") }

// AuthorizedParty returns the "azp" claim, the client that requested the token.
func (p *Principal) AuthorizedParty() string { return p.StringClaim("azp") }

//Personal.AI order the ending
