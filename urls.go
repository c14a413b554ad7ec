package hostedauth

import (
	"net/url"
	"strings"
)

// Fixed provider paths. The hosted UI serves every client from the same
// well-known endpoints under the configured domain.
const (
	domainScheme = "https"
	signInPath   = "oauth2/authorize"
	tokenPath    = "oauth2/token"
	signOutPath  = "oauth2/idpresponse"
)

// signInURL assembles the provider authorize URL with its query parameters in
// a fixed order: redirect_uri, response_type, client_id, state, scope, then
// the optional identity_provider and userContextData. Callers supply the
// state value; generation is handled by the orchestrator so repeated calls
// reuse the same value.
func signInURL(c *Config, scopes TokenScopes, state, identityProvider, contextData string) string {
	var b strings.Builder
	b.WriteString(domainScheme)
	b.WriteString("://")
	b.WriteString(c.Domain)
	b.WriteString("/")
	b.WriteString(signInPath)
	b.WriteString("?redirect_uri=")
	b.WriteString(uriEncode(c.RedirectURISignIn))
	b.WriteString("&response_type=")
	b.WriteString(string(c.ResponseType))
	b.WriteString("&client_id=")
	b.WriteString(uriEncode(c.ClientID))
	b.WriteString("&state=")
	b.WriteString(uriEncode(state))
	b.WriteString("&scope=")
	b.WriteString(uriEncode(scopes.String()))
	if identityProvider != "" {
		b.WriteString("&identity_provider=")
		b.WriteString(uriEncode(identityProvider))
	}
	if contextData != "" {
		b.WriteString("&userContextData=")
		b.WriteString(uriEncode(contextData))
	}
	return b.String()
}

// signOutURL assembles the provider sign-out URL.
func signOutURL(c *Config) string {
	var b strings.Builder
	b.WriteString(domainScheme)
	b.WriteString("://")
	b.WriteString(c.Domain)
	b.WriteString("/")
	b.WriteString(signOutPath)
	b.WriteString("?redirect_uri=")
	b.WriteString(uriEncode(c.RedirectURISignOut))
	b.WriteString("&client_id=")
	b.WriteString(uriEncode(c.ClientID))
	return b.String()
}

// tokenURL is the provider token endpoint for code and refresh exchanges.
func tokenURL(c *Config) string {
	return domainScheme + "://" + c.Domain + "/" + tokenPath
}

// uriEncode percent-encodes a query component. Spaces become %20, not "+",
// so the space-joined scope list round-trips the way user agents expect.
func uriEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
