package hostedauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// URLOpener navigates the user agent to a URL: a web host assigns the
// location, a native host opens an external browser. Opening is
// fire-and-forget; once the user agent navigates away, control returns only
// through ParseWebResponse after the provider redirects back.
type URLOpener interface {
	Open(ctx context.Context, rawURL string) error
}

// OpenURLFunc adapts an ordinary function to the URLOpener interface.
type OpenURLFunc func(ctx context.Context, rawURL string) error

// Open implements URLOpener.
func (f OpenURLFunc) Open(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}

// ContextDataProvider supplies an opaque device/risk context payload for the
// sign-in URL. It is an injected capability resolved at construction, never
// looked up from ambient state, and it is only consulted when the config
// enables advanced security data collection.
type ContextDataProvider interface {
	ContextData(username string) string
}

// Auth orchestrates the session lifecycle for one client of a hosted-UI
// identity provider: it decides whether to reuse, refresh or re-launch
// authentication, builds provider URLs, parses callback responses and keeps
// the resolved session cached.
//
// An Auth is safe for concurrent use, but overlapping refreshes are not
// de-duplicated: two racing calls may each trigger their own exchange and the
// last writer wins in the cache.
type Auth struct {
	config   Config
	scopes   TokenScopes
	logger   hclog.Logger
	cache    *SessionCache
	endpoint TokenEndpoint
	opener   URLOpener
	ctxData  ContextDataProvider

	mu       sync.Mutex
	session  *Session
	state    string
	username string
}

// New creates an Auth for the given configuration. The initial session is
// derived from the cache: when the storage medium still holds tokens for the
// last signed-in user they become the held session, otherwise the session
// starts empty.
//
// Supported options: WithLogger, WithHTTPClient, WithStorage, WithURLOpener,
// WithTokenEndpoint, WithContextDataProvider, WithState.
func New(c Config, opt ...Option) (*Auth, error) {
	const op = "hostedauth.New"
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	scopes, err := NewTokenScopes(c.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	opts := getAuthOpts(opt...)

	storage := opts.withStorage
	if storage == nil {
		storage = NewMemoryStorage()
	}
	cache, err := NewSessionCache(c.ClientID, storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	endpoint := opts.withEndpoint
	if endpoint == nil {
		endpoint = newHTTPTokenEndpoint(opts.withHTTPClient)
	}

	a := &Auth{
		config:   c,
		scopes:   scopes,
		logger:   opts.withLogger,
		cache:    cache,
		endpoint: endpoint,
		opener:   opts.withOpener,
		ctxData:  opts.withContextData,
		state:    opts.withInitialState,
	}
	if username, ok := cache.LastUser(); ok {
		a.username = username
	}
	a.session = cache.Load(a.username)
	return a, nil
}

// GetSession returns a usable session, preferring the held one, then the
// cached one, then a refreshed one. When none of those can produce a valid
// session, or when the cached scopes diverge from the configured scope set,
// the user agent is redirected to the hosted UI and GetSession fails with
// ErrSignInRequired; the host re-enters through ParseWebResponse once the
// provider redirects back.
func (a *Auth) GetSession(ctx context.Context) (*Session, error) {
	const op = "hostedauth.Auth.GetSession"
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session.IsValid() {
		return a.session, nil
	}

	username := a.username
	if username == "" {
		username, _ = a.cache.LastUser()
	}
	cached := a.cache.Load(username)

	if !a.scopes.Equal(cached.Scopes()) {
		a.logger.Debug("cached scopes diverge from configured scopes, discarding session",
			"cached", cached.Scopes().String(), "configured", a.scopes.String())
		// erase the mismatching entries so later calls start from an empty cache
		a.cache.Clear(username)
		fresh := NewSession()
		fresh.SetScopes(a.scopes)
		a.session = fresh
		return nil, a.redirectToSignIn(ctx, op, "scope mismatch")
	}
	if cached.IsValid() {
		a.session = cached
		a.username = username
		return cached, nil
	}
	if !cached.RefreshToken().Valid() {
		a.logger.Debug("session expired without a refresh credential")
		return nil, a.redirectToSignIn(ctx, op, "session expired")
	}

	a.logger.Debug("session expired, refreshing", "username", username)
	a.session = cached
	a.username = username
	return a.refreshLocked(ctx, cached.RefreshToken())
}

// ParseWebResponse resolves a session from the callback URL the provider
// redirected back to. Under the implicit grant the tokens are read from the
// URL fragment; under the authorization-code grant the code is read from the
// query and exchanged at the token endpoint. The resolved session replaces
// the held one and is persisted; on any failure the held session is left
// unmodified.
func (a *Auth) ParseWebResponse(ctx context.Context, rawURL string) (*Session, error) {
	const op = "hostedauth.Auth.ParseWebResponse"
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.config.ResponseType {
	case ResponseTypeToken:
		_, fragment, _ := strings.Cut(rawURL, "#")
		fields := parsePairs(fragment)
		return a.resolveLocked(op, fields)
	case ResponseTypeCode:
		// Some providers append a fragment to a code redirect; everything
		// after the first "#" is dropped before the query is read.
		trimmed, _, _ := strings.Cut(rawURL, "#")
		_, query, _ := strings.Cut(trimmed, "?")
		fields := parsePairs(query)
		if e := fields["error"]; e != "" {
			return nil, fmt.Errorf("%s: %w: %q", op, ErrProviderResponse, e)
		}
		code, ok := fields["code"]
		if !ok || code == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrMissingAuthCode)
		}
		form := url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {code},
			"client_id":    {a.config.ClientID},
			"redirect_uri": {a.config.RedirectURISignIn},
		}
		resp, err := a.endpoint.Exchange(ctx, tokenURL(&a.config), form)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		resolved := map[string]string{
			"id_token":      resp.IDToken,
			"access_token":  resp.AccessToken,
			"refresh_token": resp.RefreshToken,
			"error":         resp.Error,
		}
		if state, ok := fields["state"]; ok {
			resolved["state"] = state
		}
		return a.resolveLocked(op, resolved)
	default:
		return nil, fmt.Errorf("%s: response type %q: %w", op, a.config.ResponseType, ErrInvalidConfiguration)
	}
}

// resolveLocked builds a session from a parsed field mapping, persists it and
// makes it the held session. An "error" field anywhere in the mapping is a
// hard failure and leaves the held session untouched.
func (a *Auth) resolveLocked(op string, fields map[string]string) (*Session, error) {
	if e := fields["error"]; e != "" {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrProviderResponse, e)
	}
	s := NewSession()
	s.SetIDToken(Token(fields["id_token"]))
	s.SetAccessToken(Token(fields["access_token"]))
	s.SetRefreshToken(RefreshToken(fields["refresh_token"]))
	s.SetScopes(a.scopes)
	s.SetState(fields["state"])

	username, err := a.cache.Save(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.session = s
	a.username = username
	a.logger.Debug("session resolved", "username", username)
	return s, nil
}

// RefreshSession exchanges the current refresh credential for fresh id and
// access tokens. Refreshing is only defined for the authorization-code grant;
// under the implicit grant it fails immediately with ErrRefreshNotSupported
// and no exchange is attempted.
func (a *Auth) RefreshSession(ctx context.Context) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	refreshToken := a.session.RefreshToken()
	if !refreshToken.Valid() {
		username := a.username
		if username == "" {
			username, _ = a.cache.LastUser()
		}
		refreshToken = a.cache.Load(username).RefreshToken()
	}
	return a.refreshLocked(ctx, refreshToken)
}

// refreshLocked drives the refresh sub-flow. The held session is replaced
// wholesale with a fresh one rather than mutated in place, since callers hold
// the old pointer and read it without the orchestrator's mutex. Only the id
// and access tokens change; the refresh credential is retained, not rotated.
// A provider error in the exchange result redirects to sign-in and fails the
// caller.
func (a *Auth) refreshLocked(ctx context.Context, refreshToken RefreshToken) (*Session, error) {
	const op = "hostedauth.Auth.refreshSession"
	if a.config.ResponseType != ResponseTypeCode {
		return nil, fmt.Errorf("%s: response type %q: %w", op, a.config.ResponseType, ErrRefreshNotSupported)
	}
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken.Raw()},
		"client_id":     {a.config.ClientID},
		"redirect_uri":  {a.config.RedirectURISignIn},
	}
	resp, err := a.endpoint.Exchange(ctx, tokenURL(&a.config), form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Error != "" {
		a.logger.Debug("refresh rejected by provider", "error", resp.Error)
		if redirectErr := a.redirectToSignIn(ctx, op, "refresh rejected"); !errors.Is(redirectErr, ErrSignInRequired) {
			return nil, redirectErr
		}
		return nil, fmt.Errorf("%s: %w: %q", op, ErrProviderResponse, resp.Error)
	}

	fresh := NewSession()
	fresh.SetIDToken(Token(resp.IDToken))
	fresh.SetAccessToken(Token(resp.AccessToken))
	fresh.SetRefreshToken(refreshToken)
	fresh.SetScopes(a.scopes)
	if a.session != nil {
		fresh.SetState(a.session.State())
	}

	username, err := a.cache.Save(fresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.session = fresh
	a.username = username
	a.logger.Debug("session refreshed", "username", username)
	return fresh, nil
}

// SignOut builds the provider sign-out URL, resets the held session to an
// empty one carrying the configured scopes, erases the cached entries for the
// current user and navigates the user agent away.
func (a *Auth) SignOut(ctx context.Context) error {
	const op = "hostedauth.Auth.SignOut"
	a.mu.Lock()
	defer a.mu.Unlock()

	u := signOutURL(&a.config)
	username := a.username
	if username == "" {
		username, _ = a.cache.LastUser()
	}

	fresh := NewSession()
	fresh.SetScopes(a.scopes)
	a.session = fresh
	a.cache.Clear(username)
	a.username = ""
	a.state = ""
	a.logger.Debug("signed out", "username", username)

	if a.opener != nil {
		if err := a.opener.Open(ctx, u); err != nil {
			return fmt.Errorf("%s: unable to open sign-out url: %w", op, err)
		}
	}
	return nil
}

// ClearCachedTokens erases the cached entries for the current user without
// contacting the provider or touching the held session.
func (a *Auth) ClearCachedTokens() {
	a.mu.Lock()
	defer a.mu.Unlock()
	username := a.username
	if username == "" {
		username, _ = a.cache.LastUser()
	}
	a.cache.Clear(username)
}

// SignInURL returns the provider authorize URL for the configured client.
// The first call generates and stores a fresh anti-forgery state value;
// repeated calls reuse it until the state is cleared by sign-out or replaced
// through SetState.
func (a *Auth) SignInURL() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.signInURLLocked()
}

func (a *Auth) signInURLLocked() (string, error) {
	const op = "hostedauth.Auth.SignInURL"
	if a.state == "" {
		state, err := NewState()
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		a.state = state
	}
	var contextData string
	if a.config.AdvancedSecurityDataCollection && a.ctxData != nil {
		contextData = a.ctxData.ContextData(a.username)
	}
	return signInURL(&a.config, a.scopes, a.state, a.config.IdentityProvider, contextData), nil
}

// SignOutURL returns the provider sign-out URL for the configured client.
func (a *Auth) SignOutURL() string {
	return signOutURL(&a.config)
}

// Session returns the held session. It may be invalid; use GetSession to
// obtain a usable one.
func (a *Auth) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Username returns the active username: the held session's access token
// subject when present, otherwise the cache's last-signed-in-user pointer.
func (a *Auth) Username() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u := a.session.Username(); u != "" {
		return u
	}
	if a.username != "" {
		return a.username
	}
	username, _ := a.cache.LastUser()
	return username
}

// State returns the current anti-forgery state value, or the empty string
// when none has been generated yet.
func (a *Auth) State() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SetState replaces the anti-forgery state value used for subsequent sign-in
// URLs.
func (a *Auth) SetState(state string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = state
}

// SetIdentityProvider updates the pre-selected federated identity provider
// appended to subsequent sign-in URLs.
func (a *Auth) SetIdentityProvider(idp string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.IdentityProvider = idp
}

// SetResponseType switches the configured grant between ResponseTypeCode and
// ResponseTypeToken.
func (a *Auth) SetResponseType(rt ResponseType) error {
	const op = "hostedauth.Auth.SetResponseType"
	switch rt {
	case ResponseTypeCode, ResponseTypeToken:
	default:
		return fmt.Errorf("%s: response type %q: %w", op, rt, ErrInvalidConfiguration)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.ResponseType = rt
	return nil
}

// redirectToSignIn launches the hosted UI and reports ErrSignInRequired. The
// pending call never resolves a session; the host re-enters through
// ParseWebResponse after the provider round-trip.
func (a *Auth) redirectToSignIn(ctx context.Context, op, reason string) error {
	u, err := a.signInURLLocked()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.logger.Debug("redirecting to hosted UI", "reason", reason)
	if a.opener != nil {
		if err := a.opener.Open(ctx, u); err != nil {
			return fmt.Errorf("%s: unable to open sign-in url: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %s: %w", op, reason, ErrSignInRequired)
}

// parsePairs reads an "&"-delimited list of key=value pairs into a mapping.
// Malformed fragments without "=" are dropped.
func parsePairs(s string) map[string]string {
	fields := map[string]string{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		fields[k] = v
	}
	return fields
}
