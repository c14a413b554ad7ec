package hostedauth

import (
	"golang.org/x/oauth2"
)

// Session aggregates the tokens, granted scopes and anti-forgery state of one
// sign-in. A Session is exclusively owned by the Auth instance that created
// it; it is replaced wholesale on a successful callback resolution or refresh
// and reset to empty on sign-out.
type Session struct {
	idToken      Token
	accessToken  Token
	refreshToken RefreshToken
	scopes       TokenScopes
	state        string
}

// NewSession creates an empty Session. Absent tokens are represented by empty
// Token/RefreshToken values, never by nil.
func NewSession() *Session {
	return &Session{}
}

// IsValid reports whether the session is usable: both the id and access
// tokens must be held and their expirations must be strictly in the future.
func (s *Session) IsValid() bool {
	if s == nil {
		return false
	}
	return s.idToken.Valid() && s.accessToken.Valid()
}

// IDToken returns the session's id token.
func (s *Session) IDToken() Token { return s.idToken }

// SetIDToken replaces the session's id token.
func (s *Session) SetIDToken(t Token) { s.idToken = t }

// AccessToken returns the session's access token.
func (s *Session) AccessToken() Token { return s.accessToken }

// SetAccessToken replaces the session's access token.
func (s *Session) SetAccessToken(t Token) { s.accessToken = t }

// RefreshToken returns the session's refresh credential.
func (s *Session) RefreshToken() RefreshToken { return s.refreshToken }

// SetRefreshToken replaces the session's refresh credential.
func (s *Session) SetRefreshToken(t RefreshToken) { s.refreshToken = t }

// Scopes returns the scope set granted to the session.
func (s *Session) Scopes() TokenScopes { return s.scopes }

// SetScopes replaces the session's scope set.
func (s *Session) SetScopes(scopes TokenScopes) { s.scopes = scopes }

// State returns the anti-forgery state value carried through the provider
// round-trip, or the empty string when none is set.
func (s *Session) State() string { return s.state }

// SetState replaces the session's anti-forgery state value.
func (s *Session) SetState(state string) { s.state = state }

// Username returns the subject of the session's access token. The access
// token is the only source of the active username.
func (s *Session) Username() string {
	if s == nil {
		return ""
	}
	return s.accessToken.Subject()
}

// OAuth2Token converts the session into a *oauth2.Token so it can feed API
// clients built on golang.org/x/oauth2. Returns nil when no access token is
// held.
func (s *Session) OAuth2Token() *oauth2.Token {
	if s == nil || !s.accessToken.IsSet() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.accessToken.Raw(),
		RefreshToken: s.refreshToken.Raw(),
		Expiry:       s.accessToken.ExpiresAt(),
		TokenType:    "Bearer",
	}
}
