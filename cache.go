package hostedauth

import (
	"fmt"
)

// Storage key layout:
//
//	Provider.{clientId}.LastAuthUser
//	Provider.{clientId}.{username}.{idToken|accessToken|refreshToken|tokenScopesString}
const (
	storageKeyPrefix = "Provider"

	keyIDToken      = "idToken"
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyTokenScopes  = "tokenScopesString"
	keyLastAuthUser = "LastAuthUser"
)

// SessionCache maps a (client, user) identity to the persisted token and
// scope strings of its last session. Reads never fail: missing entries
// degrade to empty tokens and an empty scope set.
type SessionCache struct {
	clientID string
	storage  Storage
}

// NewSessionCache creates a cache over the given storage medium for one
// client id.
func NewSessionCache(clientID string, storage Storage) (*SessionCache, error) {
	const op = "hostedauth.NewSessionCache"
	if clientID == "" {
		return nil, fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter)
	}
	if storage == nil {
		return nil, fmt.Errorf("%s: storage is nil: %w", op, ErrNilParameter)
	}
	return &SessionCache{
		clientID: clientID,
		storage:  storage,
	}, nil
}

// Load reads the persisted session for username. An empty Session is
// returned when username is empty or no entries exist; individual missing
// fields degrade to empty Token/RefreshToken values.
func (c *SessionCache) Load(username string) *Session {
	s := NewSession()
	if username == "" {
		return s
	}
	idToken, _ := c.storage.Get(c.userKey(username, keyIDToken))
	accessToken, _ := c.storage.Get(c.userKey(username, keyAccessToken))
	refreshToken, _ := c.storage.Get(c.userKey(username, keyRefreshToken))
	scopes, _ := c.storage.Get(c.userKey(username, keyTokenScopes))

	s.SetIDToken(Token(idToken))
	s.SetAccessToken(Token(accessToken))
	s.SetRefreshToken(RefreshToken(refreshToken))
	s.SetScopes(ParseTokenScopes(scopes))
	return s
}

// Save persists all four session fields plus the last-signed-in-user pointer.
// The username is derived from the access token's subject claim; a session
// whose access token carries no resolvable subject cannot be cached and
// Save fails with ErrMissingSubject.
func (c *SessionCache) Save(s *Session) (string, error) {
	const op = "hostedauth.SessionCache.Save"
	if s == nil {
		return "", fmt.Errorf("%s: session is nil: %w", op, ErrNilParameter)
	}
	username := s.AccessToken().Subject()
	if username == "" {
		return "", fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}
	c.storage.Set(c.userKey(username, keyIDToken), s.IDToken().Raw())
	c.storage.Set(c.userKey(username, keyAccessToken), s.AccessToken().Raw())
	c.storage.Set(c.userKey(username, keyRefreshToken), s.RefreshToken().Raw())
	c.storage.Set(c.userKey(username, keyTokenScopes), s.Scopes().String())
	c.storage.Set(c.clientKey(keyLastAuthUser), username)
	return username, nil
}

// Clear removes all five keys for username. It is idempotent; clearing an
// absent identity is not an error.
func (c *SessionCache) Clear(username string) {
	if username == "" {
		return
	}
	c.storage.Remove(c.userKey(username, keyIDToken))
	c.storage.Remove(c.userKey(username, keyAccessToken))
	c.storage.Remove(c.userKey(username, keyRefreshToken))
	c.storage.Remove(c.userKey(username, keyTokenScopes))
	c.storage.Remove(c.clientKey(keyLastAuthUser))
}

// LastUser reads the last-signed-in-user pointer for the client.
func (c *SessionCache) LastUser() (string, bool) {
	return c.storage.Get(c.clientKey(keyLastAuthUser))
}

func (c *SessionCache) clientKey(field string) string {
	return fmt.Sprintf("%s.%s.%s", storageKeyPrefix, c.clientID, field)
}

func (c *SessionCache) userKey(username, field string) string {
	return fmt.Sprintf("%s.%s.%s.%s", storageKeyPrefix, c.clientID, username, field)
}
