package hostedauth

import "encoding/json"

// RefreshToken is an opaque refresh credential. It carries no expiration
// semantics; it is usable whenever it is present and non-empty.
type RefreshToken string

// RedactedRefreshToken is the redacted string or json for a refresh_token
const RedactedRefreshToken = "[REDACTED: refresh_token]"

// String will redact the token
func (t RefreshToken) String() string {
	return RedactedRefreshToken
}

// MarshalJSON will redact the token
func (t RefreshToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedRefreshToken)
}

// Raw returns the refresh credential string.
func (t RefreshToken) Raw() string {
	return string(t)
}

// Valid reports whether a usable refresh credential is held.
func (t RefreshToken) Valid() bool {
	return t != ""
}
