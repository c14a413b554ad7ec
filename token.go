package hostedauth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a signed id_token or access_token issued by the provider. The raw
// string is treated as an opaque claims carrier: claims are decoded on demand
// and the signature is never verified.
type Token string

// RedactedToken is the redacted string or json for a token
const RedactedToken = "[REDACTED: token]"

// String will redact the token
func (t Token) String() string {
	return RedactedToken
}

// MarshalJSON will redact the token
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedToken)
}

// Raw returns the signed token string.  An empty string means no token is
// held.
func (t Token) Raw() string {
	return string(t)
}

// IsSet reports whether a token string is held at all.
func (t Token) IsSet() bool {
	return t != ""
}

// ExpiresAt returns the token's expiration from its "exp" claim. The zero
// time is returned when no token is held or the claim cannot be decoded.
func (t Token) ExpiresAt() time.Time {
	claims, err := t.claims()
	if err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Subject returns the token's username claim, falling back to the standard
// "sub" claim. An empty string is returned when no token is held or neither
// claim is present.
func (t Token) Subject() string {
	claims, err := t.claims()
	if err != nil {
		return ""
	}
	if username, ok := claims["username"].(string); ok && username != "" {
		return username
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// Valid reports whether a token is held and its expiration is strictly in the
// future. A Token without a raw string is always invalid.
func (t Token) Valid() bool {
	if t == "" {
		return false
	}
	return t.ExpiresAt().After(time.Now())
}

// Claims decodes the token's payload into claims without verifying the
// signature.
func (t Token) Claims(claims interface{}) error {
	const op = "hostedauth.Token.Claims"
	if t == "" {
		return fmt.Errorf("%s: token is empty: %w", op, ErrInvalidParameter)
	}
	if claims == nil {
		return fmt.Errorf("%s: claims interface is nil: %w", op, ErrNilParameter)
	}
	m, err := t.claims()
	if err != nil {
		return fmt.Errorf("%s: unable to decode token claims: %w", op, err)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%s: unable to marshal token claims: %w", op, err)
	}
	if err := json.Unmarshal(b, claims); err != nil {
		return fmt.Errorf("%s: unable to unmarshal token claims: %w", op, err)
	}
	return nil
}

func (t Token) claims() (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(string(t), claims); err != nil {
		return nil, err
	}
	return claims, nil
}
