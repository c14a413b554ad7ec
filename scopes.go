package hostedauth

import (
	"fmt"
	"sort"
	"strings"
)

// TokenScopes is an immutable set of permission-scope strings. Two scope sets
// are equal iff they hold the same members, independent of the order they
// were supplied in.
type TokenScopes struct {
	scopes []string
}

// NewTokenScopes creates a scope set from the given scope strings. Duplicates
// are collapsed. Empty or whitespace-only entries are rejected with
// ErrInvalidScopes.
func NewTokenScopes(scopes ...string) (TokenScopes, error) {
	const op = "hostedauth.NewTokenScopes"
	seen := map[string]bool{}
	normalized := make([]string, 0, len(scopes))
	for _, s := range scopes {
		if strings.TrimSpace(s) == "" {
			return TokenScopes{}, fmt.Errorf("%s: scope is empty: %w", op, ErrInvalidScopes)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		normalized = append(normalized, s)
	}
	sort.Strings(normalized)
	return TokenScopes{scopes: normalized}, nil
}

// ParseTokenScopes creates a scope set from a space-joined scope string, the
// serialization used for persistence and the sign-in URL. Parsing is lenient:
// blank fragments are dropped rather than rejected, so a missing or mangled
// persisted value degrades to an empty set.
func ParseTokenScopes(joined string) TokenScopes {
	fields := strings.Fields(joined)
	scopes, err := NewTokenScopes(fields...)
	if err != nil {
		return TokenScopes{}
	}
	return scopes
}

// Strings returns a copy of the scope members in a stable sorted order.
func (s TokenScopes) Strings() []string {
	out := make([]string, len(s.scopes))
	copy(out, s.scopes)
	return out
}

// String returns the space-joined serialization of the set.
func (s TokenScopes) String() string {
	return strings.Join(s.scopes, " ")
}

// IsEmpty reports whether the set has no members.
func (s TokenScopes) IsEmpty() bool {
	return len(s.scopes) == 0
}

// Equal reports whether two scope sets have the same size and membership.
func (s TokenScopes) Equal(other TokenScopes) bool {
	if len(s.scopes) != len(other.scopes) {
		return false
	}
	for i := range s.scopes {
		if s.scopes[i] != other.scopes[i] {
			return false
		}
	}
	return true
}
