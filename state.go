package hostedauth

import (
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// Anti-forgery state values are fixed-length random strings drawn from a
// fixed alphanumeric alphabet so they survive the provider round-trip without
// any escaping.
const (
	stateLength  = 32
	stateCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// NewState generates a random anti-forgery state value suitable for binding a
// callback to its originating sign-in request.
func NewState() (string, error) {
	const op = "hostedauth.NewState"
	b, err := uuid.GenerateRandomBytes(stateLength)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, ErrStateGeneratorFailed, err)
	}
	out := make([]byte, stateLength)
	for i, v := range b {
		out[i] = stateCharset[int(v)%len(stateCharset)]
	}
	return string(out), nil
}
