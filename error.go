package hostedauth

import (
	"errors"
)

var (
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrNilParameter         = errors.New("nil parameter")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidScopes        = errors.New("invalid scopes")
	ErrSignInRequired       = errors.New("sign-in required")
	ErrProviderResponse     = errors.New("provider returned an error response")
	ErrMissingAuthCode      = errors.New("authorization code is missing")
	ErrMissingSubject       = errors.New("access token subject is missing")
	ErrRefreshNotSupported  = errors.New("refresh is not supported for the token response type")
	ErrTokenEndpoint        = errors.New("token endpoint request failed")
	ErrStateGeneratorFailed = errors.New("state generation failed")
)
