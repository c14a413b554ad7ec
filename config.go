package hostedauth

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
)

// ResponseType selects the grant used by the redirect flow.
type ResponseType string

const (
	// ResponseTypeCode is the authorization-code grant: a short-lived code
	// arrives in the redirect query and is exchanged server-side for tokens.
	ResponseTypeCode ResponseType = "code"

	// ResponseTypeToken is the implicit grant: tokens arrive directly in the
	// redirect fragment. Implicit grants carry no refresh credential.
	ResponseTypeToken ResponseType = "token"
)

// Config describes one client of a hosted-UI identity provider. ClientID,
// Domain and the redirect URIs are immutable once an Auth has been
// constructed; the response type, identity provider hint and anti-forgery
// state may be updated afterwards through the Auth setters.
type Config struct {
	// ClientID is the app client id registered with the provider.
	ClientID string

	// Domain is the provider's hosted-UI web domain, without a scheme,
	// e.g. "auth.example.com".
	Domain string

	// RedirectURISignIn is where the provider redirects after sign-in. It
	// must exactly match one of the redirect URIs registered for the client.
	RedirectURISignIn string

	// RedirectURISignOut is where the provider redirects after sign-out.
	RedirectURISignOut string

	// ResponseType is the grant to request: ResponseTypeCode or
	// ResponseTypeToken.
	ResponseType ResponseType

	// IdentityProvider optionally pre-selects a federated identity provider
	// on the hosted UI, skipping the provider picker.
	IdentityProvider string

	// Scopes is the permission-scope set to request. A cached session is only
	// reused when its granted scopes exactly match this set.
	Scopes []string

	// AdvancedSecurityDataCollection enables appending device/risk context
	// data to the sign-in URL when a ContextDataProvider is available.
	AdvancedSecurityDataCollection bool
}

// Validate checks the configuration, reporting every violation rather than
// the first one found.
func (c *Config) Validate() error {
	const op = "hostedauth.Config.Validate"
	if c == nil {
		return fmt.Errorf("%s: config is nil: %w", op, ErrNilParameter)
	}
	var result *multierror.Error
	if c.ClientID == "" {
		result = multierror.Append(result, fmt.Errorf("client id is empty: %w", ErrInvalidConfiguration))
	}
	if c.Domain == "" {
		result = multierror.Append(result, fmt.Errorf("domain is empty: %w", ErrInvalidConfiguration))
	}
	if strings.Contains(c.Domain, "://") {
		result = multierror.Append(result, fmt.Errorf("domain %q must not carry a scheme: %w", c.Domain, ErrInvalidConfiguration))
	}
	if c.RedirectURISignIn == "" {
		result = multierror.Append(result, fmt.Errorf("sign-in redirect uri is empty: %w", ErrInvalidConfiguration))
	}
	if c.RedirectURISignOut == "" {
		result = multierror.Append(result, fmt.Errorf("sign-out redirect uri is empty: %w", ErrInvalidConfiguration))
	}
	switch c.ResponseType {
	case ResponseTypeCode, ResponseTypeToken:
	default:
		result = multierror.Append(result, fmt.Errorf("response type %q is not %q or %q: %w",
			c.ResponseType, ResponseTypeCode, ResponseTypeToken, ErrInvalidConfiguration))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// envConfig holds the raw environment values for LoadConfigFromEnv.
type envConfig struct {
	ClientID                       string   `env:"HOSTEDAUTH_CLIENT_ID"`
	Domain                         string   `env:"HOSTEDAUTH_DOMAIN"`
	RedirectURISignIn              string   `env:"HOSTEDAUTH_REDIRECT_URI_SIGNIN"`
	RedirectURISignOut             string   `env:"HOSTEDAUTH_REDIRECT_URI_SIGNOUT"`
	ResponseType                   string   `env:"HOSTEDAUTH_RESPONSE_TYPE" envDefault:"code"`
	IdentityProvider               string   `env:"HOSTEDAUTH_IDENTITY_PROVIDER"`
	Scopes                         []string `env:"HOSTEDAUTH_SCOPES" envSeparator:" "`
	AdvancedSecurityDataCollection bool     `env:"HOSTEDAUTH_ADVANCED_SECURITY" envDefault:"false"`
}

// LoadConfigFromEnv loads a Config from HOSTEDAUTH_* environment variables.
// Scopes are space-separated, mirroring their wire serialization. The loaded
// config is validated before it is returned.
func LoadConfigFromEnv() (*Config, error) {
	const op = "hostedauth.LoadConfigFromEnv"
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("%s: unable to parse environment: %w", op, err)
	}
	c := &Config{
		ClientID:                       raw.ClientID,
		Domain:                         raw.Domain,
		RedirectURISignIn:              raw.RedirectURISignIn,
		RedirectURISignOut:             raw.RedirectURISignOut,
		ResponseType:                   ResponseType(raw.ResponseType),
		IdentityProvider:               raw.IdentityProvider,
		Scopes:                         raw.Scopes,
		AdvancedSecurityDataCollection: raw.AdvancedSecurityDataCollection,
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
