package hostedauth

import (
	"net/http"

	"github.com/hashicorp/go-hclog"
)

// Option defines a common functional options type
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		o(opts)
	}
}

// authOptions is the set of available options for New
type authOptions struct {
	withLogger       hclog.Logger
	withHTTPClient   *http.Client
	withStorage      Storage
	withOpener       URLOpener
	withEndpoint     TokenEndpoint
	withContextData  ContextDataProvider
	withInitialState string
}

// authDefaults is a handy way to get the defaults at runtime and during unit
// tests.
func authDefaults() authOptions {
	return authOptions{
		withLogger: hclog.NewNullLogger(),
	}
}

// getAuthOpts gets the defaults and applies the opt overrides passed in.
func getAuthOpts(opt ...Option) authOptions {
	opts := authDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger for the orchestrator. Tokens are
// never logged raw.
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withLogger = l
		}
	}
}

// WithHTTPClient provides an optional http client for token endpoint
// exchanges, replacing the default cleanhttp-backed client.
func WithHTTPClient(c *http.Client) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withHTTPClient = c
		}
	}
}

// WithStorage provides an optional persistence medium for the session cache,
// replacing the default in-memory storage.
func WithStorage(s Storage) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withStorage = s
		}
	}
}

// WithURLOpener provides an optional opener used to navigate the user agent
// to the provider's hosted UI.
func WithURLOpener(l URLOpener) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withOpener = l
		}
	}
}

// WithTokenEndpoint provides an optional token endpoint collaborator,
// replacing the default form-encoded HTTP exchanger.
func WithTokenEndpoint(e TokenEndpoint) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withEndpoint = e
		}
	}
}

// WithContextDataProvider provides an optional device/risk context collector
// consulted when building sign-in URLs with advanced security data collection
// enabled.
func WithContextDataProvider(p ContextDataProvider) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withContextData = p
		}
	}
}

// WithState provides an initial anti-forgery state value, e.g. one restored
// by the host application across a page load. When unset, a fresh random
// value is generated the first time a sign-in URL is built.
func WithState(state string) Option {
	return func(o interface{}) {
		if o, ok := o.(*authOptions); ok {
			o.withInitialState = state
		}
	}
}
