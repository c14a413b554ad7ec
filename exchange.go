package hostedauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

// TokenResponse is the JSON body of a token endpoint exchange. Every field is
// optional on the wire; an Error value means the provider rejected the
// exchange even though the request itself succeeded.
type TokenResponse struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// TokenEndpoint exchanges an authorization code or refresh credential for
// tokens. It is an external collaborator: the default implementation posts a
// form-encoded body to the provider's token endpoint, and tests substitute
// their own.
//
// A non-2xx response is a transport failure and must surface as an error
// wrapping ErrTokenEndpoint; an in-body "error" field is not an error at this
// layer and is returned inside the TokenResponse for the caller to judge.
type TokenEndpoint interface {
	Exchange(ctx context.Context, tokenURL string, form url.Values) (*TokenResponse, error)
}

// httpTokenEndpoint is the default TokenEndpoint.
type httpTokenEndpoint struct {
	client *http.Client
}

// newHTTPTokenEndpoint builds the default endpoint over the given client, or
// over a pooled cleanhttp client when none is supplied.
func newHTTPTokenEndpoint(client *http.Client) *httpTokenEndpoint {
	if client == nil {
		client = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
		}
	}
	return &httpTokenEndpoint{client: client}
}

// Exchange implements TokenEndpoint.
func (e *httpTokenEndpoint) Exchange(ctx context.Context, tokenURL string, form url.Values) (*TokenResponse, error) {
	const op = "hostedauth.httpTokenEndpoint.Exchange"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTokenEndpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to read response body: %w: %v", op, ErrTokenEndpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: status %d: %s", op, ErrTokenEndpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%s: unable to decode response body: %w: %v", op, ErrTokenEndpoint, err)
	}
	return &tr, nil
}
