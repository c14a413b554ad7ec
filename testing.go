package hostedauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestSigningKey is the HMAC key used for tokens minted by TestToken. Token
// signatures are never verified by this package, so any stable key will do.
const TestSigningKey = "hostedauth-test-signing-key"

// TestToken mints a signed JWT carrying a username claim and the given
// expiration, suitable for exercising session validity and cache
// resolution.
func TestToken(t *testing.T, username string, expiresAt time.Time) string {
	t.Helper()
	require := require.New(t)
	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSigningKey))
	require.NoError(err)
	return raw
}

// TestTokenWithoutSubject mints a signed JWT with an expiration but no
// username or subject claim.
func TestTokenWithoutSubject(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	require := require.New(t)
	claims := jwt.MapClaims{
		"exp": expiresAt.Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSigningKey))
	require.NoError(err)
	return raw
}

// TestTokenServer is a disposable hosted-UI provider serving only the token
// endpoint. It records the form values of each exchange so tests can assert
// the wire contract, and replies with whatever TokenResponse and status it
// was configured with.
type TestTokenServer struct {
	httpServer *httptest.Server

	mu        sync.Mutex
	response  TokenResponse
	rawBody   string
	status    int
	lastForm  url.Values
	exchanges int

	t *testing.T
}

// StartTestTokenServer creates a disposable TestTokenServer. It is stopped
// automatically when the test finishes.
func StartTestTokenServer(t *testing.T) *TestTokenServer {
	t.Helper()
	s := &TestTokenServer{
		status: http.StatusOK,
		t:      t,
	}
	s.httpServer = httptest.NewTLSServer(s)
	t.Cleanup(s.httpServer.Close)
	return s
}

// Domain returns the server's host:port, the shape the Config.Domain field
// expects.
func (s *TestTokenServer) Domain() string {
	return strings.TrimPrefix(s.httpServer.URL, "https://")
}

// HTTPClient returns a client that trusts the server's TLS certificate. Pass
// it to New through WithHTTPClient.
func (s *TestTokenServer) HTTPClient() *http.Client {
	return s.httpServer.Client()
}

// SetResponse configures the TokenResponse body returned by the next
// exchanges.
func (s *TestTokenServer) SetResponse(tr TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = tr
}

// SetStatus configures the HTTP status returned by the next exchanges.
func (s *TestTokenServer) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

// SetRawResponse configures a raw body returned verbatim, for exercising
// undecodable replies.
func (s *TestTokenServer) SetRawResponse(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBody = body
}

// LastForm returns the form values of the most recent exchange, or nil when
// none has happened.
func (s *TestTokenServer) LastForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForm
}

// Exchanges returns how many exchanges the server has handled.
func (s *TestTokenServer) Exchanges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exchanges
}

// ServeHTTP implements http.Handler.
func (s *TestTokenServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.t.Helper()
	if req.URL.Path != "/"+tokenPath || req.Method != http.MethodPost {
		http.NotFound(w, req)
		return
	}
	if err := req.ParseForm(); err != nil {
		http.Error(w, "unable to parse form", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges++
	s.lastForm = req.PostForm

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.status)
	if s.rawBody != "" {
		_, _ = w.Write([]byte(s.rawBody))
		return
	}
	_ = json.NewEncoder(w).Encode(s.response)
}
