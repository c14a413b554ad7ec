// Package hostedauth is a client for identity providers that host their login
// UI on a remote web domain. It drives the redirect-based authorization flow
// (implicit or authorization code grant), parses the provider's callback
// response, keeps a local session of id/access/refresh tokens, persists that
// session through a pluggable storage adapter, and transparently refreshes
// expired tokens.
//
// The package never renders login UI itself and never validates token
// signatures; tokens are treated as opaque claim carriers. Hosts that need
// signature verification should verify tokens with their own keyset before
// trusting claims for authorization decisions.
package hostedauth
