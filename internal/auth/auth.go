// Package auth supplies Authorization header values for Atlassian Cloud
// requests. Atlassian Cloud uses either HTTP basic auth with an API token
// (Jira) or app password (Bitbucket), or a static OAuth bearer token; there
// is no token refresh to manage.
package auth

import (
	"context"
	"encoding/base64"
)

// Provider supplies the Authorization header value for outgoing requests.
type Provider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// BasicAuthProvider authenticates with username and API token or app
// password.
type BasicAuthProvider struct {
	username string
	secret   string
}

// NewBasicAuthProvider creates a basic auth provider.
func NewBasicAuthProvider(username, secret string) *BasicAuthProvider {
	return &BasicAuthProvider{
		username: username,
		secret:   secret,
	}
}

// AuthorizationHeader implements Provider.
func (p *BasicAuthProvider) AuthorizationHeader(ctx context.Context) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(p.username + ":" + p.secret))

	return "Basic " + encoded, nil
}

// StaticTokenProvider authenticates with a fixed bearer token.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a static bearer token provider.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// AuthorizationHeader implements Provider.
func (p *StaticTokenProvider) AuthorizationHeader(ctx context.Context) (string, error) {
	return "Bearer " + p.token, nil
}
