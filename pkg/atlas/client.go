package atlas

import (
	"time"
)

// Client provides access to the Atlassian product clients.
type Client interface {
	// PullRequests returns the pull request collection of one repository.
	PullRequests(workspace, repoSlug string) PullRequestsClient

	// ServiceDesk returns the Jira Service Desk client.
	ServiceDesk() ServiceDeskClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an atlas.Client.
//
// # Authentication precedence
//
//  1. AccessToken: if set, it is sent as a static Bearer token.
//  2. Username + Token: HTTP basic auth with an API token (Jira) or app
//     password (Bitbucket).
//  3. No credentials: requests are sent unauthenticated.
//
// # Timeouts and retries
//
// Per-request timeouts should be controlled via the context passed to client
// methods. Transient failures (5xx, 429, connection errors) are retried by
// the transport up to RetryMax times with backoff between RetryWaitMin and
// RetryWaitMax.
type Config struct {
	// BitbucketEndpoint is the Bitbucket Cloud API base URL
	// (e.g. "https://api.bitbucket.org"). cloudclient.New normalizes the
	// value by trimming a trailing slash and adding "https://" if no scheme
	// is present.
	BitbucketEndpoint string

	// ServiceDeskEndpoint is the Jira site base URL
	// (e.g. "https://example.atlassian.net").
	ServiceDeskEndpoint string

	// Username is the account email used for basic auth.
	Username string
	// Token is the API token or app password used with Username.
	Token string
	// AccessToken, if set, is used directly as a Bearer token and takes
	// precedence over Username/Token.
	AccessToken string

	// HTTPTimeout is an optional default HTTP timeout where supported. Most
	// calls should rely on context timeouts instead.
	HTTPTimeout time.Duration
	// RetryMax is the maximum number of retries for transient failures. If
	// 0, a sensible default is used.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger is an optional structured logger used by the transport.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
