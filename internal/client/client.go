// Package client implements the Atlassian product clients behind the
// pkg/atlas interfaces: the Bitbucket Cloud pull request collection and the
// Jira Service Desk client.
package client

import (
	"github.com/forgeworks-io/atlas/internal/auth"
	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/internal/http"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// Client implements the atlas.Client interface. It holds one transport per
// product endpoint; the Service Desk transport additionally opts into the
// experimental API surface on every request.
type Client struct {
	bitbucketClient   *http.Client
	serviceDeskClient *http.Client
	logger            atlas.Logger

	serviceDesk atlas.ServiceDeskClient
}

// createAuthProvider picks the authentication scheme from the configured
// credentials: a static bearer token wins over basic auth, and no
// credentials means unauthenticated requests.
func createAuthProvider(config *atlas.Config) auth.Provider {
	if config.AccessToken != "" {
		return auth.NewStaticTokenProvider(config.AccessToken)
	}

	if config.Username != "" && config.Token != "" {
		return auth.NewBasicAuthProvider(config.Username, config.Token)
	}

	return nil
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *atlas.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates an Atlassian Cloud client. At least one product endpoint must
// be set.
func New(config *atlas.Config) (*Client, error) {
	if config.BitbucketEndpoint == "" && config.ServiceDeskEndpoint == "" {
		return nil, atlas.ErrEndpointRequired
	}

	authProvider := createAuthProvider(config)
	httpOpts := createHTTPClientOptions(config)

	serviceDeskOpts := append([]http.Option{}, httpOpts...)
	serviceDeskOpts = append(serviceDeskOpts, http.WithDefaultHeaders(map[string]string{
		constants.ExperimentalAPIHeader: constants.ExperimentalAPIValue,
	}))

	// Attachment uploads go through this transport, so give it a longer
	// default deadline unless the caller set one.
	if config.HTTPTimeout <= 0 {
		serviceDeskOpts = append(serviceDeskOpts, http.WithTimeout(constants.ExtendedHTTPTimeout))
	}

	client := &Client{
		bitbucketClient:   http.NewClient(config.BitbucketEndpoint, authProvider, httpOpts...),
		serviceDeskClient: http.NewClient(config.ServiceDeskEndpoint, authProvider, serviceDeskOpts...),
		logger:            config.Logger,
	}

	client.serviceDesk = NewServiceDeskClient(client.serviceDeskClient)

	return client, nil
}

// PullRequests implements atlas.Client.PullRequests.
func (c *Client) PullRequests(workspace, repoSlug string) atlas.PullRequestsClient {
	return NewPullRequestsClient(c.bitbucketClient, workspace, repoSlug)
}

// ServiceDesk implements atlas.Client.ServiceDesk.
func (c *Client) ServiceDesk() atlas.ServiceDeskClient {
	return c.serviceDesk
}

// loggerAdapter adapts atlas.Logger to http.Logger.
type loggerAdapter struct {
	logger atlas.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
