// Package cloudclient provides the main entry point for creating Atlassian
// Cloud API clients.
package cloudclient

import (
	"fmt"
	"strings"

	"github.com/forgeworks-io/atlas/internal/client"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// New creates a new Atlassian Cloud API client. Endpoints are normalized by
// trimming a trailing slash and defaulting to https:// when no scheme is
// given; at least one product endpoint must be configured.
func New(config *atlas.Config) (atlas.Client, error) {
	if config == nil {
		return nil, atlas.ErrConfigRequired
	}

	if config.BitbucketEndpoint == "" && config.ServiceDeskEndpoint == "" {
		return nil, atlas.ErrEndpointRequired
	}

	// Normalize endpoints on a copy so the caller's config stays untouched.
	normalized := *config
	normalized.BitbucketEndpoint = normalizeEndpoint(config.BitbucketEndpoint)
	normalized.ServiceDeskEndpoint = normalizeEndpoint(config.ServiceDeskEndpoint)

	apiClient, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}

	endpoint = strings.TrimSuffix(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
